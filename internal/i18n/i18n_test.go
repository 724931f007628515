package i18n

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	err := Init()
	require.NoError(t, err, "Init should not return error")
	assert.NotNil(t, bundle, "bundle should be initialized")
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Chinese with region", "zh-CN", "zh-CN"},
		{"Chinese without region", "zh", "zh-CN"},
		{"POSIX Chinese locale", "zh_CN.UTF-8", "zh-CN"},
		{"English", "en", "en"},
		{"POSIX English locale", "en_US.UTF-8", "en"},
		{"Other language defaults to en", "fr", "en"},
		{"Empty string defaults to en", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLocale(tt.input))
		})
	}
}

func TestTranslationFunctions(t *testing.T) {
	require.NoError(t, Init())

	t.Run("T function with English", func(t *testing.T) {
		assert.Equal(t, "An error occurred", T(NewLocalizer("en"), ErrGeneric))
	})

	t.Run("T function with Chinese", func(t *testing.T) {
		assert.Equal(t, "发生错误", T(NewLocalizer("zh-CN"), ErrGeneric))
	})

	t.Run("TWithData function", func(t *testing.T) {
		msg := TWithData(NewLocalizer("en"), MsgDirectories, map[string]any{"Count": 3})
		assert.Equal(t, "Directories (3):", msg)
	})

	t.Run("unknown key falls back to key", func(t *testing.T) {
		assert.Equal(t, "no_such_key", T(NewLocalizer("en"), "no_such_key"))
	})

	t.Run("every key exists in both locales", func(t *testing.T) {
		keys := []string{
			ErrGeneric, ErrConfigNotFound, ErrConfigInvalid, ErrPathNotExist, ErrRemoteNotFound,
			ErrFailedToList, ErrFailedToRead, ErrFailedToWrite, ErrMountFailed, ErrUnmountFailed,
			ErrCopyFailed, ErrFilterRuleInvalid, ErrQuotaUnsupported, ErrFailedToGetQuota,
			ErrInvalidCacheMode, ErrNoCommand, ErrInvalidSchedule, ErrWatchNeedsLocal, ErrWatchFailed, MsgMounting, MsgExiting, MsgListing, MsgDirectories,
			MsgFiles, MsgCopying, MsgCopyDone, MsgRemotes, MsgNoRemotes, MsgAboutTotal, MsgAboutUsed,
			MsgAboutFree, MsgAboutTrash, MsgAboutOther, MsgAboutObjs, MsgWaiting,
		}
		for _, lang := range []string{"en", "zh-CN"} {
			localizer := NewLocalizer(lang)
			for _, key := range keys {
				assert.NotEqual(t, key, T(localizer, key), "%s missing in %s", key, lang)
			}
		}
	})
}

func TestContextFunctions(t *testing.T) {
	require.NoError(t, Init())

	t.Run("WithLocalizer and LocalizerFromContext", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("zh-CN"))
		assert.Equal(t, "发生错误", T(LocalizerFromContext(ctx), ErrGeneric))
	})

	t.Run("LocalizerFromContext with empty context", func(t *testing.T) {
		assert.Equal(t, "An error occurred", T(LocalizerFromContext(context.Background()), ErrGeneric))
	})

	t.Run("CtxWithData convenience function", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
		msg := CtxWithData(ctx, MsgMounting, map[string]any{"Source": "dst:books", "Destination": "/mnt/books"})
		assert.Equal(t, "Mounting dst:books to /mnt/books", msg)
	})
}

func TestI18nError(t *testing.T) {
	require.NoError(t, Init())

	t.Run("Error method", func(t *testing.T) {
		assert.Equal(t, ErrConfigNotFound, NewI18nError(ErrConfigNotFound).Error())
	})

	t.Run("Error method with cause", func(t *testing.T) {
		i18nErr := NewI18nError(ErrMountFailed).WithCause(assert.AnError)
		assert.Contains(t, i18nErr.Error(), ErrMountFailed)
		assert.Contains(t, i18nErr.Error(), assert.AnError.Error())
	})

	t.Run("errors.Is sees the cause", func(t *testing.T) {
		sentinel := errors.New("sentinel")
		var err error = NewI18nError(ErrConfigNotFound).WithCause(sentinel)
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("Translate with data", func(t *testing.T) {
		i18nErr := NewI18nErrorWithData(ErrPathNotExist, map[string]any{"Path": "/tmp/x"})
		assert.Equal(t, "Path does not exist: /tmp/x", i18nErr.Translate(NewLocalizer("en")))
		assert.Equal(t, "路径不存在：/tmp/x", i18nErr.Translate(NewLocalizer("zh-CN")))
	})

	t.Run("IsI18nError through wrapping", func(t *testing.T) {
		wrapped := errors.Join(errors.New("outer"), NewI18nError(ErrCopyFailed))
		got, ok := IsI18nError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrCopyFailed, got.MsgID)

		_, ok = IsI18nError(assert.AnError)
		assert.False(t, ok)
	})

	t.Run("Message", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
		assert.Equal(t, "Copy failed: "+assert.AnError.Error(),
			Message(ctx, NewI18nError(ErrCopyFailed).WithCause(assert.AnError)))
		assert.Equal(t, assert.AnError.Error(), Message(ctx, assert.AnError))
	})
}
