// Package i18n provides internationalization support for the application.
package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var bundle *i18n.Bundle

// Init loads the embedded message bundles. It must run before any
// translation; T and friends fall back to the message ID otherwise.
func Init() error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := b.LoadMessageFileFS(localeFS, "locales/en.toml"); err != nil {
		return fmt.Errorf("failed to load en.toml: %w", err)
	}
	if _, err := b.LoadMessageFileFS(localeFS, "locales/zh-CN.toml"); err != nil {
		return fmt.Errorf("failed to load zh-CN.toml: %w", err)
	}

	bundle = b
	return nil
}

// NewLocalizer creates a new localizer for the given language
func NewLocalizer(lang string) *i18n.Localizer {
	if bundle == nil {
		_ = Init()
	}
	return i18n.NewLocalizer(bundle, lang)
}

// ParseLocale normalizes a language string such as "zh_CN.UTF-8" or "en-US"
// to a supported locale.
func ParseLocale(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "zh") {
		return "zh-CN"
	}
	return "en"
}

// T translates a message with the given localizer
func T(localizer *i18n.Localizer, msgID string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: msgID,
	})
	if err != nil {
		return msgID // fallback to key
	}
	return msg
}

// TWithData translates a message with template data
func TWithData(localizer *i18n.Localizer, msgID string, data map[string]any) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		return msgID
	}
	return msg
}

// ========== context.Context ==========

type contextKey string

// ContextKeyLocalizer is the key for Localizer in context.Context
const ContextKeyLocalizer contextKey = "i18n.localizer"

// WithLocalizer stores a Localizer in context.Context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ContextKeyLocalizer, localizer)
}

// LocalizerFromContext retrieves a Localizer from context.Context,
// defaulting to English.
func LocalizerFromContext(ctx context.Context) *i18n.Localizer {
	if ctx != nil {
		if localizer, ok := ctx.Value(ContextKeyLocalizer).(*i18n.Localizer); ok {
			return localizer
		}
	}
	return NewLocalizer("en")
}

// Ctx translates msgID with the localizer stored in ctx.
func Ctx(ctx context.Context, msgID string) string {
	return T(LocalizerFromContext(ctx), msgID)
}

// CtxWithData translates msgID with data using the localizer stored in ctx.
func CtxWithData(ctx context.Context, msgID string, data map[string]any) string {
	return TWithData(LocalizerFromContext(ctx), msgID, data)
}

// ========== Error ==========

// Error is a translatable error. Cause keeps the underlying error so that
// errors.Is and errors.As see through it.
type Error struct {
	// MsgID is the key for the translated message
	MsgID string
	// Data is the data for the translation template (optional)
	Data map[string]any
	// Cause is the original error (optional)
	Cause error
}

// Error returns the message ID and cause, untranslated, for logs.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.MsgID, e.Cause)
	}
	return e.MsgID
}

// Unwrap returns the original error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Translate translates the error message using the given localizer
func (e *Error) Translate(localizer *i18n.Localizer) string {
	if e.Data != nil {
		return TWithData(localizer, e.MsgID, e.Data)
	}
	return T(localizer, e.MsgID)
}

// TranslateCtx translates the error message using the localizer from context
func (e *Error) TranslateCtx(ctx context.Context) string {
	return e.Translate(LocalizerFromContext(ctx))
}

// NewI18nError creates a new Error
func NewI18nError(msgID string) *Error {
	return &Error{MsgID: msgID}
}

// NewI18nErrorWithData creates an Error with template data
func NewI18nErrorWithData(msgID string, data map[string]any) *Error {
	return &Error{MsgID: msgID, Data: data}
}

// WithCause sets the original error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithData sets the translation data
func (e *Error) WithData(data map[string]any) *Error {
	e.Data = data
	return e
}

// IsI18nError checks if the error is an Error
func IsI18nError(err error) (*Error, bool) {
	var i18nErr *Error
	if errors.As(err, &i18nErr) {
		return i18nErr, true
	}
	return nil, false
}

// Message renders err for a user: translated when it is an Error, with the
// cause appended, and err.Error() otherwise.
func Message(ctx context.Context, err error) string {
	i18nErr, ok := IsI18nError(err)
	if !ok {
		return err.Error()
	}
	msg := i18nErr.TranslateCtx(ctx)
	if i18nErr.Cause != nil {
		return msg + ": " + i18nErr.Cause.Error()
	}
	return msg
}
