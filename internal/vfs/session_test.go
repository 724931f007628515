package vfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
)

const memConfig = "[mem]\ntype = memory\n"

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// bucket returns a fresh bucket name on the in-process memory backend.
func bucket() string {
	return "b" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func TestBegin_InfoJSONScenario(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), []byte(`{"test": "data"}`), 0o644))

	cwd, err := Begin(ctx, dir, NoConfig)
	require.NoError(t, err)
	assert.Equal(t, KindLocal, cwd.Kind())
	assert.Equal(t, dir, cwd.String())

	text, err := cwd.Join("info.json").ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"test": "data"}`, text)

	require.NoError(t, cwd.Join("out.json").WriteText(ctx, text))

	listing, err := cwd.Ls(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Len())
	assert.Equal(t, []string{"info.json", "out.json"}, listing.Files)
	assert.Empty(t, listing.Dirs)
}

func TestBegin_LocalRoundTrip(t *testing.T) {
	ctx := testContext(t)
	cwd, err := Begin(ctx, t.TempDir(), NoConfig)
	require.NoError(t, err)

	payloads := [][]byte{
		[]byte("plain text\n"),
		{},
		{0x00, 0xff, 0x10, '\r', '\n'},
		[]byte(strings.Repeat("日本語", 1000)),
	}
	for i, payload := range payloads {
		file := cwd.Join("nested", "dir", "f"+string(rune('a'+i)))
		require.NoError(t, file.Write(ctx, payload))

		got, err := file.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestBegin_LocalNotFound(t *testing.T) {
	ctx := testContext(t)
	_, err := Begin(ctx, filepath.Join(t.TempDir(), "missing"), NoConfig)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBegin_LocalFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "info.json")
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))

	file, err := Begin(ctx, p, NoConfig)
	require.NoError(t, err)
	assert.Equal(t, p, file.String())

	text, err := file.ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{}", text)

	listing, err := file.Ls(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"info.json"}, listing.Files)
	assert.Empty(t, listing.Dirs)
}

func TestBegin_RemoteWithoutConfig(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)

	_, err := Begin(ctx, "remote:bucket", NoConfig)
	assert.ErrorIs(t, err, errs.ErrConfigNotFound)
}

func TestBegin_OnTheFlyRemoteNeedsNoConfig(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)

	cwd, err := Begin(ctx, ":memory:"+bucket(), NoConfig)
	require.NoError(t, err)
	assert.Equal(t, KindRemote, cwd.Kind())
	require.NoError(t, cwd.Mkdir(ctx))
	require.NoError(t, cwd.Join("a.txt").WriteText(ctx, "a"))

	listing, err := cwd.Ls(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, listing.Files)
}

func TestBegin_RemoteWithTextConfig(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)
	b := bucket()

	cwd, err := Begin(ctx, "mem:"+b, ConfigText(memConfig))
	require.NoError(t, err)

	remote, ok := cwd.(*RemotePath)
	require.True(t, ok)
	assert.Equal(t, "mem", remote.Remote())
	assert.Equal(t, "mem:"+b, cwd.String())
	assert.Equal(t, "mem:"+b+"/docs/a.md", cwd.Join("docs", "a.md").String())

	require.NoError(t, cwd.Mkdir(ctx))
	require.NoError(t, cwd.Join("docs", "a.md").WriteText(ctx, "# a"))
	require.NoError(t, cwd.Join("info.json").WriteText(ctx, `{"test": "data"}`))

	listing, err := cwd.Ls(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, listing.Dirs)
	assert.Equal(t, []string{"info.json"}, listing.Files)

	text, err := cwd.Join("docs/a.md").ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "# a", text)
}

func TestBegin_RemoteWithEnvConfig(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)

	p := filepath.Join(t.TempDir(), "rclone.conf")
	require.NoError(t, os.WriteFile(p, []byte("[envmem]\ntype = memory\n"), 0o600))
	t.Setenv(ConfigEnvVar, p)

	cwd, err := Begin(ctx, "envmem:"+bucket(), NoConfig)
	require.NoError(t, err)
	assert.Equal(t, KindRemote, cwd.Kind())
}

func TestBegin_UnknownRemote(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)

	_, err := Begin(ctx, "nosuch:"+bucket(), ConfigText(memConfig))
	assert.Error(t, err)
}

func TestCreateRemote_UnknownBackend(t *testing.T) {
	isolateConfig(t)

	_, err := CreateRemote(testContext(t), ":nosuchbackend:bucket", NoConfig)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	i18nErr, ok := i18n.IsI18nError(err)
	require.True(t, ok)
	assert.Equal(t, i18n.ErrRemoteNotFound, i18nErr.MsgID)
}

func TestCreateRemote_ConnectionStringWithColon(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)
	b := bucket()

	r, err := CreateRemote(ctx, ":memory,description='a:b':"+b, NoConfig)
	require.NoError(t, err)
	assert.Equal(t, ":memory,description='a:b'", r.Remote())
	assert.Equal(t, ":memory,description='a:b':"+b, r.Cwd().String())
	assert.Equal(t, ":memory,description='a:b'", r.Cwd().Remote())
}

func TestCreateRemote_NormalisesSlashes(t *testing.T) {
	isolateConfig(t)
	ctx := testContext(t)
	b := bucket()

	r, err := CreateRemote(ctx, "mem:"+b+"/a/b", ConfigText(memConfig))
	require.NoError(t, err)
	assert.Equal(t, "mem", r.Remote())
	assert.Equal(t, "mem:"+b+"/a/b", r.Cwd().String())
	assert.NotNil(t, r.Fs())
}

func TestCreateRemote_RejectsLocalPath(t *testing.T) {
	_, err := CreateRemote(testContext(t), "/tmp/x", NoConfig)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestPath_ExistsMkdirRemove(t *testing.T) {
	ctx := testContext(t)
	local, err := CreateLocal().FromPath(ctx, t.TempDir())
	require.NoError(t, err)

	remote, err := Begin(ctx, ":memory:"+bucket(), NoConfig)
	require.NoError(t, err)
	require.NoError(t, remote.Mkdir(ctx))

	for _, root := range []Path{local, remote} {
		t.Run(root.Kind().String(), func(t *testing.T) {
			ok, err := root.Exists(ctx)
			require.NoError(t, err)
			assert.True(t, ok)

			dir := root.Join("sub")
			require.NoError(t, dir.Mkdir(ctx))
			file := dir.Join("f.txt")
			require.NoError(t, file.WriteText(ctx, "x"))

			ok, err = file.Exists(ctx)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = dir.Exists(ctx)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = root.Join("nope").Exists(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, file.Remove(ctx))
			ok, err = file.Exists(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = root.Join("nope.txt").Read(ctx)
			assert.ErrorIs(t, err, errs.ErrNotFound)

			assert.Error(t, root.WriteText(ctx, "cannot write a directory"))
		})
	}
}

func TestPath_RemoveDirectory(t *testing.T) {
	ctx := testContext(t)
	cwd, err := Begin(ctx, t.TempDir(), NoConfig)
	require.NoError(t, err)

	dir := cwd.Join("tree")
	require.NoError(t, dir.Join("a", "b.txt").WriteText(ctx, "b"))
	require.NoError(t, dir.Join("c.txt").WriteText(ctx, "c"))

	require.NoError(t, dir.Remove(ctx))
	ok, err := dir.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, cwd.Join("tree").Remove(ctx), errs.ErrNotFound)
}

func TestPath_LsFilters(t *testing.T) {
	ctx := testContext(t)
	cwd, err := Begin(ctx, t.TempDir(), NoConfig)
	require.NoError(t, err)

	for _, name := range []string{"a.txt", "b.tmp", "c.txt"} {
		require.NoError(t, cwd.Join(name).WriteText(ctx, name))
	}
	require.NoError(t, cwd.Join("cache").Mkdir(ctx))

	listing, err := cwd.Ls(ctx, "- *.tmp", "- cache")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "c.txt"}, listing.Files)
	assert.Empty(t, listing.Dirs)

	_, err = cwd.Ls(ctx, "not a rule")
	assert.Error(t, err)
}

func TestPath_LsMissingDir(t *testing.T) {
	ctx := testContext(t)
	cwd, err := Begin(ctx, t.TempDir(), NoConfig)
	require.NoError(t, err)

	_, err = cwd.Join("missing").Ls(ctx)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPath_JoinKeepsKind(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	cwd, err := Begin(ctx, dir, NoConfig)
	require.NoError(t, err)

	sub := cwd.Join("a", "b")
	assert.Equal(t, KindLocal, sub.Kind())
	assert.Equal(t, filepath.Join(dir, "a", "b"), sub.String())
	assert.Equal(t, dir, cwd.Join("a", "..").String())
	assert.Same(t, cwd.Fs(), sub.Fs())
}
