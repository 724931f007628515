package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeRemote(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{`C:\foo`, false},
		{`C:/foo`, false},
		{`z:\`, false},
		{"bucket:folder", true},
		{"relative/path", false},
		{"/absolute/path", false},
		{"a:b:c", true},
		{"C:foo", true},
		{":s3:bucket", true},
		{"dst:", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeRemote(tt.path))
		})
	}
}

func TestLooksLikeRemote_Properties(t *testing.T) {
	t.Run("no colon is always local", func(t *testing.T) {
		for _, p := range []string{"a", "a/b", `a\b`, "./x", "../y", "/", "~/docs", "with space"} {
			assert.False(t, LooksLikeRemote(p), p)
		}
	})

	t.Run("drive letter followed by separator is local", func(t *testing.T) {
		for c := 'a'; c <= 'z'; c++ {
			for _, letter := range []string{string(c), string(c - 'a' + 'A')} {
				assert.False(t, LooksLikeRemote(letter+`:\data`), letter)
				assert.False(t, LooksLikeRemote(letter+":/data"), letter)
			}
		}
	})

	t.Run("any other colon is remote", func(t *testing.T) {
		for _, p := range []string{"ab:/x", "1:/x", "remote:", "x:y", "/tmp/a:b", "s3:bucket/key"} {
			assert.True(t, LooksLikeRemote(p), p)
		}
	})
}

func TestRequiresConfig(t *testing.T) {
	assert.True(t, RequiresConfig("dst:books"))
	assert.False(t, RequiresConfig(":memory:bucket"))
	assert.False(t, RequiresConfig(":s3,provider=AWS:bucket"))
	assert.False(t, RequiresConfig("/tmp/books"))
	assert.False(t, RequiresConfig(`C:\books`))
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		path   string
		name   string
		remote string
		root   string
	}{
		{"dst:books/2024", "dst", "dst", "books/2024"},
		{"dst:", "dst", "dst", ""},
		{"a:b:c", "a", "a", "b:c"},
		{":s3:bucket", ":s3", ":s3", "bucket"},
		{":memory:", ":memory", ":memory", ""},
		{":s3,endpoint='http://host:9000':bucket", ":s3", ":s3,endpoint='http://host:9000'", "bucket"},
		{`:s3,endpoint="http://host:9000",provider=Minio:bucket/dir`, ":s3", `:s3,endpoint="http://host:9000",provider=Minio`, "bucket/dir"},
		{"/tmp/x", "", "", "/tmp/x"},
		{`C:\x`, "", "", `C:\x`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ref, err := ParseRemote(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.name, ref.Name)
			assert.Equal(t, tt.remote, ref.Remote)
			assert.Equal(t, tt.root, ref.Path)
		})
	}
}

func TestRemoteRef_Backend(t *testing.T) {
	ref, err := ParseRemote(":s3,provider=AWS:bucket")
	require.NoError(t, err)
	assert.True(t, ref.OnTheFly())
	assert.Equal(t, "s3", ref.Backend())

	ref, err = ParseRemote("dst:books")
	require.NoError(t, err)
	assert.False(t, ref.OnTheFly())
	assert.Empty(t, ref.Backend())
}
