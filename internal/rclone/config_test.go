package rclone

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rclone/rclone/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogLevel(t *testing.T) {
	ci := fs.GetConfig(context.Background())
	original := ci.LogLevel
	t.Cleanup(func() { ci.LogLevel = original })

	tests := []struct {
		level    string
		expected fs.LogLevel
	}{
		{"debug", fs.LogLevelDebug},
		{"info", fs.LogLevelInfo},
		{"warn", fs.LogLevelNotice},
		{"error", fs.LogLevelError},
		{"DEBUG", fs.LogLevelNotice},
		{"", fs.LogLevelNotice},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			SetupLogLevel(tt.level)
			assert.Equal(t, tt.expected, ci.LogLevel)
		})
	}
}

func TestInstallConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rclone.conf")
	content := RenderRcloneConf(Sections{
		"books":  {"type": "local"},
		"secret": {"type": "crypt", "remote": "books:vault"},
	})
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	InstallConfigFile(path)

	assert.ElementsMatch(t, []string{"books", "secret"}, ListRemotes())

	infos, err := ListRemotesWithInfo()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	info, err := GetRemoteInfo("secret")
	require.NoError(t, err)
	assert.Equal(t, &RemoteInfo{Name: "secret", Type: "crypt", Remote: "books:vault"}, info)

	_, err = GetRemoteInfo("missing")
	assert.Error(t, err)
}
