package rclone

import (
	"context"
	"fmt"
	"slices"

	"github.com/rclone/rclone/fs"
	"github.com/rclone/rclone/fs/config"
	"github.com/rclone/rclone/fs/config/configfile"
)

// SetupLogLevel maps an application log level onto rclone's global log
// level. "warn" maps to Notice; unknown values (matching is case-sensitive)
// fall back to Notice, rclone's own default.
func SetupLogLevel(level string) {
	ci := fs.GetConfig(context.Background())
	switch level {
	case "debug":
		ci.LogLevel = fs.LogLevelDebug
	case "info":
		ci.LogLevel = fs.LogLevelInfo
	case "warn":
		ci.LogLevel = fs.LogLevelNotice
	case "error":
		ci.LogLevel = fs.LogLevelError
	default:
		ci.LogLevel = fs.LogLevelNotice
	}
}

// InstallConfigFile makes the rclone.conf at path the active configuration.
// rclone's file storage reloads the file when it changes on disk.
func InstallConfigFile(path string) {
	config.SetConfigPath(path)
	configfile.Install()
}

// ListRemotes lists all configured rclone remotes.
func ListRemotes() []string {
	return config.GetRemoteNames()
}

// RemoteInfo holds the configuration for a remote.
type RemoteInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Remote string `json:"remote,omitempty"`
}

// ListRemotesWithInfo lists all configured rclone remotes with their details.
func ListRemotesWithInfo() ([]*RemoteInfo, error) {
	var result []*RemoteInfo
	for _, name := range config.GetRemoteNames() {
		info, err := GetRemoteInfo(name)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

// GetRemoteInfo returns the type (and wrapped remote, for wrapping backends
// such as crypt or alias) of the named remote.
func GetRemoteInfo(remoteName string) (*RemoteInfo, error) {
	if !slices.Contains(config.FileSections(), remoteName) {
		return nil, fmt.Errorf("remote %q not found", remoteName) //nolint:err113
	}

	info := &RemoteInfo{Name: remoteName}
	if val, ok := config.FileGetValue(remoteName, "type"); ok {
		info.Type = val
	}
	if val, ok := config.FileGetValue(remoteName, "remote"); ok {
		info.Remote = val
	}
	return info, nil
}
