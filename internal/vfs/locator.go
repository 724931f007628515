package vfs

import (
	"os"
	"path/filepath"
)

const (
	// ConfigEnvVar overrides the rclone configuration file location.
	ConfigEnvVar = "RCLONE_CONFIG"
	// DefaultConfigName is looked up in the working directory.
	DefaultConfigName = "rclone.conf"
)

// FindConfFile locates an rclone configuration file. $RCLONE_CONFIG wins
// whenever it is set and non-empty, whether or not the file exists;
// otherwise ./rclone.conf is used when present.
func FindConfFile() (string, bool) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, true
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	p := filepath.Join(wd, DefaultConfigName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}
	return "", false
}
