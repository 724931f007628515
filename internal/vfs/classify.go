// Package vfs opens sessions on local and remote paths and mounts remotes
// as local directories, delegating the filesystem work to rclone.
package vfs

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rclone/rclone/fs/fspath"
)

// driveLetter matches a Windows drive prefix such as `C:\` or `C:/`.
var driveLetter = regexp.MustCompile(`^[a-zA-Z]:[/\\]`)

// LooksLikeRemote reports whether path names an rclone remote ("bucket:folder")
// rather than a local filesystem path. Windows drive paths are local.
func LooksLikeRemote(path string) bool {
	p := filepath.ToSlash(path)
	return strings.Contains(p, ":") && !driveLetter.MatchString(p)
}

// RequiresConfig reports whether opening path needs an rclone configuration.
// On-the-fly remotes (":s3:bucket", ":memory:") carry their backend in the
// path itself.
func RequiresConfig(path string) bool {
	if !LooksLikeRemote(path) {
		return false
	}
	return !strings.HasPrefix(filepath.ToSlash(path), ":")
}

// RemoteRef is a remote path split the way rclone splits it.
type RemoteRef struct {
	// Name is the remote name, or ":backend" for an on-the-fly remote.
	Name string
	// Remote is Name plus any connection string parameters, e.g.
	// ":s3,endpoint='http://host:9000'". It is what rclone's Fs cache keys on.
	Remote string
	// Path is the path within the remote.
	Path string
}

// OnTheFly reports whether the remote is defined by the path itself.
func (r RemoteRef) OnTheFly() bool {
	return strings.HasPrefix(r.Name, ":")
}

// Backend returns the backend type of an on-the-fly remote, "" otherwise.
func (r RemoteRef) Backend() string {
	if !r.OnTheFly() {
		return ""
	}
	return r.Name[1:]
}

// ParseRemote splits a remote path into its remote and the path within it.
// Local paths come back with an empty remote.
//
//	"dst:books/2024"                 → "dst", "books/2024"
//	":s3,endpoint='http://h:9000':b" → ":s3,endpoint='http://h:9000'", "b"
//	"/tmp/x"                         → "", "/tmp/x"
func ParseRemote(path string) (RemoteRef, error) {
	if !LooksLikeRemote(path) {
		return RemoteRef{Path: path}, nil
	}

	parsed, err := fspath.Parse(filepath.ToSlash(path))
	if err != nil {
		return RemoteRef{}, err
	}
	return RemoteRef{Name: parsed.Name, Remote: parsed.ConfigString, Path: parsed.Path}, nil
}
