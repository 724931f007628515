package vfs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/core/logger"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"go.uber.org/zap"
)

type configKind int

const (
	configNone configKind = iota
	configText
	configFile
	configSections
)

// ConfigRef refers to an rclone configuration given as raw text, a file
// path or structured sections. The zero value is NoConfig.
type ConfigRef struct {
	kind     configKind
	text     string
	path     string
	sections rclone.Sections
}

// NoConfig is the absent configuration.
var NoConfig = ConfigRef{}

// ConfigText refers to configuration content. Text starting with "{" is the
// JSON form ({"remote": {"type": "s3", ...}}); anything else is rclone.conf.
func ConfigText(text string) ConfigRef {
	return ConfigRef{kind: configText, text: text}
}

// ConfigFile refers to an rclone.conf on disk.
func ConfigFile(path string) ConfigRef {
	if path == "" {
		return NoConfig
	}
	return ConfigRef{kind: configFile, path: path}
}

// ConfigSections refers to already structured configuration.
func ConfigSections(sections rclone.Sections) ConfigRef {
	return ConfigRef{kind: configSections, sections: sections.Clone()}
}

// IsZero reports whether c is NoConfig.
func (c ConfigRef) IsZero() bool {
	return c.kind == configNone
}

// Path returns the file path of a file reference.
func (c ConfigRef) Path() (string, bool) {
	return c.path, c.kind == configFile
}

// String describes the reference without its contents.
func (c ConfigRef) String() string {
	switch c.kind {
	case configText:
		return fmt.Sprintf("text(%d bytes)", len(c.text))
	case configFile:
		return "file(" + c.path + ")"
	case configSections:
		return "sections(" + strings.Join(c.sections.Names(), ",") + ")"
	default:
		return "none"
	}
}

// ResolveConfig applies the lookup precedence: the explicit reference, then
// $RCLONE_CONFIG, then ./rclone.conf. It fails with errs.ErrConfigNotFound
// when all of them are absent.
func ResolveConfig(explicit ConfigRef) (ConfigRef, error) {
	if !explicit.IsZero() {
		return explicit, nil
	}
	if p, ok := FindConfFile(); ok {
		return ConfigFile(p), nil
	}
	return NoConfig, i18n.NewI18nError(i18n.ErrConfigNotFound).WithCause(errs.ErrConfigNotFound)
}

// parse converts text and section references into sections.
func (c ConfigRef) parse() (rclone.Sections, error) {
	var (
		sections rclone.Sections
		err      error
	)
	switch c.kind {
	case configText:
		if strings.HasPrefix(strings.TrimSpace(c.text), "{") {
			sections, err = rclone.ParseJSONConfig(c.text)
		} else {
			sections, err = rclone.ParseRcloneConf(c.text)
		}
	case configSections:
		sections, err = c.sections, c.sections.Validate()
	default:
		sections = rclone.Sections{}
	}
	if err != nil {
		return nil, i18n.NewI18nError(i18n.ErrConfigInvalid).WithCause(errors.Join(errs.ErrInvalidInput, err))
	}
	return sections, nil
}

func (c ConfigRef) fingerprint() string {
	switch c.kind {
	case configText:
		return "text:" + c.text
	case configFile:
		return "file:" + c.path
	case configSections:
		return "sections:" + rclone.RenderRcloneConf(c.sections)
	default:
		return "none"
	}
}

// installed tracks the configuration rclone currently reads from, so that
// switching to another one drops Fs instances cached under the old remotes.
var installed struct {
	sync.Mutex
	fingerprint string
	remotes     []string
}

// Install makes c rclone's active configuration. Files use rclone's own
// file storage; text and sections are served from memory. NoConfig installs
// an empty configuration so that only on-the-fly remotes resolve.
func (c ConfigRef) Install() error {
	installed.Lock()
	defer installed.Unlock()

	fp := c.fingerprint()
	if fp == installed.fingerprint {
		return nil
	}

	if c.kind == configFile {
		if _, err := os.Stat(c.path); err != nil {
			return i18n.NewI18nError(i18n.ErrConfigNotFound).
				WithCause(errors.Join(errs.ErrConfigNotFound, err))
		}
	}

	var sections rclone.Sections
	if c.kind != configFile {
		var err error
		if sections, err = c.parse(); err != nil {
			return err
		}
	}

	for _, remote := range installed.remotes {
		rclone.ClearFsCache(remote)
	}

	if c.kind == configFile {
		rclone.InstallConfigFile(c.path)
	} else {
		rclone.NewMemoryStorage(sections).Install()
	}

	installed.fingerprint = fp
	installed.remotes = rclone.ListRemotes()
	logger.Named("vfs.config").Debug("Installed rclone config",
		zap.Stringer("config", c),
		zap.Strings("remotes", installed.remotes),
	)
	return nil
}
