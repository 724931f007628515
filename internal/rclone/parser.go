package rclone

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/unknwon/goconfig"
)

// Sections maps remote names to their key/value configuration, the shape of
// both rclone.conf and `rclone config dump`.
type Sections map[string]map[string]string

// Clone returns a deep copy of s.
func (s Sections) Clone() Sections {
	out := make(Sections, len(s))
	for name, values := range s {
		out[name] = maps.Clone(values)
	}
	return out
}

// Names returns the remote names in sorted order.
func (s Sections) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Validate checks that every remote declares a type.
func (s Sections) Validate() error {
	for _, name := range s.Names() {
		if s[name]["type"] == "" {
			return fmt.Errorf("connection '%s' missing required field 'type'", name) //nolint:err113
		}
	}
	return nil
}

// ParseRcloneConf parses rclone.conf content using rclone's own dependency (goconfig).
func ParseRcloneConf(content string) (Sections, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Sections{}, nil
	}

	cfg, err := goconfig.LoadFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rclone.conf format: %w", err)
	}

	sections := make(Sections)
	for _, section := range cfg.GetSectionList() {
		if section == "" || section == goconfig.DEFAULT_SECTION {
			continue
		}

		values := make(map[string]string)
		for _, key := range cfg.GetKeyList(section) {
			if value, err := cfg.GetValue(section, key); err == nil {
				values[key] = value
			}
		}
		sections[section] = values
	}

	if err := sections.Validate(); err != nil {
		return nil, err
	}
	return sections, nil
}

// ParseJSONConfig parses the JSON form of a configuration:
//
//	{"dst": {"type": "s3", "bucket": "bucket", "endpoint": "https://s3.amazonaws.com"}}
//
// Non-string scalars are kept in their JSON text form ("true", "5").
func ParseJSONConfig(content string) (Sections, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("invalid JSON config") //nolint:err113
	}

	root := gjson.Parse(content)
	if !root.IsObject() {
		return nil, fmt.Errorf("JSON config must be an object of remotes") //nolint:err113
	}

	sections := make(Sections)
	var parseErr error
	root.ForEach(func(name, section gjson.Result) bool {
		if !section.IsObject() {
			parseErr = fmt.Errorf("remote %q must be an object", name.String()) //nolint:err113
			return false
		}
		values := make(map[string]string)
		section.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				values[key.String()] = value.String()
			} else {
				values[key.String()] = value.Raw
			}
			return true
		})
		sections[name.String()] = values
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := sections.Validate(); err != nil {
		return nil, err
	}
	return sections, nil
}

// RenderRcloneConf renders sections in rclone.conf format. Remotes and keys
// are sorted, with "type" first in each remote.
func RenderRcloneConf(sections Sections) string {
	var b strings.Builder
	for i, name := range sections.Names() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", name)

		values := sections[name]
		if t, ok := values["type"]; ok {
			fmt.Fprintf(&b, "type = %s\n", t)
		}
		for _, key := range slices.Sorted(maps.Keys(values)) {
			if key == "type" {
				continue
			}
			fmt.Fprintf(&b, "%s = %s\n", key, values[key])
		}
	}
	return b.String()
}
