package rclone

import (
	"slices"
	"strings"

	_ "github.com/rclone/rclone/backend/all" // Import all backends
	"github.com/rclone/rclone/fs"
)

// Provider describes a registered rclone backend.
type Provider struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProviders lists all available rclone providers, sorted by name.
func ListProviders() []Provider {
	providers := make([]Provider, 0, len(fs.Registry))
	for _, item := range fs.Registry {
		if item.Hide {
			continue
		}
		providers = append(providers, Provider{
			Name:        item.Name,
			Description: item.Description,
		})
	}
	slices.SortFunc(providers, func(a, b Provider) int {
		return strings.Compare(a.Name, b.Name)
	})
	return providers
}

// HasProvider reports whether a backend of the given type is compiled in.
func HasProvider(name string) bool {
	_, err := fs.Find(name)
	return err == nil
}
