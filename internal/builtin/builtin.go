// Package builtin ships example datasets with the binary and installs them
// into the user's datasets directory so they can be listed, played and
// edited like any other dataset.
package builtin

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/alexcabrera/thinkplay/internal/steps"
)

//go:embed datasets/*.yaml
var datasetsFS embed.FS

// List returns the names of the bundled datasets, without extension.
func List() []string {
	entries, err := datasetsFS.ReadDir("datasets")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Has reports whether a bundled dataset with the given name exists.
func Has(name string) bool {
	_, err := datasetsFS.ReadFile(fileFor(name))
	return err == nil
}

// Load parses a bundled dataset.
func Load(name string) (*steps.Dataset, error) {
	data, err := datasetsFS.ReadFile(fileFor(name))
	if err != nil {
		return nil, fmt.Errorf("builtin dataset %q: %w", name, err)
	}
	d, err := steps.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin dataset %q: %w", name, err)
	}
	return d, nil
}

func fileFor(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	return path.Join("datasets", name+".yaml")
}
