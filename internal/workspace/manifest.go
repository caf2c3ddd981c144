package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/millworks/taskmill/internal/errors"
)

// ManifestName is the file that marks a directory as a project root.
const ManifestName = "project.toml"

// DefaultTaskDir is the unit search location projects get when the
// manifest declares none.
const DefaultTaskDir = "tasks"

// Manifest is the decoded form of a project.toml file.
type Manifest struct {
	// Name identifies the project. Required.
	Name string `toml:"name"`

	// Env declares additional process environment entries for task
	// invocations in this project.
	Env map[string]string `toml:"env"`

	// Vars declares the project variables. The key "path" is reserved:
	// the loader always sets it to the project root and a manifest-declared
	// value is ignored.
	Vars map[string]string `toml:"vars"`

	// Tasks configures unit discovery.
	Tasks TasksSection `toml:"tasks"`

	// Aliases maps an alias name to the ordered invocation strings it
	// expands to.
	Aliases map[string][]string `toml:"aliases"`

	// Umbrella declares sub-projects; a non-empty apps list makes the
	// project an umbrella.
	Umbrella UmbrellaSection `toml:"umbrella"`
}

// TasksSection is the [tasks] table of a manifest.
type TasksSection struct {
	// Paths lists unit search locations relative to the project root.
	Paths []string `toml:"paths"`
}

// UmbrellaSection is the [umbrella] table of a manifest.
type UmbrellaSection struct {
	// Apps lists sub-project directories relative to the umbrella root.
	// Glob patterns are allowed.
	Apps []string `toml:"apps"`
}

// ReadManifest loads and validates the manifest of the project rooted at
// dir. Failures carry the manifest path and match errors.ErrManifestInvalid.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewManifestError("manifest not readable", err).WithPath(path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewManifestError("manifest does not parse", err).WithPath(path)
	}
	if err := m.validate(); err != nil {
		return nil, errors.NewManifestError(err.Error(), nil).WithPath(path)
	}
	return &m, nil
}

// HasManifest reports whether dir is a project root.
func HasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil && info.Mode().IsRegular()
}

func (m *Manifest) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	for alias, steps := range m.Aliases {
		if strings.TrimSpace(alias) == "" {
			return errors.New("alias with empty name")
		}
		if len(steps) == 0 {
			return fmt.Errorf("alias %q has no steps", alias)
		}
	}
	return nil
}

// IsUmbrella reports whether the manifest declares sub-projects.
func (m *Manifest) IsUmbrella() bool {
	return len(m.Umbrella.Apps) > 0
}
