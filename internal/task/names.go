package task

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/millworks/taskmill/internal/errors"
)

// UnitPrefix is the fixed filename prefix identifying task unit files.
// A command name maps to a unit stem by prepending this prefix, and a
// unit filename maps back to a command name by stripping the prefix and
// the unit extension. The mapping is deterministic and invertible:
//
//	deps.fetch  <->  task_deps.fetch.toml | task_deps.fetch.lua
const UnitPrefix = "task_"

// Recognized unit file extensions, in probe order.
const (
	extTOML = ".toml"
	extLua  = ".lua"
)

// ValidName checks that name follows the task naming convention: one or
// more dot-separated segments of lowercase letters, digits, underscores
// and hyphens. Returns an error wrapping errors.ErrNameSyntax otherwise.
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", errors.ErrNameSyntax)
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", errors.ErrNameSyntax, name)
		}
		for _, r := range seg {
			if !validNameRune(r) {
				return fmt.Errorf("%w: %q contains %q", errors.ErrNameSyntax, name, r)
			}
		}
	}
	return nil
}

func validNameRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-'
}

// UnitStem returns the unit file stem for a command name, without an
// extension: "deps.fetch" becomes "task_deps.fetch".
func UnitStem(name string) string {
	return UnitPrefix + name
}

// ParseUnitFile derives a command name from a unit filename. It returns
// ok=false when the filename does not match the naming convention: wrong
// extension, missing prefix, or a name segment that fails ValidName.
// Directory components of filename are ignored.
func ParseUnitFile(filename string) (name string, ok bool) {
	ext := filepath.Ext(filename)
	if ext != extTOML && ext != extLua {
		return "", false
	}
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	if !strings.HasPrefix(base, UnitPrefix) {
		return "", false
	}
	name = strings.TrimPrefix(base, UnitPrefix)
	if ValidName(name) != nil {
		return "", false
	}
	return name, true
}
