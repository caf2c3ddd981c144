package task

import (
	"os"
	"path/filepath"
)

// Loader abstracts how unit files are physically located and loaded. The
// catalog treats it as an opaque capability set: load failure is reported
// as a boolean, never as a structured error. The production implementation
// is FileLoader; tests substitute in-memory loaders.
type Loader interface {
	// Locations returns the ordered unit search locations.
	Locations() []string
	// Entries lists the entry names at a location. A location that
	// cannot be listed returns an error; discovery skips it silently.
	Entries(location string) ([]string, error)
	// Load attempts to load the unit for a command name. ok=false means
	// nothing loadable was found. ok=true returns the loaded unit, which
	// may still fail the validity check (a unit file that declares no
	// run capability loads but is invalid).
	Load(name string) (*Task, bool)
}

// FileLoader loads task units from unit files on disk. For a command
// name it probes each location in order, trying the TOML form first and
// the Lua form second:
//
//	<location>/task_<name>.toml
//	<location>/task_<name>.lua
//
// The first file that decodes wins. Files that are missing or fail to
// decode are passed over.
type FileLoader struct {
	locations []string
}

// NewFileLoader creates a FileLoader over the given search locations.
func NewFileLoader(locations ...string) *FileLoader {
	return &FileLoader{locations: locations}
}

// Locations returns the loader's ordered search locations.
func (l *FileLoader) Locations() []string {
	out := make([]string, len(l.locations))
	copy(out, l.locations)
	return out
}

// Entries lists the plain file names at a location. Subdirectories are
// not descended into; unit files live directly in their location.
func (l *FileLoader) Entries(location string) ([]string, error) {
	dirents, err := os.ReadDir(location)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

// Load probes the search locations for a unit matching name. A name that
// fails the naming convention cannot map to a unit file and reports
// ok=false without touching the filesystem.
func (l *FileLoader) Load(name string) (*Task, bool) {
	if ValidName(name) != nil {
		return nil, false
	}
	stem := UnitStem(name)
	for _, dir := range l.locations {
		if t, ok := decodeTOMLUnit(filepath.Join(dir, stem+extTOML), name); ok {
			return t, true
		}
		if t, ok := decodeLuaUnit(filepath.Join(dir, stem+extLua), name); ok {
			return t, true
		}
	}
	return nil, false
}
