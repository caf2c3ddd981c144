package task

import (
	"sort"

	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/logging"
)

// Catalog combines the registry with a loader: it discovers units by the
// naming convention, resolves command names to exactly one unit, and
// answers cheap lookups against what is already loaded. Discovery and
// resolution never touch execution state; that belongs to the dispatch
// layer.
type Catalog struct {
	registry *Registry
	loader   Loader
	logger   *logging.Logger
}

// NewCatalog creates a catalog over the given loader. A nil logger
// disables catalog logging.
func NewCatalog(loader Loader, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Catalog{
		registry: NewRegistry(),
		loader:   loader,
		logger:   logger,
	}
}

// Register inserts an explicitly constructed unit, for embedders that
// register tasks at process start instead of loading unit files. The
// unit must pass Validate; duplicate names fail with
// errors.ErrDuplicateTask.
func (c *Catalog) Register(t *Task) error {
	return c.registry.Register(t)
}

// Loaded returns the sorted names of units already resident in the
// registry. This is the cheap discovery path: nothing is loaded, and
// every returned name passed the validity check at registration.
func (c *Catalog) Loaded() []string {
	return c.registry.Names()
}

// Lookup returns an already-loaded unit without attempting a load.
func (c *Catalog) Lookup(name string) (*Task, bool) {
	return c.registry.Lookup(name)
}

// LoadPaths discovers units in the given locations, in order. Entries
// whose filenames match the naming convention are candidates; candidates
// that load and pass the validity check are registered. Duplicate
// discoveries of one name collapse, the first valid load winning.
// Entries that do not parse as candidates, fail to load, or fail the
// validity check are skipped silently: discovery is best-effort
// enumeration, not a strict parse. Returns the sorted names discovered
// in these locations.
func (c *Catalog) LoadPaths(locations []string) ([]string, error) {
	found := make(map[string]struct{})
	for _, dir := range locations {
		entries, err := c.loader.Entries(dir)
		if err != nil {
			c.logger.Debug("skipping unit location", "location", dir, "error", err.Error())
			continue
		}
		for _, entry := range entries {
			name, ok := ParseUnitFile(entry)
			if !ok {
				continue
			}
			if _, dup := found[name]; dup {
				continue
			}
			if _, loaded := c.registry.Lookup(name); loaded {
				found[name] = struct{}{}
				continue
			}
			unit, ok := c.loader.Load(name)
			if !ok {
				continue
			}
			if err := unit.Validate(); err != nil {
				c.logger.Debug("skipping invalid unit", "task", name, "reason", err.Error())
				continue
			}
			if err := c.registry.Register(unit); err != nil && !errors.Is(err, errors.ErrDuplicateTask) {
				continue
			}
			found[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadAll discovers units in every location the loader is configured
// with. This is the expensive, exhaustive path; Loaded is the cheap one.
func (c *Catalog) LoadAll() ([]string, error) {
	return c.LoadPaths(c.loader.Locations())
}

// Get resolves a command name to a unique unit. A registry hit wins;
// otherwise the loader probes the name-to-file mapping. Three outcomes:
//
//   - nothing loadable: *errors.TaskNotFoundError
//   - a unit loads but fails the validity check: *errors.InvalidTaskError,
//     and the unit is not registered
//   - a valid unit: registered and returned
//
// Both error types carry the requested name for the caller-facing layer.
func (c *Catalog) Get(name string) (*Task, error) {
	if t, ok := c.registry.Lookup(name); ok {
		return t, nil
	}
	if err := ValidName(name); err != nil {
		return nil, errors.NewTaskNotFoundError(name).WithCause(err)
	}

	unit, ok := c.loader.Load(name)
	if !ok {
		return nil, errors.NewTaskNotFoundError(name)
	}
	if err := unit.Validate(); err != nil {
		return nil, errors.NewInvalidTaskError(name, err.Error())
	}

	if err := c.registry.Register(unit); err != nil {
		// A concurrent resolve may have registered the same name first;
		// the registered unit wins.
		if t, ok := c.registry.Lookup(name); ok {
			return t, nil
		}
		return nil, err
	}
	c.logger.Debug("task loaded", "task", name)
	return unit, nil
}
