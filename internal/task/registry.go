package task

import (
	"fmt"
	"sort"
	"sync"

	"github.com/millworks/taskmill/internal/errors"
)

// Registry is the table of loaded task units, keyed by command name.
// Every unit in the registry passed Validate at insert time, so a lookup
// hit is always a valid, dispatchable task. All methods are safe for
// concurrent use via an internal mutex.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*Task),
	}
}

// Register inserts a unit into the registry. The unit must pass Validate.
// Registering a name that is already present fails with
// errors.ErrDuplicateTask; the first registration wins.
func (r *Registry) Register(t *Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	if err := t.Validate(); err != nil {
		return errors.NewInvalidTaskError(t.Name, err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[t.Name]; ok {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateTask, t.Name)
	}
	r.tasks[t.Name] = t
	return nil
}

// Lookup returns the registered unit for name, if any. Tasks are
// immutable, so the shared pointer is safe to hand out.
func (r *Registry) Lookup(name string) (*Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[name]
	return t, ok
}

// Names returns the sorted command names of all registered units.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
