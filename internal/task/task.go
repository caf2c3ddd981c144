// Package task implements the task unit model for taskmill: the unit type
// itself, its metadata accessors, the registry of loaded units, and the
// catalog that discovers units by naming convention and resolves command
// names to exactly one unit.
//
// A task unit is valid when it carries a run capability (a non-nil Run
// function) and its name parses under the naming convention. Units that
// fail this check are never surfaced by discovery or resolution.
package task

import (
	"context"

	"github.com/millworks/taskmill/internal/errors"
)

// Env carries the active project's surroundings into a task invocation.
// The dispatch layer builds one per invocation from the project that is
// current at call time, so a recursive task sees each sub-project's own
// identity, root, and vars.
type Env struct {
	// ProjectID is the identity of the project the task runs against.
	ProjectID string
	// Root is the project's root directory. Subprocess units run with
	// this as their working directory.
	Root string
	// Vars holds the project's variables. The "path" key always equals
	// Root.
	Vars map[string]string
	// Env holds additional process environment entries declared by the
	// project manifest.
	Env map[string]string
}

// RunFunc is the run capability of a task unit. It receives the ordered
// argument list given to the invocation and returns an arbitrary result
// value. Errors returned here are task-body failures: the dispatch layer
// propagates them unchanged and does not retry.
type RunFunc func(ctx context.Context, env Env, args []string) (any, error)

// Task is a named, discoverable, executable unit. Tasks are immutable
// once constructed; the registry hands out the same pointer to every
// caller.
type Task struct {
	// Name is the command name ("deps.fetch"), derived from the unit
	// filename by the documented mapping.
	Name string
	// Doc is the optional long documentation text.
	Doc string
	// Summary is the optional one-line summary. An empty summary marks
	// the task as hidden: omitted from general listings but still
	// invokable by name.
	Summary string
	// Recursive marks the task to run once per sub-project when invoked
	// from an umbrella project.
	Recursive bool
	// Run is the unit's run capability. A nil Run makes the unit
	// invalid.
	Run RunFunc
}

// Validate checks the unit validity contract: the name parses and a run
// capability is present. A nil error means the unit may be registered
// and dispatched.
func (t *Task) Validate() error {
	if err := ValidName(t.Name); err != nil {
		return err
	}
	if t.Run == nil {
		return errors.New("no run function")
	}
	return nil
}

// Runnable reports whether the unit exposes a run capability.
func (t *Task) Runnable() bool {
	return t.Run != nil
}

// Documentation returns the unit's long documentation text, which may be
// empty.
func (t *Task) Documentation() string {
	return t.Doc
}

// ShortSummary returns the unit's one-line summary. An empty string is a
// first-class signal that the task is internal, not an error.
func (t *Task) ShortSummary() string {
	return t.Summary
}

// IsRecursive reports whether the task runs once per sub-project when
// invoked from an umbrella project. Defaults to false when the unit
// declares nothing.
func (t *Task) IsRecursive() bool {
	return t.Recursive
}

// Hidden reports whether the task is omitted from general listings.
func (t *Task) Hidden() bool {
	return t.Summary == ""
}
