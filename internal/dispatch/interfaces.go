package dispatch

import "github.com/millworks/taskmill/internal/task"

// Project is the dispatch engine's view of one project: a stable identity,
// a root directory, and the declared surroundings a task invocation needs.
// The engine never inspects project structure itself; it receives projects
// from a Projects collaborator and treats them as opaque.
type Project interface {
	// ID returns the project identity. Two calls observing the same active
	// project compare equal; entering a sub-project yields a distinct ID.
	ID() string

	// Root returns the project's root directory.
	Root() string

	// Umbrella reports whether the project aggregates sub-projects.
	Umbrella() bool

	// Vars returns the project's variables. The "path" key always equals
	// Root. Callers own the returned map.
	Vars() map[string]string

	// Env returns additional process environment entries declared by the
	// project. Callers own the returned map.
	Env() map[string]string

	// Aliases returns the project's alias table: alias name to the ordered
	// invocation strings it expands to.
	Aliases() map[string][]string
}

// Projects is the project-context collaborator: it owns which project is
// active, enumerates umbrella members, and activates a sub-project for the
// duration of a callback. The production implementation is workspace.Tree.
type Projects interface {
	// Current returns the active project.
	Current() Project

	// Subprojects enumerates the current project's sub-projects in a
	// stable, deterministic order. Non-umbrella projects return an empty
	// slice.
	Subprojects() ([]Project, error)

	// In activates p for the duration of fn: Current observes p, and the
	// project handed to fn carries the configuration p inherits from the
	// project that was active at the call. The previous project is
	// restored when fn returns.
	In(p Project, fn func(Project) error) error
}

// Resolver maps a command name to a unique task unit, distinguishing
// not-found from invalid. *task.Catalog is the production implementation.
type Resolver interface {
	Get(name string) (*task.Task, error)
}

// Ensure the catalog satisfies the resolver contract at compile time.
var _ Resolver = (*task.Catalog)(nil)
