package dispatch

import (
	"context"
	"strings"
	"sync"

	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/logging"
	"github.com/millworks/taskmill/internal/task"
)

// RunStatus is the outcome kind of a dispatch.
type RunStatus string

const (
	// StatusRan indicates the dispatch proceeded and the unit was invoked.
	StatusRan RunStatus = "ran"

	// StatusNoop indicates the (task, project) pair had already been
	// recorded; the unit was not invoked.
	StatusNoop RunStatus = "noop"
)

// String returns the string representation of the run status.
func (s RunStatus) String() string {
	return string(s)
}

// Result is the outcome of a Run call. A single invocation carries its
// return value in Value; an umbrella fan-out carries one SubResult per
// sub-project, in enumeration order, in Fanout. Fanout is nil whenever
// no expansion happened, so callers that do not care about umbrellas can
// treat Value directly.
type Result struct {
	// Task is the command name the caller asked to run.
	Task string

	// Status reports whether the dispatch proceeded or was a no-op.
	Status RunStatus

	// Value is the invoked unit's return value. Nil for no-ops and for
	// fan-out results.
	Value any

	// Fanout holds the per-sub-project outcomes of an umbrella expansion,
	// in sub-project enumeration order. Nil unless expansion happened.
	Fanout []SubResult
}

// Noop reports whether the dispatch found the pair already recorded.
func (r Result) Noop() bool {
	return r.Status == StatusNoop
}

// SubResult is the outcome of one sub-project invocation during an
// umbrella fan-out.
type SubResult struct {
	// Project is the sub-project's identity.
	Project string

	// Status reports whether the sub-invocation proceeded or was gated
	// off by the sub-project's own ledger record.
	Status RunStatus

	// Value is the unit's return value for this sub-project.
	Value any
}

// Runner drives task dispatch: alias expansion, name resolution, the
// run-once gate, and umbrella fan-out. It owns the ledger and the
// recursion guard; construct one per invocation and thread it explicitly
// to whatever drives tasks.
//
// The guard is a plain boolean: while an umbrella expansion is in
// progress, any nested dispatch of a recursive task falls through to the
// single-invocation branch instead of expanding again. It is released
// unconditionally when the expansion unwinds.
type Runner struct {
	resolver Resolver
	projects Projects
	ledger   *Ledger
	logger   *logging.Logger

	mu        sync.Mutex
	recursing bool
}

// NewRunner creates a Runner over the given resolver and project context.
// A nil logger disables dispatch logging.
// Panics if resolver or projects is nil (programmer error).
func NewRunner(resolver Resolver, projects Projects, logger *logging.Logger) *Runner {
	if resolver == nil {
		panic("dispatch: resolver is required")
	}
	if projects == nil {
		panic("dispatch: projects is required")
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		resolver: resolver,
		projects: projects,
		ledger:   NewLedger(),
		logger:   logger,
	}
}

// Ledger returns the runner's execution ledger.
func (r *Runner) Ledger() *Ledger {
	return r.ledger
}

// Run is the caller-facing entry point. It consults the active project's
// aliases, resolves name to a unit, gates the pair through the ledger,
// and dispatches: once against the active project, or once per
// sub-project when the unit is recursive and the active project is an
// umbrella.
//
// A Result with StatusNoop means the pair had already run; the unit was
// not invoked. Resolution failures surface as *errors.TaskNotFoundError
// or *errors.InvalidTaskError. Task-body failures propagate unchanged;
// the ledger record created for the attempt stays, so the task will not
// be retried until re-enabled.
func (r *Runner) Run(ctx context.Context, name string, args []string) (Result, error) {
	current := r.projects.Current()

	if steps, ok := current.Aliases()[name]; ok {
		if !r.ledger.TryStartAlias(name, current.ID()) {
			r.logger.Debug("alias already ran", "alias", name, "project", current.ID())
			return Result{Task: name, Status: StatusNoop}, nil
		}
		res, err := r.runAlias(ctx, name, steps, args)
		if err != nil {
			return res, err
		}
		// A completed alias also marks its own name as a task, so a task
		// the alias shadows stays a no-op for this project.
		r.ledger.Mark(name, current.ID())
		return res, nil
	}

	unit, err := r.resolver.Get(name)
	if err != nil {
		return Result{}, err
	}

	if !r.ledger.TryStart(name, current.ID()) {
		r.logger.Debug("task already ran", "task", name, "project", current.ID())
		return Result{Task: name, Status: StatusNoop}, nil
	}

	return r.dispatch(ctx, unit, args)
}

// Rerun re-enables name for the active project (and, for recursive tasks
// under an umbrella, every sub-project) and runs it again. Watch cycles
// are built on this pairing.
func (r *Runner) Rerun(ctx context.Context, name string, args []string) (Result, error) {
	if err := r.Reenable(name); err != nil {
		return Result{}, err
	}
	return r.Run(ctx, name, args)
}

// Reenable drops the execution records for name so it becomes eligible
// to run again: the record for the active project and, when the unit is
// recursive and the active project is an umbrella, the records for every
// sub-project reachable now. Unrelated tasks are unaffected.
//
// When the active project aliases name, only the alias records for the
// current project are dropped; no resolution is attempted. Otherwise name
// must resolve, and resolution failures surface unchanged.
func (r *Runner) Reenable(name string) error {
	current := r.projects.Current()
	r.ledger.DeleteAlias(name, current.ID())

	if _, ok := current.Aliases()[name]; ok {
		r.ledger.Delete(name, current.ID())
		r.logger.Debug("alias reenabled", "alias", name, "project", current.ID())
		return nil
	}

	unit, err := r.resolver.Get(name)
	if err != nil {
		return err
	}

	r.ledger.Delete(name, current.ID())
	if unit.IsRecursive() && current.Umbrella() {
		subs, err := r.projects.Subprojects()
		if err != nil {
			return err
		}
		for _, sub := range subs {
			r.ledger.Delete(name, sub.ID())
			r.ledger.DeleteAlias(name, sub.ID())
		}
	}
	r.logger.Debug("task reenabled", "task", name, "project", current.ID())
	return nil
}

// Clear empties the ledger: every task becomes eligible to run again in
// every project. Used between independent logical commands of a
// long-lived process.
func (r *Runner) Clear() {
	r.ledger.Clear()
}

// dispatch is the recursion controller. The front gate has already been
// passed; decide between a single invocation and an umbrella fan-out.
func (r *Runner) dispatch(ctx context.Context, unit *task.Task, args []string) (Result, error) {
	current := r.projects.Current()

	if unit.IsRecursive() && current.Umbrella() && r.enterRecursion() {
		defer r.leaveRecursion()
		return r.fanOut(ctx, unit, args)
	}

	r.logger.Debug("task dispatched", "task", unit.Name, "project", current.ID())
	v, err := r.invoke(ctx, unit, current, args)
	return Result{Task: unit.Name, Status: StatusRan, Value: v}, err
}

// fanOut runs the unit once per sub-project. Each sub-invocation re-enters
// Run inside the sub-project's context, so it is gated by the
// sub-project's own ledger record and consults the sub-project's own
// aliases. Results are collected in enumeration order. The first failing
// sub-invocation stops the expansion and propagates; records already made
// stay, and the guard is released by the dispatch unwind regardless.
func (r *Runner) fanOut(ctx context.Context, unit *task.Task, args []string) (Result, error) {
	res := Result{Task: unit.Name, Status: StatusRan}

	subs, err := r.projects.Subprojects()
	if err != nil {
		return res, err
	}
	r.logger.Debug("umbrella fan-out", "task", unit.Name, "subprojects", len(subs))

	res.Fanout = make([]SubResult, 0, len(subs))
	for _, sub := range subs {
		var subRes Result
		if err := r.projects.In(sub, func(p Project) error {
			var runErr error
			subRes, runErr = r.Run(ctx, unit.Name, args)
			return runErr
		}); err != nil {
			return res, err
		}
		res.Fanout = append(res.Fanout, SubResult{
			Project: sub.ID(),
			Status:  subRes.Status,
			Value:   subRes.Value,
		})
	}
	return res, nil
}

// runAlias executes the alias's steps in order. Each step is an
// invocation string split on whitespace; the first field names the task
// (or another alias) and the rest are its arguments. The invocation's own
// arguments are appended to the final step. Steps dispatch through Run,
// so each is individually gated; a step naming the alias itself
// dispatches the underlying task directly instead of re-entering the
// alias. The alias result carries the final step's payload.
func (r *Runner) runAlias(ctx context.Context, name string, steps []string, args []string) (Result, error) {
	res := Result{Task: name, Status: StatusRan}

	for i, step := range steps {
		fields := strings.Fields(step)
		if len(fields) == 0 {
			return res, errors.Wrapf(errors.ErrNameSyntax, "alias %q step %d is empty", name, i+1)
		}
		stepName, stepArgs := fields[0], fields[1:]
		if i == len(steps)-1 {
			stepArgs = append(stepArgs, args...)
		}

		var stepRes Result
		var err error
		if stepName == name {
			stepRes, err = r.runShadowed(ctx, stepName, stepArgs)
		} else {
			stepRes, err = r.Run(ctx, stepName, stepArgs)
		}
		if err != nil {
			return res, err
		}
		res.Value, res.Fanout = stepRes.Value, stepRes.Fanout
	}
	return res, nil
}

// runShadowed dispatches a task an alias of the same name shadows:
// resolution and the recursion controller apply, but the alias table and
// the front gate are skipped. The enclosing alias record already gates
// the whole expansion, and its completion marks the task record.
func (r *Runner) runShadowed(ctx context.Context, name string, args []string) (Result, error) {
	unit, err := r.resolver.Get(name)
	if err != nil {
		return Result{}, err
	}
	return r.dispatch(ctx, unit, args)
}

// invoke calls the unit's run capability against one project. The ledger
// lock is never held here; a slow task does not serialize unrelated
// dispatches.
func (r *Runner) invoke(ctx context.Context, unit *task.Task, p Project, args []string) (any, error) {
	env := task.Env{
		ProjectID: p.ID(),
		Root:      p.Root(),
		Vars:      p.Vars(),
		Env:       p.Env(),
	}
	return unit.Run(ctx, env, args)
}

// enterRecursion sets the recursion guard if it is clear. Returns false
// when an expansion is already in progress, in which case the caller
// falls through to the single-invocation branch.
func (r *Runner) enterRecursion() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recursing {
		return false
	}
	r.recursing = true
	return true
}

// leaveRecursion clears the recursion guard.
func (r *Runner) leaveRecursion() {
	r.mu.Lock()
	r.recursing = false
	r.mu.Unlock()
}

// Recursing reports whether an umbrella expansion is in progress.
func (r *Runner) Recursing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recursing
}
