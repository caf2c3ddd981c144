// Package dispatch provides the run-once execution engine for task units:
// a process-wide ledger of (task, project) pairs and a runner that gates,
// invokes, and fans out task executions.
//
// The core type is [Ledger], a mutex-guarded set of execution records.
// A task runs at most once per project within a process; the sole gate is
// [Ledger.TryStart], an atomic membership-check-and-insert. Clearing and
// selective re-enabling are bookkeeping around that gate.
//
// [Runner] drives the state machine. It resolves a command name through a
// [Resolver], consults the active project's aliases, and gates the
// invocation through the ledger. When the task is recursive and the
// active project is an umbrella, the runner re-enters itself once per
// sub-project, guarded against nested expansion. Task-body failures
// propagate to the caller unchanged; the ledger record stays, so a failed
// task is not retried until explicitly re-enabled.
//
// Usage:
//
//	runner := dispatch.NewRunner(catalog, tree, logger)
//
//	res, err := runner.Run(ctx, "deps.fetch", nil)
//	if res.Noop() {
//	    // already ran in this project; the unit was not invoked again
//	}
//
//	// Make the task eligible to run again, then run it.
//	res, err = runner.Rerun(ctx, "deps.fetch", nil)
package dispatch
