package dispatch

import "sync"

// recordKind separates the ledger's record families. Task records gate
// unit invocations; alias records gate alias expansions. Keeping the
// families distinct lets an alias shadow a task of the same name while
// both remain independently tracked per project.
type recordKind uint8

const (
	kindTask recordKind = iota
	kindAlias
)

// record is one execution record: a (kind, task, project) tuple whose
// presence in the ledger means "already invoked."
type record struct {
	kind    recordKind
	task    string
	project string
}

// Ledger is the process-wide run-once registry. It holds the set of
// execution records created as dispatches proceed; membership of a record
// means the pair will not run again until deleted or cleared. All methods
// are safe for concurrent use via an internal mutex, which is held only
// for the membership check or mutation, never across a task invocation.
//
// Records are never rolled back by the ledger itself: a task that fails
// keeps its record and will not be retried until explicitly re-enabled.
type Ledger struct {
	mu      sync.Mutex
	records map[record]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		records: make(map[record]struct{}),
	}
}

// TryStart atomically checks for the (task, project) record and inserts
// it when absent. Returns true when the record was inserted, meaning the
// caller should proceed and invoke the unit, and false when the pair had
// already been recorded. This is the sole gate for run-once semantics.
func (l *Ledger) TryStart(task, project string) bool {
	return l.tryStart(record{kindTask, task, project})
}

// TryStartAlias is TryStart for an alias record.
func (l *Ledger) TryStartAlias(name, project string) bool {
	return l.tryStart(record{kindAlias, name, project})
}

func (l *Ledger) tryStart(rec record) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.records[rec]; ok {
		return false
	}
	l.records[rec] = struct{}{}
	return true
}

// Mark inserts the (task, project) record unconditionally. Used when an
// execution was gated elsewhere: an alias marks its shadowed task on
// completion so a later plain run of the task is a no-op.
func (l *Ledger) Mark(task, project string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[record{kindTask, task, project}] = struct{}{}
}

// Ran reports whether the (task, project) record is present, without
// modifying the ledger.
func (l *Ledger) Ran(task, project string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.records[record{kindTask, task, project}]
	return ok
}

// Delete removes the (task, project) record if present; no-op if absent.
func (l *Ledger) Delete(task, project string) {
	l.delete(record{kindTask, task, project})
}

// DeleteAlias removes the alias record for (name, project) if present.
func (l *Ledger) DeleteAlias(name, project string) {
	l.delete(record{kindAlias, name, project})
}

func (l *Ledger) delete(rec record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, rec)
}

// Clear empties the entire ledger: all tasks, all projects, both record
// kinds. Used to reset state between independent top-level invocations
// of a long-lived process.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make(map[record]struct{})
}

// Len returns the number of records currently held.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
