package dispatch

import (
	"context"
	"testing"

	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/task"
)

// stubLoader serves preset units by name, standing in for file discovery.
type stubLoader struct {
	units map[string]*task.Task
}

func (l stubLoader) Locations() []string { return nil }

func (l stubLoader) Entries(string) ([]string, error) { return nil, nil }

func (l stubLoader) Load(name string) (*task.Task, bool) {
	t, ok := l.units[name]
	return t, ok
}

type fakeProject struct {
	id       string
	umbrella bool
	aliases  map[string][]string
	subs     []*fakeProject
}

func (p *fakeProject) ID() string   { return p.id }
func (p *fakeProject) Root() string { return p.id }

func (p *fakeProject) Umbrella() bool { return p.umbrella }

func (p *fakeProject) Vars() map[string]string { return map[string]string{"path": p.id} }

func (p *fakeProject) Env() map[string]string { return nil }

func (p *fakeProject) Aliases() map[string][]string { return p.aliases }

// fakeTree keeps an activation stack the way the workspace tree does:
// Current is the top, In pushes for the duration of the callback.
type fakeTree struct {
	stack []*fakeProject
}

func newFakeTree(root *fakeProject) *fakeTree {
	return &fakeTree{stack: []*fakeProject{root}}
}

func (t *fakeTree) Current() Project {
	return t.stack[len(t.stack)-1]
}

func (t *fakeTree) Subprojects() ([]Project, error) {
	cur := t.stack[len(t.stack)-1]
	out := make([]Project, len(cur.subs))
	for i, s := range cur.subs {
		out[i] = s
	}
	return out, nil
}

func (t *fakeTree) In(p Project, fn func(Project) error) error {
	t.stack = append(t.stack, p.(*fakeProject))
	defer func() { t.stack = t.stack[:len(t.stack)-1] }()
	return fn(p)
}

func newTestRunner(t *testing.T, tree *fakeTree, units ...*task.Task) *Runner {
	t.Helper()
	loader := stubLoader{units: make(map[string]*task.Task)}
	for _, u := range units {
		loader.units[u.Name] = u
	}
	return NewRunner(task.NewCatalog(loader, nil), tree, nil)
}

// countingUnit records the project identity of each invocation and
// returns it as the run value.
func countingUnit(name string, recursive bool, calls *[]string) *task.Task {
	return &task.Task{
		Name:      name,
		Summary:   "test unit",
		Recursive: recursive,
		Run: func(ctx context.Context, env task.Env, args []string) (any, error) {
			*calls = append(*calls, env.ProjectID)
			return env.ProjectID, nil
		},
	}
}

func TestRunnerNilCollaboratorsPanic(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/app"})

	defer func() {
		if recover() == nil {
			t.Error("NewRunner(nil, ...) did not panic")
		}
	}()
	NewRunner(nil, tree, nil)
}

func TestRunIdempotence(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/app"})
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	first, err := r.Run(context.Background(), "build", nil)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Status != StatusRan {
		t.Errorf("first Run status = %q, want %q", first.Status, StatusRan)
	}
	if first.Value != "/app" {
		t.Errorf("first Run value = %v, want %q", first.Value, "/app")
	}

	second, err := r.Run(context.Background(), "build", nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !second.Noop() {
		t.Errorf("second Run status = %q, want %q", second.Status, StatusNoop)
	}

	if len(calls) != 1 {
		t.Errorf("unit invoked %d times, want 1", len(calls))
	}
}

func TestRunPerProjectIndependence(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/p1"})
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	if _, err := r.Run(context.Background(), "build", nil); err != nil {
		t.Fatalf("Run in /p1: %v", err)
	}

	other := &fakeProject{id: "/p2"}
	err := tree.In(other, func(Project) error {
		res, err := r.Run(context.Background(), "build", nil)
		if err != nil {
			return err
		}
		if res.Noop() {
			t.Error("Run in /p2 was a no-op; projects must gate independently")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run in /p2: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("unit invoked %d times, want 2", len(calls))
	}
	if calls[0] != "/p1" || calls[1] != "/p2" {
		t.Errorf("invocation projects = %v, want [/p1 /p2]", calls)
	}
}

func TestReenableScope(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/p1"})
	var builds, tests []string
	r := newTestRunner(t, tree,
		countingUnit("build", false, &builds),
		countingUnit("test", false, &tests),
	)

	ctx := context.Background()
	if _, err := r.Run(ctx, "build", nil); err != nil {
		t.Fatalf("Run build: %v", err)
	}
	if _, err := r.Run(ctx, "test", nil); err != nil {
		t.Fatalf("Run test: %v", err)
	}
	other := &fakeProject{id: "/p2"}
	if err := tree.In(other, func(Project) error {
		_, err := r.Run(ctx, "build", nil)
		return err
	}); err != nil {
		t.Fatalf("Run build in /p2: %v", err)
	}

	if err := r.Reenable("build"); err != nil {
		t.Fatalf("Reenable: %v", err)
	}

	res, err := r.Run(ctx, "build", nil)
	if err != nil {
		t.Fatalf("Run build after reenable: %v", err)
	}
	if res.Noop() {
		t.Error("build still gated in /p1 after Reenable")
	}

	// Unrelated task and unrelated project stay recorded.
	res, err = r.Run(ctx, "test", nil)
	if err != nil {
		t.Fatalf("Run test: %v", err)
	}
	if !res.Noop() {
		t.Error("Reenable(build) also re-enabled test in /p1")
	}
	if err := tree.In(other, func(Project) error {
		res, err := r.Run(ctx, "build", nil)
		if err != nil {
			return err
		}
		if !res.Noop() {
			t.Error("Reenable in /p1 also re-enabled build in /p2")
		}
		return nil
	}); err != nil {
		t.Fatalf("Run build in /p2: %v", err)
	}
}

func TestRunRecursiveFanOut(t *testing.T) {
	umbrella := &fakeProject{
		id:       "/umbrella",
		umbrella: true,
		subs: []*fakeProject{
			{id: "/umbrella/apps/a"},
			{id: "/umbrella/apps/b"},
			{id: "/umbrella/apps/c"},
		},
	}
	tree := newFakeTree(umbrella)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("deps.fetch", true, &calls))

	ctx := context.Background()
	res, err := r.Run(ctx, "deps.fetch", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusRan {
		t.Errorf("status = %q, want %q", res.Status, StatusRan)
	}

	want := []string{"/umbrella/apps/a", "/umbrella/apps/b", "/umbrella/apps/c"}
	if len(calls) != len(want) {
		t.Fatalf("unit invoked %d times, want %d", len(calls), len(want))
	}
	for i, id := range want {
		if calls[i] != id {
			t.Errorf("invocation %d ran in %q, want %q", i, calls[i], id)
		}
	}

	if len(res.Fanout) != len(want) {
		t.Fatalf("Fanout has %d entries, want %d", len(res.Fanout), len(want))
	}
	for i, sub := range res.Fanout {
		if sub.Project != want[i] {
			t.Errorf("Fanout[%d].Project = %q, want %q", i, sub.Project, want[i])
		}
		if sub.Status != StatusRan {
			t.Errorf("Fanout[%d].Status = %q, want %q", i, sub.Status, StatusRan)
		}
		if sub.Value != want[i] {
			t.Errorf("Fanout[%d].Value = %v, want %q", i, sub.Value, want[i])
		}
	}

	// The whole expansion is gated by the umbrella's own record.
	res, err = r.Run(ctx, "deps.fetch", nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !res.Noop() {
		t.Error("second umbrella Run was not a no-op")
	}
	if len(calls) != len(want) {
		t.Errorf("unit invoked %d times after no-op Run, want %d", len(calls), len(want))
	}
}

func TestRunFanOutSubProjectsGateIndividually(t *testing.T) {
	subA := &fakeProject{id: "/u/apps/a"}
	subB := &fakeProject{id: "/u/apps/b"}
	umbrella := &fakeProject{id: "/u", umbrella: true, subs: []*fakeProject{subA, subB}}
	tree := newFakeTree(umbrella)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("deps.fetch", true, &calls))

	ctx := context.Background()
	// Pre-run in one sub-project; the umbrella expansion must skip it.
	if err := tree.In(subA, func(Project) error {
		_, err := r.Run(ctx, "deps.fetch", nil)
		return err
	}); err != nil {
		t.Fatalf("Run in sub-project: %v", err)
	}

	res, err := r.Run(ctx, "deps.fetch", nil)
	if err != nil {
		t.Fatalf("umbrella Run: %v", err)
	}
	if len(res.Fanout) != 2 {
		t.Fatalf("Fanout has %d entries, want 2", len(res.Fanout))
	}
	if res.Fanout[0].Status != StatusNoop {
		t.Errorf("Fanout[0].Status = %q, want %q: sub-project already ran", res.Fanout[0].Status, StatusNoop)
	}
	if res.Fanout[1].Status != StatusRan {
		t.Errorf("Fanout[1].Status = %q, want %q", res.Fanout[1].Status, StatusRan)
	}

	want := []string{"/u/apps/a", "/u/apps/b"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("invocations = %v, want %v", calls, want)
	}
}

func TestReenableRecursiveClearsSubProjects(t *testing.T) {
	umbrella := &fakeProject{
		id:       "/u",
		umbrella: true,
		subs:     []*fakeProject{{id: "/u/apps/a"}, {id: "/u/apps/b"}},
	}
	tree := newFakeTree(umbrella)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("deps.fetch", true, &calls))

	ctx := context.Background()
	if _, err := r.Run(ctx, "deps.fetch", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := r.Reenable("deps.fetch"); err != nil {
		t.Fatalf("Reenable: %v", err)
	}

	res, err := r.Run(ctx, "deps.fetch", nil)
	if err != nil {
		t.Fatalf("Run after reenable: %v", err)
	}
	for i, sub := range res.Fanout {
		if sub.Status != StatusRan {
			t.Errorf("Fanout[%d].Status = %q after reenable, want %q", i, sub.Status, StatusRan)
		}
	}
	if len(calls) != 4 {
		t.Errorf("unit invoked %d times, want 4", len(calls))
	}
}

func TestRunNonRecursiveUmbrellaTask(t *testing.T) {
	umbrella := &fakeProject{
		id:       "/u",
		umbrella: true,
		subs:     []*fakeProject{{id: "/u/apps/a"}, {id: "/u/apps/b"}},
	}
	tree := newFakeTree(umbrella)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("format", false, &calls))

	res, err := r.Run(context.Background(), "format", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Fanout != nil {
		t.Errorf("non-recursive task produced a fan-out of %d entries", len(res.Fanout))
	}
	if len(calls) != 1 {
		t.Fatalf("unit invoked %d times, want 1", len(calls))
	}
	if calls[0] != "/u" {
		t.Errorf("invocation ran in %q, want the umbrella root %q", calls[0], "/u")
	}
}

func TestRunGuardStopsNestedExpansion(t *testing.T) {
	nested := &fakeProject{
		id:       "/u/apps/nested",
		umbrella: true,
		subs:     []*fakeProject{{id: "/u/apps/nested/apps/inner"}},
	}
	leaf := &fakeProject{id: "/u/apps/leaf"}
	umbrella := &fakeProject{id: "/u", umbrella: true, subs: []*fakeProject{nested, leaf}}
	tree := newFakeTree(umbrella)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("deps.fetch", true, &calls))

	if _, err := r.Run(context.Background(), "deps.fetch", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The nested umbrella is invoked as a single project, not expanded.
	want := []string{"/u/apps/nested", "/u/apps/leaf"}
	if len(calls) != len(want) {
		t.Fatalf("invocations = %v, want %v", calls, want)
	}
	for i, id := range want {
		if calls[i] != id {
			t.Errorf("invocation %d ran in %q, want %q", i, calls[i], id)
		}
	}

	if r.Recursing() {
		t.Error("recursion guard still set after the expansion unwound")
	}
}

func TestRunGuardReleasedOnFailure(t *testing.T) {
	umbrella := &fakeProject{
		id:       "/u",
		umbrella: true,
		subs:     []*fakeProject{{id: "/u/apps/a"}, {id: "/u/apps/b"}},
	}
	tree := newFakeTree(umbrella)
	boom := errors.New("boom")
	unit := &task.Task{
		Name:      "deps.fetch",
		Recursive: true,
		Run: func(ctx context.Context, env task.Env, args []string) (any, error) {
			return nil, boom
		},
	}
	r := newTestRunner(t, tree, unit)

	ctx := context.Background()
	if _, err := r.Run(ctx, "deps.fetch", nil); !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}

	if r.Recursing() {
		t.Error("recursion guard still set after a failing expansion")
	}

	// The attempt is permanent: the failing sub-project and the umbrella
	// keep their records, the never-reached sub-project has none.
	if !r.Ledger().Ran("deps.fetch", "/u/apps/a") {
		t.Error("failing sub-project lost its record")
	}
	if r.Ledger().Ran("deps.fetch", "/u/apps/b") {
		t.Error("unreached sub-project has a record")
	}
	res, err := r.Run(ctx, "deps.fetch", nil)
	if err != nil {
		t.Fatalf("Run after failure: %v", err)
	}
	if !res.Noop() {
		t.Error("Run after a failed attempt re-dispatched; records must survive failure")
	}
}

func TestRunResolutionDistinguishesMissingFromInvalid(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/app"})
	invalid := &task.Task{Name: "broken", Summary: "no run capability"}
	r := newTestRunner(t, tree, invalid)

	ctx := context.Background()
	_, err := r.Run(ctx, "missing", nil)
	if !errors.Is(err, errors.ErrTaskNotFound) {
		t.Errorf("Run(missing) error = %v, want ErrTaskNotFound", err)
	}
	var nf *errors.TaskNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Run(missing) error type = %T, want *TaskNotFoundError", err)
	}
	if nf.Name != "missing" {
		t.Errorf("TaskNotFoundError.Name = %q, want %q", nf.Name, "missing")
	}

	if _, err := r.Run(ctx, "broken", nil); !errors.Is(err, errors.ErrTaskInvalid) {
		t.Errorf("Run(broken) error = %v, want ErrTaskInvalid", err)
	}

	// Resolution failures happen before the gate: no records were made.
	if r.Ledger().Ran("missing", "/app") || r.Ledger().Ran("broken", "/app") {
		t.Error("resolution failure left a ledger record")
	}
}

func TestRerun(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/app"})
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	ctx := context.Background()
	if _, err := r.Run(ctx, "build", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := r.Rerun(ctx, "build", nil)
	if err != nil {
		t.Fatalf("Rerun: %v", err)
	}
	if res.Noop() {
		t.Error("Rerun was a no-op")
	}
	if len(calls) != 2 {
		t.Errorf("unit invoked %d times, want 2", len(calls))
	}
}

func TestClearResetsEveryPair(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/p1"})
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	ctx := context.Background()
	if _, err := r.Run(ctx, "build", nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := tree.In(&fakeProject{id: "/p2"}, func(Project) error {
		_, err := r.Run(ctx, "build", nil)
		return err
	}); err != nil {
		t.Fatalf("Run in /p2: %v", err)
	}

	r.Clear()

	res, err := r.Run(ctx, "build", nil)
	if err != nil {
		t.Fatalf("Run after Clear: %v", err)
	}
	if res.Noop() {
		t.Error("Run after Clear was a no-op")
	}
}

func TestReenableUnknownTaskSurfacesResolution(t *testing.T) {
	tree := newFakeTree(&fakeProject{id: "/app"})
	r := newTestRunner(t, tree)

	if err := r.Reenable("missing"); !errors.Is(err, errors.ErrTaskNotFound) {
		t.Errorf("Reenable(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestRunAliasExpandsOnceAndGates(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"ship": {"build", "test"}},
	}
	tree := newFakeTree(proj)
	var builds, tests []string
	r := newTestRunner(t, tree,
		countingUnit("build", false, &builds),
		countingUnit("test", false, &tests),
	)

	ctx := context.Background()
	res, err := r.Run(ctx, "ship", nil)
	if err != nil {
		t.Fatalf("Run(ship): %v", err)
	}
	if res.Status != StatusRan {
		t.Errorf("status = %q, want %q", res.Status, StatusRan)
	}
	// The alias result carries the final step's value.
	if res.Value != "/app" {
		t.Errorf("alias value = %v, want the last step's value", res.Value)
	}
	if len(builds) != 1 || len(tests) != 1 {
		t.Fatalf("step invocations = %d/%d, want 1/1", len(builds), len(tests))
	}

	// The alias record gates re-expansion.
	res, err = r.Run(ctx, "ship", nil)
	if err != nil {
		t.Fatalf("second Run(ship): %v", err)
	}
	if !res.Noop() {
		t.Error("second alias run was not a no-op")
	}
	if len(builds) != 1 || len(tests) != 1 {
		t.Error("alias steps re-ran on a gated expansion")
	}

	// Steps are individually recorded, so direct dispatch is a no-op too.
	res, err = r.Run(ctx, "build", nil)
	if err != nil {
		t.Fatalf("Run(build): %v", err)
	}
	if !res.Noop() {
		t.Error("alias step was not recorded against the project")
	}

	// Completion marks the alias name as a task for this project.
	if !r.Ledger().Ran("ship", "/app") {
		t.Error("alias completion did not mark the task record")
	}
}

func TestRunAliasSelfReferenceRunsShadowedTask(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"test": {"db.migrate", "test"}},
	}
	tree := newFakeTree(proj)
	var migrates, tests []string
	r := newTestRunner(t, tree,
		countingUnit("db.migrate", false, &migrates),
		countingUnit("test", false, &tests),
	)

	ctx := context.Background()
	if _, err := r.Run(ctx, "test", nil); err != nil {
		t.Fatalf("Run(test): %v", err)
	}
	if len(migrates) != 1 {
		t.Errorf("db.migrate invoked %d times, want 1", len(migrates))
	}
	if len(tests) != 1 {
		t.Errorf("shadowed test task invoked %d times, want 1", len(tests))
	}

	res, err := r.Run(ctx, "test", nil)
	if err != nil {
		t.Fatalf("second Run(test): %v", err)
	}
	if !res.Noop() {
		t.Error("second alias run was not a no-op")
	}
}

func TestRunAliasAppendsArgsToFinalStep(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"check": {"lint --strict", "test"}},
	}
	tree := newFakeTree(proj)
	got := make(map[string][]string)
	argUnit := func(name string) *task.Task {
		return &task.Task{
			Name: name,
			Run: func(ctx context.Context, env task.Env, args []string) (any, error) {
				got[name] = args
				return nil, nil
			},
		}
	}
	r := newTestRunner(t, tree, argUnit("lint"), argUnit("test"))

	if _, err := r.Run(context.Background(), "check", []string{"--cover"}); err != nil {
		t.Fatalf("Run(check): %v", err)
	}

	if len(got["lint"]) != 1 || got["lint"][0] != "--strict" {
		t.Errorf("lint args = %v, want [--strict]", got["lint"])
	}
	if len(got["test"]) != 1 || got["test"][0] != "--cover" {
		t.Errorf("test args = %v, want [--cover]: invocation args go to the final step", got["test"])
	}
}

func TestRunAliasFailedStepKeepsAliasRecord(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"ship": {"missing"}},
	}
	tree := newFakeTree(proj)
	r := newTestRunner(t, tree)

	ctx := context.Background()
	if _, err := r.Run(ctx, "ship", nil); !errors.Is(err, errors.ErrTaskNotFound) {
		t.Fatalf("Run(ship) error = %v, want ErrTaskNotFound", err)
	}

	// The attempt stays recorded; failed expansions are not retried.
	res, err := r.Run(ctx, "ship", nil)
	if err != nil {
		t.Fatalf("second Run(ship): %v", err)
	}
	if !res.Noop() {
		t.Error("failed alias expansion was retried")
	}
}

func TestRunAliasEmptyStep(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"bad": {"build", "   "}},
	}
	tree := newFakeTree(proj)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	if _, err := r.Run(context.Background(), "bad", nil); !errors.Is(err, errors.ErrNameSyntax) {
		t.Errorf("Run(bad) error = %v, want ErrNameSyntax", err)
	}
}

func TestRunFanOutHonorsSubProjectAliases(t *testing.T) {
	subA := &fakeProject{id: "/u/apps/a"}
	subB := &fakeProject{
		id:      "/u/apps/b",
		aliases: map[string][]string{"deps.fetch": {"vendored"}},
	}
	umbrella := &fakeProject{id: "/u", umbrella: true, subs: []*fakeProject{subA, subB}}
	tree := newFakeTree(umbrella)
	var fetches, vendored []string
	r := newTestRunner(t, tree,
		countingUnit("deps.fetch", true, &fetches),
		countingUnit("vendored", false, &vendored),
	)

	res, err := r.Run(context.Background(), "deps.fetch", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fetches) != 1 || fetches[0] != "/u/apps/a" {
		t.Errorf("deps.fetch invocations = %v, want [/u/apps/a]", fetches)
	}
	if len(vendored) != 1 || vendored[0] != "/u/apps/b" {
		t.Errorf("vendored invocations = %v, want [/u/apps/b]: sub-project aliases apply during fan-out", vendored)
	}
	if len(res.Fanout) != 2 {
		t.Fatalf("Fanout has %d entries, want 2", len(res.Fanout))
	}
}

func TestReenableAliasDropsOnlyCurrentProject(t *testing.T) {
	proj := &fakeProject{
		id:      "/app",
		aliases: map[string][]string{"ship": {"build"}},
	}
	tree := newFakeTree(proj)
	var calls []string
	r := newTestRunner(t, tree, countingUnit("build", false, &calls))

	ctx := context.Background()
	if _, err := r.Run(ctx, "ship", nil); err != nil {
		t.Fatalf("Run(ship): %v", err)
	}
	if err := r.Reenable("ship"); err != nil {
		t.Fatalf("Reenable(ship): %v", err)
	}

	res, err := r.Run(ctx, "ship", nil)
	if err != nil {
		t.Fatalf("Run(ship) after reenable: %v", err)
	}
	if res.Noop() {
		t.Error("alias still gated after Reenable")
	}
	// The step task kept its own record, so the expansion no-ops there.
	if len(calls) != 1 {
		t.Errorf("build invoked %d times, want 1: step records survive alias reenable", len(calls))
	}
}
