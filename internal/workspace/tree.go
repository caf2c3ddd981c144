// Package workspace resolves the project context tasks run in: manifest
// discovery, umbrella membership, and the activation stack that makes one
// project current at a time. It is the production implementation of the
// dispatch engine's project collaborator.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/millworks/taskmill/internal/dispatch"
	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/logging"
)

// Tree is the workspace context: the active project, umbrella member
// enumeration, and scoped sub-project activation. A tree always has at
// least one project on its stack.
type Tree struct {
	logger *logging.Logger

	mu    sync.Mutex
	stack []*Project
}

// Compile-time check that the tree satisfies the dispatch contract.
var _ dispatch.Projects = (*Tree)(nil)

// Find locates the nearest project root at or above startDir: the first
// directory containing a project.toml. Returns errors.ErrNoProject when
// the walk reaches the filesystem root without a hit.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if HasManifest(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(errors.ErrNoProject, "no %s at or above %s", ManifestName, startDir)
		}
		dir = parent
	}
}

// Open builds a tree rooted at the project enclosing dir. When no
// manifest exists anywhere above dir, the tree holds a single anonymous
// project rooted at dir itself. A nil logger disables workspace logging.
func Open(dir string, logger *logging.Logger) (*Tree, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	root, err := Find(abs)
	if err != nil {
		if !errors.Is(err, errors.ErrNoProject) {
			return nil, err
		}
		logger.Debug("no manifest found, using anonymous project", "root", abs)
		return &Tree{logger: logger, stack: []*Project{anonymousProject(abs)}}, nil
	}

	m, err := ReadManifest(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace opened", "root", root, "project", m.Name, "umbrella", m.IsUmbrella())
	return &Tree{logger: logger, stack: []*Project{newProject(root, m, nil)}}, nil
}

// Active returns the project currently on top of the activation stack.
func (t *Tree) Active() *Project {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stack[len(t.stack)-1]
}

// Current implements dispatch.Projects.
func (t *Tree) Current() dispatch.Project {
	return t.Active()
}

// Subprojects enumerates the active project's umbrella members: each
// [umbrella] apps entry is expanded as a glob relative to the root,
// matches without a manifest are skipped, and the result is deduplicated
// and sorted by path. Non-umbrella projects get an empty slice.
func (t *Tree) Subprojects() ([]dispatch.Project, error) {
	active := t.Active()
	if !active.Umbrella() {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var roots []string
	for _, pattern := range active.manifest.Umbrella.Apps {
		matches, err := filepath.Glob(filepath.Join(active.root, pattern))
		if err != nil {
			return nil, errors.NewManifestError(
				fmt.Sprintf("bad umbrella apps pattern %q", pattern), err,
			).WithPath(filepath.Join(active.root, ManifestName))
		}
		for _, match := range matches {
			match = filepath.Clean(match)
			if !HasManifest(match) {
				continue
			}
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			roots = append(roots, match)
		}
	}
	sort.Strings(roots)

	subs := make([]dispatch.Project, 0, len(roots))
	for _, root := range roots {
		m, err := ReadManifest(root)
		if err != nil {
			return nil, err
		}
		subs = append(subs, newProject(root, m, nil))
	}
	t.logger.Debug("umbrella members enumerated", "project", active.ID(), "count", len(subs))
	return subs, nil
}

// In activates p for the duration of fn. The project handed to fn carries
// the vars and env it inherits from the project active at the call, with
// the path var forced to p's own root. The previous project is restored
// when fn returns, including on error.
func (t *Tree) In(p dispatch.Project, fn func(dispatch.Project) error) error {
	sub, ok := p.(*Project)
	if !ok {
		return fmt.Errorf("workspace: project %q does not belong to this tree", p.ID())
	}

	entered := newProject(sub.root, sub.manifest, t.Active())
	t.push(entered)
	defer t.pop()

	t.logger.Debug("entered project", "project", entered.ID())
	return fn(entered)
}

func (t *Tree) push(p *Project) {
	t.mu.Lock()
	t.stack = append(t.stack, p)
	t.mu.Unlock()
}

func (t *Tree) pop() {
	t.mu.Lock()
	t.stack = t.stack[:len(t.stack)-1]
	t.mu.Unlock()
}

// EnsureDir creates the project-scoped state directory (".taskmill")
// under the active project's root and returns its path. Watch locks and
// other per-project state live there.
func (t *Tree) EnsureDir() (string, error) {
	dir := filepath.Join(t.Active().Root(), StateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}
	return dir, nil
}

// StateDir is the per-project state directory name.
const StateDir = ".taskmill"
