package workspace

import "path/filepath"

// VarPath is the reserved project variable holding the project root.
// It is always loader-set: never inherited across an umbrella boundary
// and never taken from a manifest.
const VarPath = "path"

// Project is one workspace member: a root directory plus the manifest
// declarations a task invocation needs. Projects are built by the tree;
// the zero value is not usable. The root doubles as the project identity,
// so two activations of the same directory gate against the same ledger
// records.
type Project struct {
	root     string
	manifest *Manifest
	anon     bool

	// vars and env are the effective values for this activation: entries
	// inherited from the enclosing project, overlaid with the manifest's
	// own, with the path var forced to root.
	vars map[string]string
	env  map[string]string
}

// newProject builds a project rooted at root (cleaned, absolute) from its
// manifest. A non-nil parent is the project that was active when this one
// was entered; its vars and env are inherited, except the path var.
func newProject(root string, m *Manifest, parent *Project) *Project {
	vars := make(map[string]string, len(m.Vars)+1)
	env := make(map[string]string, len(m.Env))
	if parent != nil {
		for k, v := range parent.vars {
			if k == VarPath {
				continue
			}
			vars[k] = v
		}
		for k, v := range parent.env {
			env[k] = v
		}
	}
	for k, v := range m.Vars {
		if k == VarPath {
			continue
		}
		vars[k] = v
	}
	for k, v := range m.Env {
		env[k] = v
	}
	vars[VarPath] = root

	return &Project{root: root, manifest: m, vars: vars, env: env}
}

// anonymousProject is the fallback when no manifest exists: a single
// project named after its directory, with default unit discovery and no
// umbrella.
func anonymousProject(root string) *Project {
	p := newProject(root, &Manifest{Name: filepath.Base(root)}, nil)
	p.anon = true
	return p
}

// ID returns the project identity: its cleaned absolute root.
func (p *Project) ID() string {
	return p.root
}

// Root returns the project's root directory.
func (p *Project) Root() string {
	return p.root
}

// Name returns the manifest name, or the directory name for an anonymous
// project.
func (p *Project) Name() string {
	return p.manifest.Name
}

// Anonymous reports whether the project was synthesized because no
// manifest was found.
func (p *Project) Anonymous() bool {
	return p.anon
}

// Umbrella reports whether the project aggregates sub-projects.
func (p *Project) Umbrella() bool {
	return p.manifest.IsUmbrella()
}

// Vars returns the effective project variables. The path var always
// equals Root. The caller owns the returned map.
func (p *Project) Vars() map[string]string {
	out := make(map[string]string, len(p.vars))
	for k, v := range p.vars {
		out[k] = v
	}
	return out
}

// Env returns the effective extra environment entries. The caller owns
// the returned map.
func (p *Project) Env() map[string]string {
	out := make(map[string]string, len(p.env))
	for k, v := range p.env {
		out[k] = v
	}
	return out
}

// Aliases returns the project's alias table. The caller owns the returned
// map and slices.
func (p *Project) Aliases() map[string][]string {
	out := make(map[string][]string, len(p.manifest.Aliases))
	for name, steps := range p.manifest.Aliases {
		s := make([]string, len(steps))
		copy(s, steps)
		out[name] = s
	}
	return out
}

// TaskPaths returns the absolute unit search locations for this project:
// the manifest's [tasks] paths resolved against the root, or the default
// tasks directory when none are declared.
func (p *Project) TaskPaths() []string {
	declared := p.manifest.Tasks.Paths
	if len(declared) == 0 {
		declared = []string{DefaultTaskDir}
	}
	out := make([]string, 0, len(declared))
	for _, dir := range declared {
		if filepath.IsAbs(dir) {
			out = append(out, filepath.Clean(dir))
			continue
		}
		out = append(out, filepath.Join(p.root, dir))
	}
	return out
}
