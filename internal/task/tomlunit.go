package task

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/pelletier/go-toml/v2"
)

// tomlUnit is the declarative unit file form. The run key holds the argv
// of a subprocess; its absence decodes to a unit without a run capability,
// which the validity check rejects.
type tomlUnit struct {
	Summary   string            `toml:"summary"`
	Doc       string            `toml:"doc"`
	Recursive bool              `toml:"recursive"`
	Run       []string          `toml:"run"`
	Env       map[string]string `toml:"env"`
}

// decodeTOMLUnit loads a declarative unit from path. ok=false means the
// file is missing or not valid TOML; a file that decodes but declares no
// run argv reports ok=true with a nil Run.
func decodeTOMLUnit(path, name string) (*Task, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var unit tomlUnit
	if err := toml.Unmarshal(data, &unit); err != nil {
		return nil, false
	}

	t := &Task{
		Name:      name,
		Doc:       unit.Doc,
		Summary:   unit.Summary,
		Recursive: unit.Recursive,
	}
	if len(unit.Run) > 0 {
		t.Run = execRun(unit.Run, unit.Env)
	}
	return t, true
}

// execRun builds the run capability for a declarative unit: the argv is
// executed as a subprocess with the project root as working directory and
// stdout/stderr streamed through. ${var} references in the argv expand
// against the project vars of the invocation; invocation args are
// appended after the declared argv.
func execRun(argv []string, unitEnv map[string]string) RunFunc {
	return func(ctx context.Context, env Env, args []string) (any, error) {
		expanded := make([]string, 0, len(argv)+len(args))
		for _, a := range argv {
			expanded = append(expanded, os.Expand(a, func(key string) string {
				return env.Vars[key]
			}))
		}
		expanded = append(expanded, args...)

		cmd := exec.CommandContext(ctx, expanded[0], expanded[1:]...)
		cmd.Dir = env.Root
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = os.Environ()
		for k, v := range unitEnv {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		for k, v := range env.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}

		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w", expanded[0], err)
		}
		return nil, nil
	}
}
