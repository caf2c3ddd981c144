package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/logging"
	"github.com/millworks/taskmill/internal/workspace"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a project manifest and tasks directory",
	Long: `Scaffold a taskmill project in the current directory: a project.toml
manifest, a tasks/ directory, and a sample task unit.

With --umbrella the manifest declares member projects under apps/. With
--app <name> a new member project is scaffolded inside the current
umbrella instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initUmbrella bool
	initApp      string
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initUmbrella, "umbrella", false, "declare the project an umbrella with members under apps/")
	initCmd.Flags().StringVar(&initApp, "app", "", "scaffold a member project inside the current umbrella")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	if initApp != "" {
		return scaffoldApp(cwd, initApp)
	}

	if workspace.HasManifest(cwd) {
		return fmt.Errorf("%s already exists in %s", workspace.ManifestName, cwd)
	}

	name := filepath.Base(cwd)
	if len(args) > 0 {
		name = args[0]
	}

	if err := scaffoldProject(cwd, name, initUmbrella); err != nil {
		return err
	}

	fmt.Printf("Initialized project %q in %s\n", name, cwd)
	fmt.Println("  " + workspace.ManifestName)
	fmt.Println("  tasks/task_hello.toml")
	if initUmbrella {
		fmt.Println("  apps/")
	}
	fmt.Println()
	fmt.Println("Run 'taskmill run hello' to try it.")
	return nil
}

// scaffoldApp adds a member project under apps/ of the enclosing
// umbrella. The active project must declare umbrella apps.
func scaffoldApp(cwd, app string) error {
	tree, err := workspace.Open(cwd, logging.NopLogger())
	if err != nil {
		return err
	}

	active := tree.Active()
	if !active.Umbrella() {
		return errors.Wrapf(errors.ErrNotUmbrella, "cannot add app %q: project %q declares no umbrella apps", app, active.Name())
	}

	appDir := filepath.Join(active.Root(), "apps", app)
	if workspace.HasManifest(appDir) {
		return fmt.Errorf("app %q already exists at %s", app, appDir)
	}

	if err := scaffoldProject(appDir, app, false); err != nil {
		return err
	}

	fmt.Printf("Added app %q at %s\n", app, appDir)
	return nil
}

const manifestTemplate = `# taskmill project manifest
name = %q

# Extra process environment for task invocations.
# [env]
# MIX_ENV = "dev"

# Project variables, usable as ${var} in declarative task units.
# The "path" variable always equals the project root.
# [vars]
# release = "dev"

# Unit locations, relative to this file (default: ["tasks"]).
# [tasks]
# paths = ["tasks"]

# Multi-step command aliases, gated once per project.
# [aliases]
# ship = ["fmt", "test --cover", "build"]
`

const umbrellaSection = `
[umbrella]
apps = ["apps/*"]
`

const sampleUnit = `summary = "Print a greeting"
doc = """
Prints a greeting from the project that runs it.

Replace this sample with real tasks: every tasks/task_<name>.toml or
tasks/task_<name>.lua file becomes a task named <name>.
"""
run = ["echo", "hello from ${path}"]
`

func scaffoldProject(dir, name string, umbrella bool) error {
	if err := os.MkdirAll(filepath.Join(dir, workspace.DefaultTaskDir), 0755); err != nil {
		return fmt.Errorf("failed to create tasks directory: %w", err)
	}

	manifest := fmt.Sprintf(manifestTemplate, name)
	if umbrella {
		manifest += umbrellaSection
		if err := os.MkdirAll(filepath.Join(dir, "apps"), 0755); err != nil {
			return fmt.Errorf("failed to create apps directory: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, workspace.ManifestName), []byte(manifest), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	samplePath := filepath.Join(dir, workspace.DefaultTaskDir, "task_hello.toml")
	if err := os.WriteFile(samplePath, []byte(sampleUnit), 0644); err != nil {
		return fmt.Errorf("failed to write sample task: %w", err)
	}

	return nil
}
