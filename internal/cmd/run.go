package cmd

import (
	"fmt"

	"github.com/millworks/taskmill/internal/dispatch"
	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [args...]",
	Short: "Run a task in the current project",
	Long: `Run a task in the current project.

The task name is resolved against the project's unit locations. Within a
single invocation each task runs at most once per project: alias steps
that repeat a task, or umbrella fan-out revisiting a sub-project, are
skipped as already executed.

Examples:
  # Run a task by name
  taskmill run build

  # Pass arguments through to the task
  taskmill run test --cover

  # Run a recursive task from an umbrella root
  taskmill run deps.fetch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Everything after the task name belongs to the task
	runCmd.Flags().SetInterspersed(false)
}

func runRun(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("run")
	if err != nil {
		return err
	}
	defer eng.close()

	res, err := eng.runner.Run(cmd.Context(), args[0], args[1:])
	if err != nil {
		return err
	}

	printRunResult(res)
	return nil
}

// printRunResult prints non-nil scalar results. Umbrella fan-out prints
// one line per sub-project that produced a value. Noops stay quiet.
func printRunResult(res dispatch.Result) {
	if res.Fanout != nil {
		for _, sub := range res.Fanout {
			if sub.Status == dispatch.StatusRan && sub.Value != nil {
				icon := styles.StatusIcon(string(sub.Status))
				fmt.Printf("%s %s: %v\n", icon, sub.Project, sub.Value)
			}
		}
		return
	}
	if res.Status == dispatch.StatusRan && res.Value != nil {
		fmt.Printf("%v\n", res.Value)
	}
}
