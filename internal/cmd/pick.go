package cmd

import (
	"fmt"

	"github.com/millworks/taskmill/internal/config"
	"github.com/millworks/taskmill/internal/tui/picker"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a task interactively and run it",
	Long: `Open an interactive picker over the discoverable tasks. Type to
filter, Enter runs the selected task, Esc cancels.`,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("pick")
	if err != nil {
		return err
	}
	defer eng.close()

	names, err := eng.catalog.LoadAll()
	if err != nil {
		return err
	}

	showAll := config.Get().UI.AllTasks
	items := make([]picker.Item, 0, len(names))
	for _, name := range names {
		t, ok := eng.catalog.Lookup(name)
		if !ok {
			continue
		}
		if t.Hidden() && !showAll {
			continue
		}
		items = append(items, picker.Item{
			Name:      name,
			Summary:   t.ShortSummary(),
			Recursive: t.IsRecursive(),
		})
	}

	if len(items) == 0 {
		fmt.Println("No tasks to pick from.")
		return nil
	}

	choice, err := picker.Run(items)
	if err != nil {
		return err
	}
	if choice == "" {
		// Cancelled
		return nil
	}

	res, err := eng.runner.Run(cmd.Context(), choice, nil)
	if err != nil {
		return err
	}

	printRunResult(res)
	return nil
}
