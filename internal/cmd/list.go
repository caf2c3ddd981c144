package cmd

import (
	"fmt"

	"github.com/millworks/taskmill/internal/config"
	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/millworks/taskmill/internal/util"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tasks",
	Long: `List tasks discoverable from the current project.

Tasks without a summary are internal: hidden from this listing unless
--all is given, but still invokable by name. Recursive tasks are marked
with ` + "`↺`" + `.`,
	RunE: runList,
}

var listAll bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include tasks without a summary")
}

func runList(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("list")
	if err != nil {
		return err
	}
	defer eng.close()

	names, err := eng.catalog.LoadAll()
	if err != nil {
		return err
	}

	showAll := listAll || config.Get().UI.AllTasks

	fmt.Println(styles.Title.Render("Tasks in " + eng.tree.Active().Name()))

	shown := 0
	for _, name := range names {
		t, ok := eng.catalog.Lookup(name)
		if !ok {
			continue
		}
		if t.Hidden() && !showAll {
			continue
		}

		mark := " "
		if t.IsRecursive() {
			mark = "↺"
		}

		line := fmt.Sprintf(" %s %s %s",
			styles.RecursiveMark.Render(mark),
			styles.Text.Render(fmt.Sprintf("%-24s", util.TruncateString(name, 24))),
			styles.Muted.Render(util.TruncateString(util.FirstLine(t.ShortSummary()), 60)))
		fmt.Println(line)
		shown++
	}

	if shown == 0 {
		fmt.Println(styles.Muted.Render(" no tasks found; add units under tasks/ (task_<name>.toml or task_<name>.lua)"))
	}

	return nil
}
