package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/millworks/taskmill/internal/dispatch"
	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/millworks/taskmill/internal/workspace"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show the current project and umbrella members",
	Long: `Show the project taskmill resolved from the current directory. For
umbrella projects, also list the member projects that recursive tasks
fan out across.`,
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("projects")
	if err != nil {
		return err
	}
	defer eng.close()

	active := eng.tree.Active()

	fmt.Println(styles.Title.Render("Current project"))
	fmt.Printf("  name: %s\n", active.Name())
	fmt.Printf("  root: %s\n", active.Root())
	if active.Anonymous() {
		fmt.Println(styles.Muted.Render("  (no project.toml found; directory treated as an anonymous project)"))
	}

	if !active.Umbrella() {
		return nil
	}

	subs, err := eng.tree.Subprojects()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(styles.Title.Render(fmt.Sprintf("Umbrella members (%d)", len(subs))))
	if len(subs) == 0 {
		fmt.Println(styles.Muted.Render("  none; the umbrella globs matched no project directories"))
		return nil
	}
	for _, sub := range subs {
		fmt.Printf("  %s %s\n",
			styles.Text.Render(fmt.Sprintf("%-20s", subprojectName(sub))),
			styles.Muted.Render(sub.Root()))
	}

	return nil
}

func subprojectName(p dispatch.Project) string {
	if wp, ok := p.(*workspace.Project); ok {
		return wp.Name()
	}
	return filepath.Base(p.Root())
}
