package cmd

import (
	"fmt"

	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc <task>",
	Short: "Show task documentation",
	Long: `Show the long documentation of a task. Falls back to the one-line
summary when the unit declares no doc text.`,
	Args: cobra.ExactArgs(1),
	RunE: runDoc,
}

func init() {
	rootCmd.AddCommand(docCmd)
}

func runDoc(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("doc")
	if err != nil {
		return err
	}
	defer eng.close()

	t, err := eng.catalog.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println(styles.Title.Render(t.Name))

	text := t.Documentation()
	if text == "" {
		text = t.ShortSummary()
	}
	if text == "" {
		text = "(no documentation)"
	}
	fmt.Println(text)

	if t.IsRecursive() {
		fmt.Println()
		fmt.Println(styles.Muted.Render("Runs once per member project when invoked from an umbrella root."))
	}

	return nil
}
