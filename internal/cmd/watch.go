package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/millworks/taskmill/internal/config"
	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/tui/styles"
	"github.com/millworks/taskmill/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <task> [args...]",
	Short: "Run a task, then rerun it on file changes",
	Long: `Run a task, then rerun it whenever files change under the project root.

Each change burst reenables the task before dispatching, so the watched
task executes on every cycle even though dispatch is normally once per
project. One watcher per project: a lock file under .taskmill/ keeps a
second watch from racing the first.

Examples:
  taskmill watch test
  taskmill watch assets.build --minify`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Everything after the task name belongs to the task
	watchCmd.Flags().SetInterspersed(false)
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, err := newEngine("watch")
	if err != nil {
		return err
	}
	defer eng.close()

	stateDir, err := eng.tree.EnsureDir()
	if err != nil {
		return err
	}

	lock := watch.NewRunLock(stateDir)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, errors.ErrWatchLocked) {
			return fmt.Errorf("another watch is already running for this project (%s)", lock.Path())
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	cfg := config.Get()
	watcher, err := watch.New(cfg.Watch.Debounce(), cfg.Watch.Ignore, eng.logger)
	if err != nil {
		return err
	}

	name, taskArgs := args[0], args[1:]
	ctx := cmd.Context()

	watcher.OnBurst(func(paths []string) {
		fmt.Println()
		fmt.Println(styles.Warning.Render(fmt.Sprintf("%d change(s), rerunning %s", len(paths), name)))
		res, err := eng.runner.Rerun(ctx, name, taskArgs)
		if err != nil {
			fmt.Println(styles.ErrorMsg.Render(fmt.Sprintf("error: %v", err)))
			return
		}
		printRunResult(res)
		fmt.Println(styles.SuccessMsg.Render("✓ " + name))
	})

	if err := watcher.AddTree(eng.tree.Active().Root()); err != nil {
		return err
	}

	// Initial run happens before the watcher starts; files the task
	// itself writes during it do not trigger a cycle.
	res, err := eng.runner.Run(ctx, name, taskArgs)
	if err != nil {
		if errors.IsResolution(err) {
			return err
		}
		fmt.Println(styles.ErrorMsg.Render(fmt.Sprintf("error: %v", err)))
	} else {
		printRunResult(res)
	}

	watcher.Start()
	defer watcher.Stop()

	fmt.Println(styles.Muted.Render("Watching " + eng.tree.Active().Root() + " (Ctrl+C to stop)"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println()
	return nil
}
