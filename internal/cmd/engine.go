package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/millworks/taskmill/internal/config"
	"github.com/millworks/taskmill/internal/dispatch"
	"github.com/millworks/taskmill/internal/logging"
	"github.com/millworks/taskmill/internal/task"
	"github.com/millworks/taskmill/internal/workspace"
)

// engine bundles the collaborators a dispatch-driving command needs: the
// workspace tree, the catalog over the active project's unit locations,
// and the runner holding this invocation's ledger.
type engine struct {
	tree    *workspace.Tree
	catalog *task.Catalog
	runner  *dispatch.Runner
	logger  *logging.Logger
}

// newEngine opens the workspace at the current directory and wires the
// catalog and runner for the named command. Call close when done to
// flush the log file.
func newEngine(command string) (*engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	logger, err := newCommandLogger(command, cwd)
	if err != nil {
		return nil, err
	}

	tree, err := workspace.Open(cwd, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	locations := tree.Active().TaskPaths()
	for _, p := range config.Get().Tasks.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(tree.Active().Root(), p)
		}
		locations = append(locations, p)
	}

	catalog := task.NewCatalog(task.NewFileLoader(locations...), logger)
	runner := dispatch.NewRunner(catalog, tree, logger)

	return &engine{tree: tree, catalog: catalog, runner: runner, logger: logger}, nil
}

func (e *engine) close() {
	_ = e.logger.Close()
}

// newCommandLogger builds the logger for one CLI invocation. Logging is
// off by default; when enabled it appends to the workspace log file,
// rotated so long-lived watch sessions stay bounded.
func newCommandLogger(command, cwd string) (*logging.Logger, error) {
	cfg := config.Get()
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}

	base := cwd
	if root, err := workspace.Find(cwd); err == nil {
		base = root
	}

	logPath := cfg.Logging.ResolveLogFile(base)
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger, err := logging.NewRotatingLogger(logPath, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, err
	}
	return logger.WithCommand(command), nil
}
