package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/millworks/taskmill/internal/config"
	"github.com/millworks/taskmill/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskmill configuration",
	Long: `View or modify taskmill configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or locate the config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  taskmill config set logging.enabled true
  taskmill config set watch.debounce_ms 250
  taskmill config set ui.all_tasks true

Valid keys:
  logging.enabled      - Write a JSON log file under .taskmill/ (true/false)
  logging.level        - Minimum log level (debug/info/warn/error)
  logging.file         - Log file path (empty for the default)
  logging.max_size_mb  - Rotate the log file beyond this size
  logging.max_backups  - Rotated files to keep
  logging.compress     - Gzip rotated files (true/false)
  watch.debounce_ms    - Quiet window before a change burst dispatches
  ui.color             - Styled terminal output (true/false)
  ui.all_tasks         - Always include summary-less tasks in listings`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		fmt.Printf("  file: %s\n", cfg.Logging.File)
	} else {
		fmt.Printf("  file: (default: .taskmill/taskmill.log under the workspace root)\n")
	}
	fmt.Printf("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Printf("  max_backups: %d\n", cfg.Logging.MaxBackups)
	fmt.Printf("  compress: %v\n", cfg.Logging.Compress)

	fmt.Println("tasks:")
	fmt.Printf("  paths: %v\n", cfg.Tasks.Paths)

	fmt.Println("watch:")
	fmt.Printf("  debounce_ms: %d\n", cfg.Watch.DebounceMs)
	fmt.Printf("  ignore: %v\n", cfg.Watch.Ignore)

	fmt.Println("ui:")
	fmt.Printf("  color: %v\n", cfg.UI.Color)
	fmt.Printf("  all_tasks: %v\n", cfg.UI.AllTasks)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"logging.enabled":     "bool",
		"logging.level":       "level",
		"logging.file":        "string",
		"logging.max_size_mb": "int",
		"logging.max_backups": "int",
		"logging.compress":    "bool",
		"watch.debounce_ms":   "int",
		"ui.color":            "bool",
		"ui.all_tasks":        "bool",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taskmill config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "level":
		normalized := strings.ToUpper(value)
		valid := false
		for _, lvl := range logging.ValidLevels() {
			if normalized == lvl {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.ToLower(strings.Join(logging.ValidLevels(), ", ")))
		}
		typedValue = strings.ToLower(value)
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/taskmill/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: TASKMILL_* (e.g., TASKMILL_WATCH_DEBOUNCE_MS)")

	return nil
}
