package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete taskmill configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Tasks   TasksConfig   `mapstructure:"tasks"`
	Watch   WatchConfig   `mapstructure:"watch"`
	UI      UIConfig      `mapstructure:"ui"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is written to a file (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path. If empty, logs are written to
	// .taskmill/taskmill.log under the workspace root.
	// Supports ~ for home directory expansion.
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// TasksConfig controls task unit discovery
type TasksConfig struct {
	// Paths is a list of extra unit search locations appended after the
	// project's own task paths. Relative entries are resolved against the
	// workspace root.
	Paths []string `mapstructure:"paths"`
}

// WatchConfig controls watch-mode behavior
type WatchConfig struct {
	// DebounceMs is the quiet period after a filesystem event before the
	// watched task is rerun, in milliseconds (default: 400)
	DebounceMs int `mapstructure:"debounce_ms"`
	// Ignore lists directory names that are never watched
	Ignore []string `mapstructure:"ignore"`
}

// UIConfig controls terminal output behavior
type UIConfig struct {
	// Color enables styled output (default: true)
	Color bool `mapstructure:"color"`
	// AllTasks includes summary-less tasks in listings (default: false)
	AllTasks bool `mapstructure:"all_tasks"`
}

// Debounce returns the watch debounce interval as a time.Duration
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// ResolveLogFile returns the resolved log file path.
// If File is empty, it returns the default path under baseDir.
// If File starts with ~, it expands to the user's home directory.
// If File is a relative path, it's resolved relative to baseDir.
func (l *LoggingConfig) ResolveLogFile(baseDir string) string {
	if l.File == "" {
		return filepath.Join(baseDir, ".taskmill", "taskmill.log")
	}

	path := l.File

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "", // Empty means .taskmill/taskmill.log under the workspace root
			MaxSizeMB:  5,
			MaxBackups: 2,
			Compress:   false,
		},
		Tasks: TasksConfig{
			Paths: []string{},
		},
		Watch: WatchConfig{
			DebounceMs: 400,
			Ignore:     []string{".git", ".taskmill", "node_modules", "_build", "target"},
		},
		UI: UIConfig{
			Color:    true,
			AllTasks: false,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Tasks defaults
	viper.SetDefault("tasks.paths", defaults.Tasks.Paths)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("watch.ignore", defaults.Watch.Ignore)

	// UI defaults
	viper.SetDefault("ui.color", defaults.UI.Color)
	viper.SetDefault("ui.all_tasks", defaults.UI.AllTasks)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskmill")
	}
	// Fall back to ~/.config/taskmill
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskmill"
	}
	return filepath.Join(home, ".config", "taskmill")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
