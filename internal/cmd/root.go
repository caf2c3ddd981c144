package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/millworks/taskmill/internal/config"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the CLI version, overridden via ldflags at release build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "taskmill",
	Short: "Workspace task runner with run-once dispatch",
	Long: `Taskmill discovers task units by naming convention (task_<name>.toml,
task_<name>.lua), resolves command names to exactly one unit, and runs
each task at most once per project within an invocation. In umbrella
workspaces, recursive tasks fan out across the member projects.`,
	Version:           version,
	PersistentPreRunE: setupRoot,
}

var chdirFlag string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/taskmill/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVarP(&chdirFlag, "chdir", "C", "", "run as if started in this directory")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/taskmill")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKMILL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TASKMILL_WATCH_DEBOUNCE_MS for watch.debounce_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// setupRoot applies the global flags that affect every command: the
// working directory override and the color switch.
func setupRoot(cmd *cobra.Command, args []string) error {
	if chdirFlag != "" {
		if err := os.Chdir(chdirFlag); err != nil {
			return fmt.Errorf("failed to change directory: %w", err)
		}
	}

	if !config.Get().UI.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	return nil
}
