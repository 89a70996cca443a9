// internal/cli/root.go
// Package dokimi wires the cobra command tree for the pipeline test
// harness: recovery monitoring, batch analysis, and fleet simulation.
package dokimi

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/dokimi/internal/appconfig"
	"github.com/mwiater/dokimi/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dokimi",
	Short: "dokimi — operational test harness for the telemetry pipeline",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		for _, name := range []string{"logFile", "resultsDir"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("resultsDir", "", "directory run artifacts are written to")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("resultsDir", rootCmd.PersistentFlags().Lookup("resultsDir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. A missing
// file is fine; defaults and flags still apply. A present file must
// pass the appconfig schema before any command runs.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	if file := viper.ConfigFileUsed(); file != "" {
		if _, err := appconfig.Load(file); err != nil {
			return err
		}
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
