// Sygaldry - Digital Musical Instrument Runtime
//
// A host for component-based instruments with:
//   - A declarative component tree driven by a fixed lifecycle tick
//   - A line-oriented CLI binding (/help, /list, /describe, /set)
//   - OSC over UDP for inputs and outputs
//   - JSON session storage for tagged endpoints
//   - An output-change logger
//
// Examples:
//
//	sygaldry run                          # run the demo instrument
//	sygaldry run -c instrument.yaml       # run with an instrument config
//	sygaldry settings show                # no instrument needed
//	sygaldry version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sygaldry-dmi/sygaldry/pkg/settings"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// App holds CLI state shared across all commands.
type App struct {
	// Option flags
	configPath string
	logLevel   string
	jsonLogs   bool

	// Initialized state (set in PersistentPreRunE)
	settings *settings.Settings
	config   *Config
}

var app = &App{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sygaldry",
	Short:         "Digital Musical Instrument Runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Sygaldry hosts component-based instruments.

An instrument is a tree of components; the host drives the lifecycle tick
and attaches the CLI, OSC, session-storage and output-logger bindings.

  sygaldry run [-c instrument.yaml]
  sygaldry settings show
  sygaldry version`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		app.settings = s

		cfg, err := LoadConfig(app.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		app.config = cfg

		level := app.config.LogLevel
		if app.logLevel != "" {
			level = app.logLevel
		}
		if level == "" {
			level = s.LogLevel
		}
		return util.ConfigureLogging(level, app.jsonLogs)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "instrument config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&app.jsonLogs, "json-logs", false, "emit logs as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(settingsCmd)
}
