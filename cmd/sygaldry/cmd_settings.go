package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	clibind "github.com/sygaldry-dmi/sygaldry/pkg/cli"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent user settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		fmt.Printf("%s %s\n", clibind.DotPad("session_file", 20), s.GetSessionFile())
		fmt.Printf("%s %s\n", clibind.DotPad("redis_addr", 20), orNone(s.RedisAddr))
		fmt.Printf("%s %s\n", clibind.DotPad("log_level", 20), orNone(s.LogLevel))
		fmt.Printf("%s %d\n", clibind.DotPad("tick_interval_ms", 20), s.GetTickIntervalMS())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case "session_file":
			app.settings.SessionFile = value
		case "redis_addr":
			app.settings.RedisAddr = value
		case "log_level":
			app.settings.LogLevel = value
		case "tick_interval_ms":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("tick_interval_ms must be an integer: %w", err)
			}
			app.settings.TickIntervalMS = n
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
		if err := app.settings.Save(); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, value)
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset all settings to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.settings.Clear()
		if err := app.settings.Save(); err != nil {
			return err
		}
		fmt.Println("settings cleared")
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
}
