// Lutronctl controls Lutron lighting and shades over the integration protocol.
//
// It talks to RadioRA2 main repeaters and Caseta Pro bridges on their Telnet
// integration port: discovering bridges, watching output levels, sending
// level and shade commands, and relaying events to WebSocket clients.
//
// Usage:
//
//	lutronctl [command] [flags]
//
// See 'lutronctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/lutronctl/internal/logging"
	"github.com/muurk/lutronctl/internal/ui"
	"github.com/muurk/lutronctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}

// Global flags
var (
	flagHost        string
	flagPort        int
	flagUser        string
	flagConfig      string
	flagLogLevel    string
	flagLogFile     string
	flagPasswordEnv string
)

var rootCmd = &cobra.Command{
	Use:   "lutronctl",
	Short: "Lutron Integration Protocol Client",
	Long: `A command line client for the Lutron integration protocol.

Connects to a RadioRA2 main repeater or Caseta Pro bridge on its Telnet
integration port (23) to watch output levels and send commands.

The bridge address and device names are read from the configuration file
(see 'lutronctl devices --help'). The integration password is never stored;
it is read from the variable named by --password-env, or prompted for when
the bridge asks.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Example: `  # Find bridges on the local network and remember the first one
  lutronctl scan --save

  # Dim output 12 to 40%
  lutronctl set 12 40

  # Watch every level change
  lutronctl watch

  # Live dashboard
  lutronctl monitor`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "Bridge host (overrides the config file)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "Bridge integration port (default 23)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Integration username (default from config, else \"lutron\")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default $LUTRONCTL_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); default $LUTRONCTL_LOG_LEVEL or silent")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write JSON logs to this rotating file")
	rootCmd.PersistentFlags().StringVar(&flagPasswordEnv, "password-env", "", "Read the integration password from this environment variable")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the configuration for every command.
func setup(cmd *cobra.Command, args []string) error {
	file := logging.FileConfig{}
	if flagLogFile != "" {
		file = logging.DefaultFileConfig(flagLogFile)
	}
	if err := logging.InitializeWithFile(flagLogLevel, file); err != nil {
		return err
	}
	return loadConfig()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintCommandHeader("lutronctl", "lutronctl version", version.Details())
	},
}
