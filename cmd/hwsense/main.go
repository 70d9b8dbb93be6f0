// Hwsense is a command line utility for hardware monitoring sensors.
//
// It detects hwmon chips through sysfs, applies a user configuration
// of labels, ignores, conversions and set directives, and exposes the
// resulting features for reading, writing and live watching.
//
// Usage:
//
//	hwsense [command] [flags]
//
// Running without arguments shows all detected chips and their
// readings. See 'hwsense --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwsense/hwsense/internal/logging"
	"github.com/hwsense/hwsense/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: logging setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hwsense",
	Short: "Hardware Sensor Utility",
	Long: `A utility for reading and configuring hardware monitoring sensors.

Detects hwmon chips through sysfs, resolves feature labels, ignores
and value conversions from a configuration file, and provides direct
read/write access plus a live watch view.

If no command is specified, all detected chips are shown.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show all chips when no subcommand provided
		return runShow(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hwsense %s (commit: %s)\n", version.Version, version.Commit)
	},
}
