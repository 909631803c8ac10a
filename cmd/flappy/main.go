// flappy is a terminal flappy-bird game that keeps your settings, lifetime
// statistics and achievements between runs.
//
// Usage:
//
//	flappy play                  - Play
//	flappy stats                 - Show lifetime statistics
//	flappy achievements          - Show achievement progress
//	flappy settings [set k v]    - Show or change settings
//	flappy history               - Show recent sessions (sqlite backend)
//	flappy reset [--all]         - Reset progress, or everything
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.flappy/config.yaml)
//	--save <path>       - Save location (default depends on backend)
//	--backend <kind>    - file or sqlite
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagSavePath string
	flagBackend  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - a flappy bird in your terminal",
	Long: `Flappy is a terminal flappy-bird game. Settings, lifetime statistics
and achievements are saved after every change.

Available commands:
  play          - Play a game
  stats         - Lifetime statistics
  achievements  - Achievement progress
  settings      - Show or change settings
  history       - Recent sessions (sqlite backend only)
  reset         - Reset progress

Examples:
  flappy play
  flappy play --difficulty hard
  flappy settings set music 0.4
  flappy --backend sqlite history --limit 5`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagSavePath, "save", "", "Path to save file or database")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Save backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
}
