package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset statistics and achievements",
	Long: `Reset lifetime statistics and achievements. Settings are kept.

With --all the save is deleted and everything, settings and session
history included, goes back to a fresh install.

Examples:
  flappy reset
  flappy reset --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if flagResetAll {
			if _, err := a.gateway.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(out, "All progress and settings reset")
			return nil
		}

		if err := a.game.Session.ResetAllProgress(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Statistics and achievements reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetAll, "all", false, "Also reset settings and history")
}
