package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/progress"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.game.Settings
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headingStyle.Render("Settings"))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %-12s %s\n", progress.FieldPlayerName, s.PlayerName())
		fmt.Fprintf(out, "  %-12s %s (pipe speed %.1f)\n", progress.FieldDifficulty, s.Difficulty(), a.cfg.Game.Speeds.For(s.Difficulty()))
		fmt.Fprintf(out, "  %-12s %.2f\n", progress.FieldMusicVolume, s.MusicVolume())
		fmt.Fprintf(out, "  %-12s %.2f\n", progress.FieldSFXVolume, s.SFXVolume())
		fmt.Fprintf(out, "  %-12s %t\n", progress.FieldMuted, s.Muted())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Change a setting",
	Long: fmt.Sprintf(`Change one setting and save it.

Fields: %s

Examples:
  flappy settings set difficulty hard
  flappy settings set music 0.4
  flappy settings set muted true
  flappy settings set name Ace`, strings.Join(progress.Fields(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.game.Settings.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default difficulty and volumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.game.Settings.ResetToDefaults(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings restored to defaults")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
