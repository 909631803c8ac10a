package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.game.Ledger.Statistics()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headingStyle.Render("Statistics - "+a.game.Settings.PlayerName()))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %-14s %d\n", "High score", st.HighScore)
		fmt.Fprintf(out, "  %-14s %d\n", "Games played", st.GamesPlayed)
		fmt.Fprintf(out, "  %-14s %d\n", "Total score", st.TotalScore)
		fmt.Fprintf(out, "  %-14s %d\n", "Pipes passed", st.PipesPassed)
		fmt.Fprintf(out, "  %-14s %s\n", "Longest run", formatSeconds(st.BestTime))
		if st.GamesPlayed > 0 {
			fmt.Fprintf(out, "  %-14s %.1f\n", "Average score", float64(st.TotalScore)/float64(st.GamesPlayed))
		}
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		all := a.game.Achievements.All()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Achievements %d/%d", a.game.Achievements.UnlockedCount(), len(all))))
		fmt.Fprintln(out)
		for _, ach := range all {
			mark := mutedStyle.Render("[ ]")
			if ach.Unlocked {
				mark = doneStyle.Render("[x]")
			}
			fmt.Fprintf(out, "  %s %-18s %s %d/%d\n", mark, ach.Title, progressBar(ach.Fraction(), 20), ach.Progress, ach.Required)
			fmt.Fprintf(out, "      %s\n", mutedStyle.Render(ach.Description))
		}
		return nil
	},
}

var (
	flagHistoryLimit int
	flagHistoryTop   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sessions",
	Long: `List the most recent finished sessions. Session history is kept
only by the sqlite backend.

Examples:
  flappy --backend sqlite history
  flappy --backend sqlite history --limit 50
  flappy --backend sqlite history --top`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		load := a.gateway.History
		if flagHistoryTop {
			load = a.gateway.Best
		}
		entries, err := load(flagHistoryLimit)
		if errors.Is(err, save.ErrHistoryUnsupported) {
			return fmt.Errorf("the %s backend keeps no session history; use --backend sqlite", a.cfg.Save.Backend)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "  %-16s  %-6s  %-8s  %-8s  %s\n", "Date", "Score", "Time", "Cause", "Session")
		fmt.Fprintf(out, "  %-16s  %-6s  %-8s  %-8s  %s\n", "----", "-----", "----", "-----", "-------")
		for _, e := range entries {
			fmt.Fprintf(out, "  %-16s  %-6d  %-8s  %-8s  %s\n",
				e.EndedAt.Local().Format("2006-01-02 15:04"),
				e.Score,
				e.Duration.Round(100*time.Millisecond),
				e.Cause,
				shortID(e.ID),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of sessions to show")
	historyCmd.Flags().BoolVar(&flagHistoryTop, "top", false, "Order by score instead of date")
}

func formatSeconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(100 * time.Millisecond).String()
}

func progressBar(frac float64, width int) string {
	filled := int(frac*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
