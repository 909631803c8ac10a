package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/save"
	"github.com/vovakirdan/tui-flappy/internal/tui"
)

var (
	flagDifficulty string
	flagSeed       int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing. Press space on the title screen to begin.

Controls:
  Space/W/Up  - Flap
  P           - Pause
  R/Enter     - Play again (after game over)
  Esc         - Title screen (after game over)
  M           - Mute
  Q/Ctrl+C    - Quit (a run in progress is saved)

Difficulty (saved as your setting):
  easy    - Slow pipes, gentle ramp
  medium  - Default
  hard    - Fast pipes, starts near the top of the ramp

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, medium, hard")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	var difficulty save.Difficulty
	if flagDifficulty != "" {
		d, err := save.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		difficulty = d
	}

	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagDifficulty != "" && difficulty != a.game.Settings.Difficulty() {
		if err := a.game.Settings.SetDifficulty(difficulty); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: difficulty not saved: %v\n", err)
		}
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	return tui.Run(a.game, a.cfg, tui.Options{Width: width, Height: height, Seed: flagSeed}, a.logger)
}
