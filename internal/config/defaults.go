package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/flappy.yaml.
func Default() AppConfig {
	return AppConfig{
		Save: SaveConfig{
			Backend: BackendFile,
		},
		Player: PlayerConfig{
			Name: "Player",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.flappy/flappy.log",
		},
		Game: GameConfig{
			TickRate: 60,
			Speeds: DifficultySpeeds{
				Easy:   2.5,
				Medium: 3.5,
				Hard:   4.5,
			},
		},
		Flappy: FlappyConfig{
			Physics: FlappyPhysics{
				Gravity:      0.25,
				JumpImpulse:  -1.8,
				MaxFallSpeed: 3.0,
				BaseSpeed:    0.8,
			},
			Obstacles: FlappyObstacles{
				PipeWidth:    5,
				PipeSpacing:  40,
				MinGapSize:   8,
				MaxGapSize:   12,
				TopMargin:    3,
				BottomMargin: 3,
			},
			Player: FlappyPlayer{
				X:      10,
				Width:  2,
				Height: 2,
			},
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.0,
				Progression: ProgressionConfig{
					Type:  "score",
					MaxAt: 50,
				},
				Scaling: ScalingConfig{
					SpeedMultiplier:  1.0,
					GapReduction:     4,
					SpacingReduction: 15,
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default config file, e.g. for
// writing a starter ~/.flappy/config.yaml.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}
