// Package config provides YAML-based configuration loading for the game:
// where progress is saved, how logging is set up, and the tuning of the
// flappy simulation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Save   SaveConfig   `yaml:"save"`
	Player PlayerConfig `yaml:"player"`
	Log    LogConfig    `yaml:"log"`
	Game   GameConfig   `yaml:"game"`
	Flappy FlappyConfig `yaml:"flappy"`
}

// SaveConfig selects the persistence backend.
type SaveConfig struct {
	Backend string `yaml:"backend" env:"FLAPPY_SAVE_BACKEND"` // "file" or "sqlite"
	Path    string `yaml:"path" env:"FLAPPY_SAVE_PATH"`       // empty = backend default under ~/.flappy
}

// PlayerConfig holds the name used on a fresh install.
type PlayerConfig struct {
	Name string `yaml:"name" env:"FLAPPY_PLAYER_NAME"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level" env:"FLAPPY_LOG_LEVEL"`
	File  string `yaml:"file" env:"FLAPPY_LOG_FILE"` // log destination while the TUI owns the terminal
}

// GameConfig holds frame loop settings.
type GameConfig struct {
	TickRate int              `yaml:"tick_rate"` // frames per second
	Speeds   DifficultySpeeds `yaml:"speeds"`
}

// DifficultySpeeds is the pipe speed for each difficulty, in pixels per
// frame at 60 fps.
type DifficultySpeeds struct {
	Easy   float64 `yaml:"easy"`
	Medium float64 `yaml:"medium"`
	Hard   float64 `yaml:"hard"`
}

// For returns the pipe speed for d. Unknown difficulties get the medium speed.
func (s DifficultySpeeds) For(d save.Difficulty) float64 {
	switch d {
	case save.Easy:
		return s.Easy
	case save.Hard:
		return s.Hard
	default:
		return s.Medium
	}
}

// Scale returns the speed for d relative to medium.
func (s DifficultySpeeds) Scale(d save.Difficulty) float64 {
	if s.Medium <= 0 {
		return 1
	}
	return s.For(d) / s.Medium
}

// FlappyConfig contains the tuning of the flappy simulation.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Obstacles  FlappyObstacles  `yaml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyPhysics defines physics parameters, in cells per tick.
type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	BaseSpeed    float64 `yaml:"base_speed"`
}

// FlappyObstacles defines pipe layout.
type FlappyObstacles struct {
	PipeWidth    int `yaml:"pipe_width"`
	PipeSpacing  int `yaml:"pipe_spacing"`
	MinGapSize   int `yaml:"min_gap_size"`
	MaxGapSize   int `yaml:"max_gap_size"`
	TopMargin    int `yaml:"top_margin"`
	BottomMargin int `yaml:"bottom_margin"`
}

// FlappyPlayer defines the bird's box.
type FlappyPlayer struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DifficultyConfig defines how a run gets harder as the score grows.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines what drives the ramp.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // score or ticks at which the ramp tops out
}

// ScalingConfig defines the magnitude of the ramp.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	GapReduction     int     `yaml:"gap_reduction"`
	SpacingReduction int     `yaml:"spacing_reduction"`
}

// Backends accepted in save.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SavePath returns the configured save path, or the default for the backend.
func (c AppConfig) SavePath() string {
	if c.Save.Path != "" {
		return c.Save.Path
	}
	if c.Save.Backend == BackendSQLite {
		return filepath.Join("~", ".flappy", "flappy.db")
	}
	return filepath.Join("~", ".flappy", "save.yaml")
}

// LogLevel parses Log.Level. An empty level means info.
func (c AppConfig) LogLevel() (log.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(c.Log.Level))
}

// ForDifficulty returns the flappy tuning for a chosen difficulty: the
// ramp starts further along and pipes move at the difficulty's speed.
func (c AppConfig) ForDifficulty(d save.Difficulty) FlappyConfig {
	fc := c.Flappy
	fc.Physics.BaseSpeed *= c.Game.Speeds.Scale(d)
	if fc.Difficulty.Enabled {
		fc.Difficulty.InitialLevel = InitialLevelFor(d)
	}
	return fc
}

// InitialLevelFor returns the starting ramp level for a difficulty.
func InitialLevelFor(d save.Difficulty) float64 {
	switch d {
	case save.Easy:
		return 0.0
	case save.Hard:
		return 0.7
	default:
		return 0.3
	}
}

// Validate reports every invalid field.
func (c AppConfig) Validate() error {
	var errs []error

	switch c.Save.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("save.backend: unknown backend %q", c.Save.Backend))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Game.TickRate <= 0 || c.Game.TickRate > 240 {
		errs = append(errs, fmt.Errorf("game.tick_rate: %d out of range (1-240)", c.Game.TickRate))
	}
	sp := c.Game.Speeds
	if sp.Easy <= 0 || sp.Medium <= 0 || sp.Hard <= 0 {
		errs = append(errs, errors.New("game.speeds: every speed must be positive"))
	}

	o := c.Flappy.Obstacles
	if o.PipeWidth <= 0 || o.PipeSpacing <= o.PipeWidth {
		errs = append(errs, errors.New("flappy.obstacles: pipe spacing must exceed pipe width"))
	}
	if o.MinGapSize <= 0 || o.MaxGapSize < o.MinGapSize {
		errs = append(errs, fmt.Errorf("flappy.obstacles: gap range %d-%d invalid", o.MinGapSize, o.MaxGapSize))
	}
	if c.Flappy.Physics.BaseSpeed <= 0 {
		errs = append(errs, errors.New("flappy.physics.base_speed: must be positive"))
	}
	if p := c.Flappy.Player; p.Width <= 0 || p.Height <= 0 {
		errs = append(errs, errors.New("flappy.player: width and height must be positive"))
	}

	return errors.Join(errs...)
}
