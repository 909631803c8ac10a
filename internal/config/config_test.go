package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadCustomPathLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := "save:\n  backend: sqlite\ngame:\n  speeds:\n    hard: 6\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Save.Backend)
	require.Equal(t, 6.0, cfg.Game.Speeds.Hard)
	require.Equal(t, 3.5, cfg.Game.Speeds.Medium)
	require.Equal(t, 60, cfg.Game.TickRate)
	require.Equal(t, filepath.Join("~", ".flappy", "flappy.db"), cfg.SavePath())
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("save: [oops"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := "save:\n  backend: floppy\ngame:\n  tick_rate: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "save.backend")
	require.ErrorContains(t, err, "game.tick_rate")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLAPPY_SAVE_BACKEND", "sqlite")
	t.Setenv("FLAPPY_SAVE_PATH", "/tmp/x.db")
	t.Setenv("FLAPPY_LOG_LEVEL", "debug")
	t.Setenv("FLAPPY_PLAYER_NAME", "Ace")

	cfg := Default()
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, BackendSQLite, cfg.Save.Backend)
	require.Equal(t, "/tmp/x.db", cfg.SavePath())
	require.Equal(t, "Ace", cfg.Player.Name)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, log.DebugLevel, lvl)

	// Untouched fields keep their values.
	require.Equal(t, "~/.flappy/flappy.log", cfg.Log.File)
}

func TestSpeedsPerDifficulty(t *testing.T) {
	sp := Default().Game.Speeds
	require.Equal(t, 2.5, sp.For(save.Easy))
	require.Equal(t, 3.5, sp.For(save.Medium))
	require.Equal(t, 4.5, sp.For(save.Hard))
	require.Equal(t, 3.5, sp.For(save.Difficulty(42)))
	require.InDelta(t, 4.5/3.5, sp.Scale(save.Hard), 1e-9)
}

func TestForDifficulty(t *testing.T) {
	cfg := Default()

	easy := cfg.ForDifficulty(save.Easy)
	hard := cfg.ForDifficulty(save.Hard)
	require.Less(t, easy.Physics.BaseSpeed, hard.Physics.BaseSpeed)
	require.Equal(t, 0.0, easy.Difficulty.InitialLevel)
	require.Equal(t, 0.7, hard.Difficulty.InitialLevel)

	// The receiver is not modified.
	require.Equal(t, 0.8, cfg.Flappy.Physics.BaseSpeed)
}

func TestRamp(t *testing.T) {
	d := Default().Flappy.Difficulty
	r := NewRamp(d)

	require.True(t, r.Enabled())
	require.Equal(t, 0.0, r.Level(0, 0))
	require.InDelta(t, 0.5, r.Level(25, 0), 1e-9)
	require.Equal(t, 1.0, r.Level(500, 0))

	require.InDelta(t, 1.6, r.Speed(0.8, 50, 0), 1e-9)
	require.Equal(t, 8, r.GapSize(12, 50, 0))
	require.Equal(t, 4, r.GapSize(5, 50, 0))
	require.Equal(t, 25, r.Spacing(40, 50, 0))
	require.Equal(t, 15, r.Spacing(20, 50, 0))

	d.Progression.Type = "none"
	d.InitialLevel = 3
	fixed := NewRamp(d)
	require.False(t, fixed.Enabled())
	require.Equal(t, 1.0, fixed.Level(100, 100))
}
