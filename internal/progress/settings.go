package progress

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

// SettingsStore owns the settings fields and the player name.
// A setter either persists its change or leaves memory untouched.
type SettingsStore struct {
	profile *Profile
	bus     *notify.Bus
	logger  *log.Logger
}

// NewSettingsStore creates a settings store over profile.
func NewSettingsStore(profile *Profile, bus *notify.Bus, logger *log.Logger) *SettingsStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SettingsStore{profile: profile, bus: bus, logger: logger}
}

// Get returns the current settings.
func (s *SettingsStore) Get() save.Settings {
	return s.profile.record.Settings
}

func (s *SettingsStore) Difficulty() save.Difficulty { return s.profile.record.Settings.Difficulty }
func (s *SettingsStore) MusicVolume() float64        { return s.profile.record.Settings.MusicVolume }
func (s *SettingsStore) SFXVolume() float64          { return s.profile.record.Settings.SFXVolume }
func (s *SettingsStore) Muted() bool                 { return s.profile.record.Settings.Muted }
func (s *SettingsStore) PlayerName() string {
	if s.profile.record.PlayerName == "" {
		return save.DefaultPlayerName
	}
	return s.profile.record.PlayerName
}

// SetDifficulty stores d.
func (s *SettingsStore) SetDifficulty(d save.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return s.change("difficulty", func(r *save.Record) { r.Settings.Difficulty = d })
}

// SetMusicVolume clamps v into [0,1] and stores it.
func (s *SettingsStore) SetMusicVolume(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: music volume is NaN", ErrInvalidValue)
	}
	v = clamp01(v)
	return s.change("music_volume", func(r *save.Record) { r.Settings.MusicVolume = v })
}

// SetSFXVolume clamps v into [0,1] and stores it.
func (s *SettingsStore) SetSFXVolume(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: sfx volume is NaN", ErrInvalidValue)
	}
	v = clamp01(v)
	return s.change("sfx_volume", func(r *save.Record) { r.Settings.SFXVolume = v })
}

// SetMuted stores the mute flag.
func (s *SettingsStore) SetMuted(muted bool) error {
	return s.change("muted", func(r *save.Record) { r.Settings.Muted = muted })
}

// ToggleMute flips the mute flag and returns the new value.
func (s *SettingsStore) ToggleMute() (bool, error) {
	next := !s.Muted()
	if err := s.SetMuted(next); err != nil {
		return !next, err
	}
	return next, nil
}

// SetPlayerName stores a trimmed name; blank names fall back to the default.
func (s *SettingsStore) SetPlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = save.DefaultPlayerName
	}
	return s.change("player_name", func(r *save.Record) { r.PlayerName = name })
}

// ResetToDefaults restores difficulty and volumes. Mute and name are kept.
func (s *SettingsStore) ResetToDefaults() error {
	def := save.DefaultSettings()
	return s.change("defaults", func(r *save.Record) {
		r.Settings.Difficulty = def.Difficulty
		r.Settings.MusicVolume = def.MusicVolume
		r.Settings.SFXVolume = def.SFXVolume
	})
}

// Field names accepted by Set.
const (
	FieldDifficulty  = "difficulty"
	FieldMusicVolume = "music"
	FieldSFXVolume   = "sfx"
	FieldMuted       = "muted"
	FieldPlayerName  = "name"
)

// Fields lists the names accepted by Set, in display order.
func Fields() []string {
	return []string{FieldDifficulty, FieldMusicVolume, FieldSFXVolume, FieldMuted, FieldPlayerName}
}

// Set parses raw for the named field and stores it.
func (s *SettingsStore) Set(field, raw string) error {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldDifficulty:
		d, err := save.ParseDifficulty(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDifficulty, err)
		}
		return s.SetDifficulty(d)
	case FieldMusicVolume, "music_volume":
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: music volume %q", ErrInvalidValue, raw)
		}
		return s.SetMusicVolume(v)
	case FieldSFXVolume, "sfx_volume":
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: sfx volume %q", ErrInvalidValue, raw)
		}
		return s.SetSFXVolume(v)
	case FieldMuted, "mute":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: muted %q", ErrInvalidValue, raw)
		}
		return s.SetMuted(b)
	case FieldPlayerName, "player", "player_name":
		return s.SetPlayerName(raw)
	}
	return fmt.Errorf("%w: unknown setting %q", ErrInvalidValue, field)
}

func (s *SettingsStore) change(field string, mutate func(*save.Record)) error {
	if err := s.profile.commit(mutate); err != nil {
		s.logger.Error("settings change not saved", "field", field, "error", err)
		return fmt.Errorf("progress: save %s: %w", field, err)
	}
	s.logger.Debug("settings changed", "field", field)
	if s.bus != nil {
		s.bus.Publish(notify.SettingsChanged{
			Settings:   s.profile.record.Settings,
			PlayerName: s.PlayerName(),
		})
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
