// Package save defines the consolidated save record, its versioned on-disk
// encoding, and the gateway that is the only reader and writer of durable state.
package save

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Difficulty is the player's chosen difficulty.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// String returns the lowercase name used in config files and the CLI.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// ParseDifficulty parses "easy", "medium" or "hard" (case-insensitive).
// "normal" is accepted as an alias for medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "normal":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("save: unknown difficulty %q", s)
}

// Default values for a fresh install.
const (
	DefaultDifficulty  = Medium
	DefaultMusicVolume = 0.7
	DefaultSFXVolume   = 1.0
	DefaultPlayerName  = "Player"
)

// Settings holds the player's preferences.
type Settings struct {
	Difficulty  Difficulty
	MusicVolume float64 // [0,1]
	SFXVolume   float64 // [0,1]
	Muted       bool
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:  DefaultDifficulty,
		MusicVolume: DefaultMusicVolume,
		SFXVolume:   DefaultSFXVolume,
	}
}

// Statistics holds lifetime counters.
type Statistics struct {
	GamesPlayed int
	TotalScore  int
	BestTime    float64 // seconds, never decreases
	PipesPassed int
	HighScore   int // never decreases
}

// AchievementProgress is the persisted state of one achievement.
type AchievementProgress struct {
	ID       string
	Unlocked bool
	Progress int
}

// Record is the single unit of durable storage.
type Record struct {
	Settings     Settings
	Statistics   Statistics
	PlayerName   string
	Achievements []AchievementProgress
}

// Default returns the record synthesized on first run or after corruption.
func Default() Record {
	return Record{
		Settings:   DefaultSettings(),
		PlayerName: DefaultPlayerName,
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Achievements != nil {
		out.Achievements = make([]AchievementProgress, len(r.Achievements))
		copy(out.Achievements, r.Achievements)
	}
	return out
}

// Achievement returns the persisted progress for id, if present.
func (r Record) Achievement(id string) (AchievementProgress, bool) {
	for _, a := range r.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementProgress{}, false
}

// Validate checks field ranges. A record that fails validation is never
// written and is treated as corrupt when read.
func (r Record) Validate() error {
	var errs []error

	s := r.Settings
	if !s.Difficulty.Valid() {
		errs = append(errs, fmt.Errorf("difficulty %d out of range", int(s.Difficulty)))
	}
	if !inUnit(s.MusicVolume) {
		errs = append(errs, fmt.Errorf("music volume %v out of [0,1]", s.MusicVolume))
	}
	if !inUnit(s.SFXVolume) {
		errs = append(errs, fmt.Errorf("sfx volume %v out of [0,1]", s.SFXVolume))
	}

	st := r.Statistics
	if st.GamesPlayed < 0 || st.TotalScore < 0 || st.PipesPassed < 0 || st.HighScore < 0 {
		errs = append(errs, errors.New("negative statistics counter"))
	}
	if math.IsNaN(st.BestTime) || math.IsInf(st.BestTime, 0) || st.BestTime < 0 {
		errs = append(errs, fmt.Errorf("best time %v invalid", st.BestTime))
	}

	seen := make(map[string]bool, len(r.Achievements))
	for _, a := range r.Achievements {
		if a.ID == "" {
			errs = append(errs, errors.New("achievement with empty id"))
			continue
		}
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate achievement %q", a.ID))
		}
		seen[a.ID] = true
		if a.Progress < 0 {
			errs = append(errs, fmt.Errorf("achievement %q has negative progress", a.ID))
		}
	}

	return errors.Join(errs...)
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
