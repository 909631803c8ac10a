package save

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is written into every encoded record. Decoding accepts any
// version from 1 up; unknown fields from newer versions are ignored.
const SchemaVersion = 1

var (
	// ErrNotFound is returned by a Backend when no record has been written.
	ErrNotFound = errors.New("save: record not found")
	// ErrCorrupt marks a stored record that cannot be decoded or validated.
	ErrCorrupt = errors.New("save: record corrupt")
)

type document struct {
	Version          int              `yaml:"version"`
	HighScore        int              `yaml:"highScore"`
	MusicVolume      float64          `yaml:"musicVolume"`
	SFXVolume        float64          `yaml:"sfxVolume"`
	Difficulty       string           `yaml:"difficulty"`
	IsMuted          bool             `yaml:"isMuted"`
	PlayerName       string           `yaml:"playerName"`
	TotalGamesPlayed int              `yaml:"totalGamesPlayed"`
	TotalScore       int              `yaml:"totalScore"`
	BestTime         float64          `yaml:"bestTime"`
	TotalPipesPassed int              `yaml:"totalPipesPassed"`
	Achievements     []achievementDoc `yaml:"achievements,omitempty"`
}

type achievementDoc struct {
	ID       string `yaml:"id"`
	Unlocked bool   `yaml:"unlocked"`
	Progress int    `yaml:"progress"`
}

// Encode serializes r. Invalid records are rejected.
func Encode(r Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("save: refusing to encode invalid record: %w", err)
	}

	doc := document{
		Version:          SchemaVersion,
		HighScore:        r.Statistics.HighScore,
		MusicVolume:      r.Settings.MusicVolume,
		SFXVolume:        r.Settings.SFXVolume,
		Difficulty:       r.Settings.Difficulty.String(),
		IsMuted:          r.Settings.Muted,
		PlayerName:       r.PlayerName,
		TotalGamesPlayed: r.Statistics.GamesPlayed,
		TotalScore:       r.Statistics.TotalScore,
		BestTime:         r.Statistics.BestTime,
		TotalPipesPassed: r.Statistics.PipesPassed,
	}
	for _, a := range r.Achievements {
		doc.Achievements = append(doc.Achievements, achievementDoc(a))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("save: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("save: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses data produced by Encode. Every failure wraps ErrCorrupt.
func Decode(data []byte) (Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Version < 1 {
		return Record{}, fmt.Errorf("%w: missing schema version", ErrCorrupt)
	}

	diff, err := ParseDifficulty(doc.Difficulty)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	r := Record{
		Settings: Settings{
			Difficulty:  diff,
			MusicVolume: doc.MusicVolume,
			SFXVolume:   doc.SFXVolume,
			Muted:       doc.IsMuted,
		},
		Statistics: Statistics{
			GamesPlayed: doc.TotalGamesPlayed,
			TotalScore:  doc.TotalScore,
			BestTime:    doc.BestTime,
			PipesPassed: doc.TotalPipesPassed,
			HighScore:   doc.HighScore,
		},
		PlayerName: doc.PlayerName,
	}
	for _, a := range doc.Achievements {
		r.Achievements = append(r.Achievements, AchievementProgress(a))
	}

	if err := r.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}
