// Package notify delivers one-way game events to presentation-layer listeners.
package notify

import (
	"time"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Kind identifies an event type for subscription.
type Kind int

const (
	KindScoreChanged Kind = iota
	KindHighScoreBeaten
	KindAchievementUnlocked
	KindGameOver
	KindSessionStarted
	KindSettingsChanged
)

func (k Kind) String() string {
	switch k {
	case KindScoreChanged:
		return "score_changed"
	case KindHighScoreBeaten:
		return "high_score_beaten"
	case KindAchievementUnlocked:
		return "achievement_unlocked"
	case KindGameOver:
		return "game_over"
	case KindSessionStarted:
		return "session_started"
	case KindSettingsChanged:
		return "settings_changed"
	default:
		return "unknown"
	}
}

// Event is implemented by every payload published on the bus.
type Event interface {
	Kind() Kind
}

// ScoreChanged is published on every accepted score increment and on session start.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) Kind() Kind { return KindScoreChanged }

// HighScoreBeaten is published the first time in a session that the running
// score passes the stored high score.
type HighScoreBeaten struct {
	HighScore int
}

func (HighScoreBeaten) Kind() Kind { return KindHighScoreBeaten }

// AchievementUnlocked is published once per unlock.
type AchievementUnlocked struct {
	ID          string
	Title       string
	Description string
}

func (AchievementUnlocked) Kind() Kind { return KindAchievementUnlocked }

// GameOver is published once per session when it ends.
type GameOver struct {
	FinalScore   int
	NewHighScore bool
	Elapsed      time.Duration
	Cause        string
}

func (GameOver) Kind() Kind { return KindGameOver }

// SessionStarted is published when a new session enters Playing.
type SessionStarted struct {
	SessionID  string
	Difficulty save.Difficulty
}

func (SessionStarted) Kind() Kind { return KindSessionStarted }

// SettingsChanged carries the settings after a successful change.
type SettingsChanged struct {
	Settings   save.Settings
	PlayerName string
}

func (SettingsChanged) Kind() Kind { return KindSettingsChanged }
