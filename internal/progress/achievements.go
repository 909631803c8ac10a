package progress

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Class is the rule that derives an achievement's progress from game events.
type Class int

const (
	// OneShot completes on the first evaluation (the first finished session).
	OneShot Class = iota
	// SessionThreshold tracks the best single-session score up to Required.
	SessionThreshold
	// LifetimeGames mirrors the lifetime games-played counter.
	LifetimeGames
	// LifetimeScore mirrors the lifetime total score.
	LifetimeScore
)

func (c Class) String() string {
	switch c {
	case OneShot:
		return "one-shot"
	case SessionThreshold:
		return "session"
	case LifetimeGames:
		return "lifetime-games"
	case LifetimeScore:
		return "lifetime-score"
	default:
		return "unknown"
	}
}

// Definition is an immutable catalog entry.
type Definition struct {
	ID          string
	Title       string
	Description string
	Required    int
	Class       Class
}

// Catalog returns the built-in achievements.
func Catalog() []Definition {
	return []Definition{
		{ID: "FIRST_FLIGHT", Title: "First Flight", Description: "Play your first game", Required: 1, Class: OneShot},
		{ID: "SCORE_10", Title: "Getting Started", Description: "Score 10 points in a single game", Required: 10, Class: SessionThreshold},
		{ID: "SCORE_50", Title: "High Flyer", Description: "Score 50 points in a single game", Required: 50, Class: SessionThreshold},
		{ID: "TOTAL_GAMES_100", Title: "Dedicated Player", Description: "Play 100 games", Required: 100, Class: LifetimeGames},
		{ID: "TOTAL_SCORE_1000", Title: "Score Master", Description: "Accumulate a total score of 1000", Required: 1000, Class: LifetimeScore},
	}
}

// Achievement is a read-only view of one achievement.
type Achievement struct {
	Definition
	Progress int
	Unlocked bool
}

// Fraction returns progress as a value in [0,1].
func (a Achievement) Fraction() float64 {
	if a.Required <= 0 {
		return 0
	}
	return float64(a.Progress) / float64(a.Required)
}

// Engine tracks achievement progress. Its state lives in the profile's
// Achievements slice, kept in catalog order.
type Engine struct {
	defs    []Definition
	index   map[string]int
	profile *Profile
	bus     *notify.Bus
	logger  *log.Logger
}

// NewEngine validates defs and hydrates progress from the profile. Persisted
// entries for unknown ids are dropped; progress is clamped to Required and an
// unlocked entry is forced to full progress.
func NewEngine(defs []Definition, profile *Profile, bus *notify.Bus, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if d.ID == "" {
			return nil, errors.New("progress: achievement with empty id")
		}
		if d.Required <= 0 {
			return nil, fmt.Errorf("progress: achievement %q requires %d", d.ID, d.Required)
		}
		if _, dup := index[d.ID]; dup {
			return nil, fmt.Errorf("progress: duplicate achievement %q", d.ID)
		}
		index[d.ID] = i
	}

	e := &Engine{
		defs:    append([]Definition(nil), defs...),
		index:   index,
		profile: profile,
		bus:     bus,
		logger:  logger,
	}
	e.hydrate()
	return e, nil
}

func (e *Engine) hydrate() {
	states := make([]save.AchievementProgress, len(e.defs))
	for i, d := range e.defs {
		st := save.AchievementProgress{ID: d.ID}
		if saved, ok := e.profile.record.Achievement(d.ID); ok {
			st.Unlocked = saved.Unlocked
			st.Progress = min(max(saved.Progress, 0), d.Required)
			if st.Unlocked {
				st.Progress = d.Required
			}
		}
		states[i] = st
	}
	e.profile.record.Achievements = states
}

// Evaluate updates progress from a finished session and the lifetime
// counters, flushes, and publishes one event per new unlock. It returns the
// achievements unlocked by this call. Already unlocked achievements are left
// untouched.
func (e *Engine) Evaluate(sessionScore, gamesPlayed, totalScore int) ([]Achievement, error) {
	unlocked := e.evaluate(sessionScore, gamesPlayed, totalScore)
	var err error
	if ferr := e.profile.Flush(); ferr != nil {
		err = fmt.Errorf("progress: save achievements: %w", ferr)
	}
	e.announce(unlocked)
	return unlocked, err
}

func (e *Engine) evaluate(sessionScore, gamesPlayed, totalScore int) []Achievement {
	var unlocked []Achievement
	states := e.profile.record.Achievements

	for i, d := range e.defs {
		st := &states[i]
		if st.Unlocked {
			continue
		}

		switch d.Class {
		case OneShot:
			st.Progress = d.Required
		case SessionThreshold:
			st.Progress = max(st.Progress, min(sessionScore, d.Required))
		case LifetimeGames:
			st.Progress = min(max(gamesPlayed, 0), d.Required)
		case LifetimeScore:
			st.Progress = min(max(totalScore, 0), d.Required)
		}

		if st.Progress >= d.Required {
			st.Progress = d.Required
			st.Unlocked = true
			unlocked = append(unlocked, e.view(i))
			e.logger.Info("achievement unlocked", "id", d.ID, "title", d.Title)
		}
	}
	return unlocked
}

func (e *Engine) announce(unlocked []Achievement) {
	if e.bus == nil {
		return
	}
	for _, a := range unlocked {
		e.bus.Publish(notify.AchievementUnlocked{ID: a.ID, Title: a.Title, Description: a.Description})
	}
}

// Reset clears all progress and unlock flags and persists the cleared state.
func (e *Engine) Reset() error {
	if err := e.profile.apply(func(*save.Record) { e.reset() }); err != nil {
		return fmt.Errorf("progress: save achievements: %w", err)
	}
	return nil
}

func (e *Engine) reset() {
	for i := range e.profile.record.Achievements {
		e.profile.record.Achievements[i].Unlocked = false
		e.profile.record.Achievements[i].Progress = 0
	}
	e.logger.Info("achievements reset")
}

// All returns every achievement in catalog order.
func (e *Engine) All() []Achievement {
	out := make([]Achievement, len(e.defs))
	for i := range e.defs {
		out[i] = e.view(i)
	}
	return out
}

// Get returns the achievement with id. Unknown ids report false.
func (e *Engine) Get(id string) (Achievement, bool) {
	i, ok := e.index[id]
	if !ok {
		return Achievement{}, false
	}
	return e.view(i), true
}

// UnlockedCount returns how many achievements are unlocked.
func (e *Engine) UnlockedCount() int {
	n := 0
	for _, st := range e.profile.record.Achievements {
		if st.Unlocked {
			n++
		}
	}
	return n
}

func (e *Engine) view(i int) Achievement {
	st := e.profile.record.Achievements[i]
	return Achievement{Definition: e.defs[i], Progress: st.Progress, Unlocked: st.Unlocked}
}
