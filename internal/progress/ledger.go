package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Ledger accumulates lifetime statistics and the running score of the
// current session.
type Ledger struct {
	profile *Profile
	bus     *notify.Bus
	logger  *log.Logger

	active        bool
	score         int
	pipes         int
	beatAnnounced bool
}

// NewLedger creates a ledger over profile.
func NewLedger(profile *Profile, bus *notify.Bus, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ledger{profile: profile, bus: bus, logger: logger}
}

// Statistics returns the lifetime totals.
func (l *Ledger) Statistics() save.Statistics {
	return l.profile.record.Statistics
}

// HighScore returns the stored high score.
func (l *Ledger) HighScore() int {
	return l.profile.record.Statistics.HighScore
}

// CurrentScore returns the running score of the current or last session.
func (l *Ledger) CurrentScore() int {
	return l.score
}

// PipesPassed returns the obstacles passed in the current or last session.
func (l *Ledger) PipesPassed() int {
	return l.pipes
}

// Active reports whether a session is accepting score increments.
func (l *Ledger) Active() bool {
	return l.active
}

func (l *Ledger) beginSession() {
	l.active = true
	l.score = 0
	l.pipes = 0
	l.beatAnnounced = false
}

func (l *Ledger) clearSession() {
	l.active = false
	l.score = 0
	l.pipes = 0
	l.beatAnnounced = false
}

// RecordScoreIncrement adds exactly one point. Outside an active session it
// does nothing and returns false.
func (l *Ledger) RecordScoreIncrement() bool {
	if !l.active {
		return false
	}
	l.score++
	l.pipes++
	l.publish(notify.ScoreChanged{Score: l.score})

	// A first-ever score has no record to beat.
	if !l.beatAnnounced && l.HighScore() > 0 && l.score > l.HighScore() {
		l.beatAnnounced = true
		l.publish(notify.HighScoreBeaten{HighScore: l.score})
	}
	return true
}

// FinalizeSession closes the active session, folds it into the lifetime
// totals and flushes. It returns the updated totals and whether finalScore
// set a new high score. Calling it without an active session is a contract
// violation.
func (l *Ledger) FinalizeSession(finalScore int, elapsed time.Duration, obstacles int) (save.Statistics, bool, error) {
	stats, newHigh, err := l.finalize(finalScore, elapsed, obstacles)
	if err != nil {
		return stats, newHigh, err
	}
	if err := l.profile.Flush(); err != nil {
		return stats, newHigh, fmt.Errorf("progress: save statistics: %w", err)
	}
	return stats, newHigh, nil
}

func (l *Ledger) finalize(finalScore int, elapsed time.Duration, obstacles int) (save.Statistics, bool, error) {
	if !l.active {
		return l.Statistics(), false, ErrNoActiveSession
	}
	if finalScore < 0 || obstacles < 0 || elapsed < 0 {
		return l.Statistics(), false, fmt.Errorf("%w: negative session totals", ErrInvalidValue)
	}
	l.active = false

	st := &l.profile.record.Statistics
	st.GamesPlayed++
	st.TotalScore += finalScore
	st.PipesPassed += obstacles
	if secs := elapsed.Seconds(); secs > st.BestTime {
		st.BestTime = secs
	}
	newHigh := finalScore > st.HighScore
	if newHigh {
		st.HighScore = finalScore
	}

	l.logger.Info("session finalized",
		"score", finalScore,
		"elapsed", elapsed.Round(time.Millisecond),
		"games", st.GamesPlayed,
		"high_score", st.HighScore,
		"new_high", newHigh,
	)
	return *st, newHigh, nil
}

func (l *Ledger) resetStatistics() {
	l.profile.record.Statistics = save.Statistics{}
}

func (l *Ledger) publish(ev notify.Event) {
	if l.bus != nil {
		l.bus.Publish(ev)
	}
}
