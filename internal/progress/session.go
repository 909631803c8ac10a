package progress

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

// State is the session state.
type State int

const (
	Idle State = iota
	Playing
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Cause says why a session ended.
type Cause int

const (
	CausePipe Cause = iota
	CauseGround
	CauseCeiling
	CauseQuit
)

func (c Cause) String() string {
	switch c {
	case CausePipe:
		return "pipe"
	case CauseGround:
		return "ground"
	case CauseCeiling:
		return "ceiling"
	case CauseQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Outcome summarizes a finished session.
type Outcome struct {
	SessionID    string
	FinalScore   int
	PipesPassed  int
	Elapsed      time.Duration
	Cause        Cause
	NewHighScore bool
	Unlocked     []Achievement
	Statistics   save.Statistics
}

// Controller is the session state machine: Idle -> Playing -> GameOver -> Idle.
type Controller struct {
	ledger   *Ledger
	engine   *Engine
	settings *SettingsStore
	profile  *Profile
	bus      *notify.Bus
	logger   *log.Logger

	state     State
	sessionID string
	elapsed   time.Duration
	last      Outcome
	now       func() time.Time
}

// NewController wires the state machine to its collaborators.
func NewController(ledger *Ledger, engine *Engine, settings *SettingsStore, profile *Profile, bus *notify.Bus, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		ledger:   ledger,
		engine:   engine,
		settings: settings,
		profile:  profile,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// SessionID returns the id of the current or last session, or "" when idle.
func (c *Controller) SessionID() string { return c.sessionID }

// Elapsed returns the play time of the current or last session.
func (c *Controller) Elapsed() time.Duration { return c.elapsed }

// Score returns the running score.
func (c *Controller) Score() int { return c.ledger.CurrentScore() }

// LastOutcome returns the outcome of the most recent session.
func (c *Controller) LastOutcome() Outcome { return c.last }

// StartSession moves Idle -> Playing and zeroes the running score and clock.
func (c *Controller) StartSession() error {
	if c.state != Idle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.state)
	}

	c.state = Playing
	c.sessionID = uuid.NewString()
	c.elapsed = 0
	c.last = Outcome{}
	c.ledger.beginSession()

	c.logger.Info("session started", "session", c.sessionID, "difficulty", c.settings.Difficulty())
	c.publish(notify.SessionStarted{SessionID: c.sessionID, Difficulty: c.settings.Difficulty()})
	c.publish(notify.ScoreChanged{Score: 0})
	return nil
}

// Restart ends the GameOver screen and starts a new session.
func (c *Controller) Restart() error {
	if err := c.ReturnToIdle(); err != nil {
		return err
	}
	return c.StartSession()
}

// RecordScoreIncrement adds one point while Playing. Outside Playing it is ignored.
func (c *Controller) RecordScoreIncrement() {
	if c.state != Playing {
		return
	}
	c.ledger.RecordScoreIncrement()
}

// Tick advances the session clock by dt while Playing.
func (c *Controller) Tick(dt time.Duration) {
	if c.state != Playing || dt <= 0 {
		return
	}
	c.elapsed += dt
}

// EndSession moves Playing -> GameOver. The ledger, achievements, flush and
// notifications run exactly once per session; a repeated call returns the
// same outcome without side effects. Persistence failures are returned but
// do not stop the transition.
func (c *Controller) EndSession(cause Cause) (Outcome, error) {
	switch c.state {
	case GameOver:
		c.logger.Debug("end session ignored, already over", "session", c.sessionID, "cause", cause)
		return c.last, nil
	case Idle:
		return Outcome{}, fmt.Errorf("%w: end from idle", ErrInvalidTransition)
	}
	c.state = GameOver

	score := c.ledger.CurrentScore()
	pipes := c.ledger.PipesPassed()

	stats, newHigh, err := c.ledger.finalize(score, c.elapsed, pipes)
	if err != nil {
		return Outcome{}, err
	}
	unlocked := c.engine.evaluate(score, stats.GamesPlayed, stats.TotalScore)

	var errs []error
	if err := c.profile.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("progress: save session: %w", err))
	}
	entry := save.SessionEntry{
		ID:          c.sessionID,
		Score:       score,
		Duration:    c.elapsed,
		PipesPassed: pipes,
		Cause:       cause.String(),
		EndedAt:     c.now(),
	}
	if err := c.profile.store.RecordSession(entry); err != nil {
		c.logger.Warn("session history not recorded", "session", c.sessionID, "error", err)
		errs = append(errs, err)
	}

	c.last = Outcome{
		SessionID:    c.sessionID,
		FinalScore:   score,
		PipesPassed:  pipes,
		Elapsed:      c.elapsed,
		Cause:        cause,
		NewHighScore: newHigh,
		Unlocked:     unlocked,
		Statistics:   stats,
	}

	c.engine.announce(unlocked)
	c.publish(notify.GameOver{
		FinalScore:   score,
		NewHighScore: newHigh,
		Elapsed:      c.elapsed,
		Cause:        cause.String(),
	})

	c.logger.Info("session ended", "session", c.sessionID, "cause", cause, "score", score, "unlocked", len(unlocked))
	return c.last, errors.Join(errs...)
}

// ReturnToIdle moves GameOver -> Idle and clears session fields. Lifetime
// statistics are untouched. Calling it while Idle is a no-op.
func (c *Controller) ReturnToIdle() error {
	switch c.state {
	case Idle:
		return nil
	case Playing:
		return fmt.Errorf("%w: return to idle while playing", ErrInvalidTransition)
	}
	c.state = Idle
	c.sessionID = ""
	c.elapsed = 0
	c.ledger.clearSession()
	return nil
}

// ResetAllProgress zeroes statistics and achievements, keeping settings and
// the player name. It is refused while a session is being played.
func (c *Controller) ResetAllProgress() error {
	if c.state == Playing {
		return ErrSessionActive
	}
	c.last = Outcome{}
	err := c.profile.apply(func(*save.Record) {
		c.ledger.resetStatistics()
		c.engine.reset()
	})
	if err != nil {
		return fmt.Errorf("progress: save reset: %w", err)
	}
	c.logger.Info("progress reset")
	return nil
}

func (c *Controller) publish(ev notify.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}
