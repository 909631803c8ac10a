package save

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrPersist wraps any failure to make a record durable.
var ErrPersist = errors.New("save: persist failed")

// ErrUnreadable is returned by Load when the backend holds a record that could
// not be read. Until a later Load succeeds, Save refuses to write so the
// stored record is not replaced by in-memory defaults.
var ErrUnreadable = errors.New("save: record unreadable")

// ErrHistoryUnsupported is returned by History when the backend keeps no session log.
var ErrHistoryUnsupported = errors.New("save: backend does not keep session history")

// Backend stores one encoded record.
//
// Write must replace the previous payload atomically: a reader never observes
// a partially written payload. Delete on a missing record is not an error.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Delete() error
}

// SessionEntry is one finished session, kept by backends that log history.
type SessionEntry struct {
	ID          string
	Score       int
	Duration    time.Duration
	PipesPassed int
	Cause       string
	EndedAt     time.Time
}

// SessionLog is implemented by backends that keep a session history.
type SessionLog interface {
	AppendSession(e SessionEntry) error
	RecentSessions(limit int) ([]SessionEntry, error)
	TopSessions(limit int) ([]SessionEntry, error)
}

// Gateway is the only component that touches durable storage.
type Gateway struct {
	backend Backend
	logger  *log.Logger
	mu      sync.Mutex

	// held is set while the stored record is unreadable.
	held bool
}

// NewGateway wraps a backend. A nil logger discards output.
func NewGateway(b Backend, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gateway{backend: b, logger: logger}
}

// Load returns the stored record, or the defaults when the record is missing
// or corrupt. In the latter cases the defaults are written back so they become
// the new durable baseline. The returned record is always usable.
//
// When the backend fails to read, Load returns the defaults with an error
// wrapping ErrUnreadable and holds further saves until a Load succeeds.
// Any other error only reports that the baseline could not be persisted.
func (g *Gateway) Load() (Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := g.backend.Read()
	g.held = false
	switch {
	case errors.Is(err, ErrNotFound):
		g.logger.Info("no save record, creating defaults")
		return g.writeDefaults()
	case err != nil:
		// The record may still be intact; do not overwrite it.
		g.held = true
		g.logger.Warn("save record unreadable, saving held", "error", err)
		return Default(), fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		g.logger.Warn("save record corrupt, starting fresh", "error", err)
		return g.writeDefaults()
	}
	g.logger.Debug("save record loaded", "games", rec.Statistics.GamesPlayed, "high_score", rec.Statistics.HighScore)
	return rec, nil
}

// Save makes r durable before returning. Failures wrap ErrPersist.
func (g *Gateway) Save(r Record) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return fmt.Errorf("%w: %w", ErrPersist, ErrUnreadable)
	}
	return g.write(r)
}

// Reset deletes the stored record and writes fresh defaults. A successful
// delete lifts the hold set by an unreadable Load.
func (g *Gateway) Reset() (Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.backend.Delete(); err != nil {
		g.logger.Error("cannot delete save record", "error", err)
		return Default(), fmt.Errorf("%w: delete: %v", ErrPersist, err)
	}
	g.held = false
	g.logger.Info("save record deleted")
	return g.writeDefaults()
}

// RecordSession appends e to the backend's session history, if it keeps one.
func (g *Gateway) RecordSession(e SessionEntry) error {
	sl, ok := g.backend.(SessionLog)
	if !ok {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := sl.AppendSession(e); err != nil {
		return fmt.Errorf("%w: session log: %v", ErrPersist, err)
	}
	return nil
}

// History returns up to limit recent sessions, newest first.
func (g *Gateway) History(limit int) ([]SessionEntry, error) {
	sl, ok := g.backend.(SessionLog)
	if !ok {
		return nil, ErrHistoryUnsupported
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return sl.RecentSessions(limit)
}

// Best returns up to limit highest scoring sessions.
func (g *Gateway) Best(limit int) ([]SessionEntry, error) {
	sl, ok := g.backend.(SessionLog)
	if !ok {
		return nil, ErrHistoryUnsupported
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return sl.TopSessions(limit)
}

func (g *Gateway) writeDefaults() (Record, error) {
	rec := Default()
	if err := g.write(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (g *Gateway) write(r Record) error {
	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := g.backend.Write(data); err != nil {
		g.logger.Error("save failed", "error", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
