// Package progress holds the game's progression state: settings, lifetime
// statistics, achievements and the session state machine. Every mutation is
// flushed through the save gateway before the call that made it returns.
//
// The package assumes a single logical thread of control (the host's frame
// loop); components hold no locks of their own.
package progress

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Contract violations.
var (
	ErrInvalidTransition = errors.New("progress: invalid session transition")
	ErrNoActiveSession   = errors.New("progress: no active session")
	ErrSessionActive     = errors.New("progress: session in progress")
	ErrInvalidDifficulty = errors.New("progress: invalid difficulty")
	ErrInvalidValue      = errors.New("progress: invalid value")
)

// Store is the persistence surface the core needs. *save.Gateway implements it.
type Store interface {
	Save(r save.Record) error
	RecordSession(e save.SessionEntry) error
}

// Profile is the in-memory copy of the save record shared by the components.
// Each component only touches its own fields.
type Profile struct {
	store  Store
	record save.Record
	logger *log.Logger
}

// NewProfile wraps rec, normally the result of save.Gateway.Load.
func NewProfile(store Store, rec save.Record, logger *log.Logger) *Profile {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Profile{store: store, record: rec.Clone(), logger: logger}
}

// Snapshot returns a copy of the current record.
func (p *Profile) Snapshot() save.Record {
	return p.record.Clone()
}

// Flush writes the current record.
func (p *Profile) Flush() error {
	return p.store.Save(p.record)
}

// commit applies mutate to a copy and adopts it only if it was persisted.
func (p *Profile) commit(mutate func(*save.Record)) error {
	next := p.record.Clone()
	mutate(&next)
	if err := p.store.Save(next); err != nil {
		return err
	}
	p.record = next
	return nil
}

// apply mutates the record in place, then flushes. On failure the in-memory
// state is kept and the next successful flush carries it.
func (p *Profile) apply(mutate func(*save.Record)) error {
	mutate(&p.record)
	if err := p.Flush(); err != nil {
		p.logger.Warn("flush failed, keeping in-memory state", "error", err)
		return err
	}
	return nil
}
