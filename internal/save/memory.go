package save

import (
	"errors"
	"sync"
)

// MemoryBackend keeps the payload in memory. Used by tests and by the CLI
// when persistence is disabled.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte

	// FailWrites makes Write and Delete fail, simulating a full or read-only disk.
	FailWrites bool
	// FailReads makes Read fail with ErrInjected while the payload stays intact.
	FailReads bool
	Writes     int
}

// ErrInjected is returned by MemoryBackend when FailWrites or FailReads is set.
var ErrInjected = errors.New("save: injected write failure")

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrInjected
	}
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBackend) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.data = append([]byte(nil), data...)
	m.Writes++
	return nil
}

func (m *MemoryBackend) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrInjected
	}
	m.data = nil
	return nil
}

// SetFailWrites toggles write failures.
func (m *MemoryBackend) SetFailWrites(fail bool) {
	m.mu.Lock()
	m.FailWrites = fail
	m.mu.Unlock()
}

// SetFailReads toggles read failures.
func (m *MemoryBackend) SetFailReads(fail bool) {
	m.mu.Lock()
	m.FailReads = fail
	m.mu.Unlock()
}

// Raw replaces the stored payload without encoding, e.g. to plant garbage.
func (m *MemoryBackend) Raw(data []byte) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}
