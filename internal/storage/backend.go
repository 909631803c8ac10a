package storage

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Backend kinds accepted in configuration.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// OpenBackend opens the backend named by kind at path.
// The returned close function is never nil.
func OpenBackend(kind, path string) (save.Backend, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case KindFile, "":
		fb, err := NewFileBackend(path)
		if err != nil {
			return nil, noop, err
		}
		return fb, noop, nil
	case KindSQLite:
		st, err := Open(path)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case KindMemory:
		return save.NewMemoryBackend(), noop, nil
	default:
		return nil, noop, fmt.Errorf("storage: unknown backend %q", kind)
	}
}
