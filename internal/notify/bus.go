package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Handler receives an event. A returned error is logged and reported by
// Publish but never stops delivery to later handlers.
type Handler func(Event) error

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is an ordered observer registry. Handlers for a kind are called in
// subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Kind][]subscriber
	logger *log.Logger
}

// NewBus creates an empty bus. A nil logger discards output.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{
		subs:   make(map[Kind][]subscriber),
		logger: logger,
	}
}

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	bus  *Bus
	kind Kind
	id   uint64
}

// Cancel removes the handler. Calling it more than once is harmless.
func (s Subscription) Cancel() {
	if s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	list := s.bus.subs[s.kind]
	for i, sub := range list {
		if sub.id == s.id {
			s.bus.subs[s.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Subscribe registers h for events of kind.
func (b *Bus) Subscribe(kind Kind, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[kind] = append(b.subs[kind], subscriber{id: b.nextID, handler: h})
	return Subscription{bus: b, kind: kind, id: b.nextID}
}

// Listen subscribes a typed handler that cannot fail.
func Listen[E Event](b *Bus, fn func(E)) Subscription {
	var zero E
	return b.Subscribe(zero.Kind(), func(ev Event) error {
		if e, ok := ev.(E); ok {
			fn(e)
		}
		return nil
	})
}

// Publish delivers ev to every subscriber of its kind. Handlers may
// subscribe or cancel during delivery; such changes apply to the next Publish.
// Failed or panicking handlers are isolated and their errors joined.
func (b *Bus) Publish(ev Event) error {
	b.mu.RLock()
	list := b.subs[ev.Kind()]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range snapshot {
		if err := deliver(sub.handler, ev); err != nil {
			b.logger.Warn("event handler failed", "kind", ev.Kind(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notify: handler panic: %v", r)
		}
	}()
	return h(ev)
}

// Len returns the number of subscribers for kind.
func (b *Bus) Len(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
