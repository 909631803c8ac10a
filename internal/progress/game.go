package progress

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

// Game bundles the components, built once at startup.
type Game struct {
	Profile      *Profile
	Settings     *SettingsStore
	Ledger       *Ledger
	Achievements *Engine
	Session      *Controller
	Bus          *notify.Bus
}

// New builds every component over rec with the built-in catalog.
func New(store Store, rec save.Record, bus *notify.Bus, logger *log.Logger) (*Game, error) {
	return NewWithCatalog(store, rec, Catalog(), bus, logger)
}

// NewWithCatalog is New with a custom achievement catalog.
func NewWithCatalog(store Store, rec save.Record, defs []Definition, bus *notify.Bus, logger *log.Logger) (*Game, error) {
	if bus == nil {
		bus = notify.NewBus(logger)
	}
	profile := NewProfile(store, rec, logger)
	settings := NewSettingsStore(profile, bus, logger)
	ledger := NewLedger(profile, bus, logger)
	engine, err := NewEngine(defs, profile, bus, logger)
	if err != nil {
		return nil, err
	}
	return &Game{
		Profile:      profile,
		Settings:     settings,
		Ledger:       ledger,
		Achievements: engine,
		Session:      NewController(ledger, engine, settings, profile, bus, logger),
		Bus:          bus,
	}, nil
}
