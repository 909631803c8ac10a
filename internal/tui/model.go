package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/game"
	"github.com/vovakirdan/tui-flappy/internal/notify"
	"github.com/vovakirdan/tui-flappy/internal/progress"
)

// Options controls a play session.
type Options struct {
	Width, Height int
	Seed          int64 // 0 = fresh seed every run
}

const (
	toastDuration = 3 * time.Second
	chromeRows    = 3 // HUD, toast line, help line
	maxToasts     = 3
)

type toast struct {
	text  string
	until time.Time
}

// Model is the Bubble Tea model for a play session. It drives the session
// controller from the simulation; all progression logic lives there.
type Model struct {
	game   *progress.Game
	cfg    config.AppConfig
	opts   Options
	logger *log.Logger

	world  *game.World
	canvas *game.Canvas
	keys   KeyMap
	help   help.Model
	subs   []notify.Subscription

	width    int
	height   int
	runs     int
	flap     bool
	paused   bool
	quitting bool
	now      time.Time
	toasts   []toast
	lastErr  error
}

// NewModel creates a model over g. Call Close when done with it.
func NewModel(g *progress.Game, cfg config.AppConfig, opts Options, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	m := &Model{
		game:   g,
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		keys:   DefaultKeyMap(),
		help:   h,
		width:  max(opts.Width, 20),
		height: max(opts.Height, chromeRows+5),
		now:    time.Now(),
	}
	m.help.Width = m.width
	m.canvas = game.NewCanvas(m.width, m.fieldHeight())
	m.world = game.NewWorld(m.flappyConfig(), m.width, m.fieldHeight(), m.nextSeed())

	m.subs = append(m.subs,
		notify.Listen(g.Bus, func(ev notify.AchievementUnlocked) {
			m.push("Achievement unlocked: " + ev.Title)
		}),
		notify.Listen(g.Bus, func(ev notify.HighScoreBeaten) {
			m.push(fmt.Sprintf("New high score: %d", ev.HighScore))
		}),
	)
	return m
}

// Close ends an in-flight session and drops the bus subscriptions. It is
// safe to call more than once.
func (m *Model) Close() {
	m.endInFlight()
	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
}

// Err returns the last persistence error seen while playing, if any.
func (m *Model) Err() error { return m.lastErr }

// Init starts the frame loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.cfg.Game.TickRate)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.game.Session

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.endInFlight()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Mute):
		if _, err := m.game.Settings.ToggleMute(); err != nil {
			m.fail("toggle mute", err)
		}

	case key.Matches(msg, m.keys.Pause):
		if s.State() == progress.Playing {
			m.paused = !m.paused
		}

	case key.Matches(msg, m.keys.Flap):
		switch s.State() {
		case progress.Idle:
			m.newRun()
			if err := s.StartSession(); err != nil {
				m.fail("start session", err)
			}
		case progress.Playing:
			m.flap = true
			m.paused = false
		}

	case key.Matches(msg, m.keys.Restart):
		if s.State() == progress.GameOver {
			m.newRun()
			if err := s.Restart(); err != nil {
				m.fail("restart session", err)
			}
		}

	case key.Matches(msg, m.keys.Menu):
		if s.State() == progress.GameOver {
			if err := s.ReturnToIdle(); err != nil {
				m.fail("return to title", err)
			}
		}
	}
	return m, nil
}

func (m *Model) handleResize(width, height int) {
	m.width, m.height = max(width, 20), max(height, chromeRows+5)
	m.help.Width = m.width
	// A running field keeps its size; the next run picks up the new one.
	if m.game.Session.State() != progress.Playing {
		m.canvas.Resize(m.width, m.fieldHeight())
		m.world.Resize(m.width, m.fieldHeight())
	}
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.now = now
	m.expireToasts()

	s := m.game.Session
	if s.State() == progress.Playing && !m.paused {
		res := m.world.Step(m.flap)
		s.Tick(frameDuration(m.cfg.Game.TickRate))
		for i := 0; i < res.Passed; i++ {
			s.RecordScoreIncrement()
		}
		if res.Crashed() {
			if _, err := s.EndSession(causeFor(res.Crash)); err != nil {
				m.fail("save session", err)
			}
		}
	}
	m.flap = false

	return m, tickCmd(m.cfg.Game.TickRate)
}

// newRun builds a fresh field at the current size and difficulty.
func (m *Model) newRun() {
	m.paused = false
	m.flap = false
	m.canvas.Resize(m.width, m.fieldHeight())
	m.world = game.NewWorld(m.flappyConfig(), m.width, m.fieldHeight(), m.nextSeed())
}

func (m *Model) endInFlight() {
	if m.game.Session.State() != progress.Playing {
		return
	}
	if _, err := m.game.Session.EndSession(progress.CauseQuit); err != nil {
		m.fail("save session on quit", err)
	}
}

func (m *Model) flappyConfig() config.FlappyConfig {
	return m.cfg.ForDifficulty(m.game.Settings.Difficulty())
}

func (m *Model) nextSeed() int64 {
	m.runs++
	if m.opts.Seed != 0 {
		return m.opts.Seed + int64(m.runs-1)
	}
	return time.Now().UnixNano()
}

func (m *Model) fieldHeight() int {
	return max(m.height-chromeRows, 5)
}

func (m *Model) fail(what string, err error) {
	m.lastErr = err
	m.logger.Error(what+" failed", "error", err)
	m.push("Progress not saved")
}

func (m *Model) push(text string) {
	m.toasts = append(m.toasts, toast{text: text, until: m.now.Add(toastDuration)})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func (m *Model) expireToasts() {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if m.now.Before(t.until) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func causeFor(c game.Crash) progress.Cause {
	switch c {
	case game.CrashGround:
		return progress.CauseGround
	case game.CrashCeiling:
		return progress.CauseCeiling
	default:
		return progress.CausePipe
	}
}

// View renders the current state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewHUD())
	b.WriteByte('\n')

	switch m.game.Session.State() {
	case progress.Idle:
		b.WriteString(m.place(m.viewTitle()))
	case progress.Playing:
		m.world.Draw(m.canvas)
		if m.paused {
			msg := " PAUSED - press p to resume "
			m.canvas.Text((m.canvas.Width()-len(msg))/2, m.canvas.Height()/2, msg)
		}
		b.WriteString(renderCanvas(m.canvas))
	case progress.GameOver:
		b.WriteString(m.place(m.viewGameOver()))
	}

	b.WriteByte('\n')
	b.WriteString(m.viewToasts())
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) place(s string) string {
	return lipgloss.Place(m.width, m.fieldHeight(), lipgloss.Center, lipgloss.Center, s)
}

func (m *Model) viewHUD() string {
	st := m.game.Settings
	sound := "sound on"
	if st.Muted() {
		sound = "muted"
	}
	return hudStyle.Render(fmt.Sprintf(" %s  |  Score %d  |  Best %d  |  %s  |  %s ",
		st.PlayerName(),
		m.game.Session.Score(),
		m.game.Ledger.HighScore(),
		st.Difficulty(),
		sound,
	))
}

func (m *Model) viewTitle() string {
	stats := m.game.Ledger.Statistics()
	lines := []string{
		titleStyle.Render("F L A P P Y"),
		"",
		fmt.Sprintf("High score %d  ·  Games %d  ·  Achievements %d/%d",
			stats.HighScore, stats.GamesPlayed,
			m.game.Achievements.UnlockedCount(), len(m.game.Achievements.All())),
		"",
		dimStyle.Render("Press space to flap"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewGameOver() string {
	out := m.game.Session.LastOutcome()
	lines := []string{
		titleStyle.Render("GAME OVER"),
		"",
		fmt.Sprintf("Score %d  ·  %s  ·  hit the %s", out.FinalScore, out.Elapsed.Round(100*time.Millisecond), out.Cause),
	}
	if out.NewHighScore {
		lines = append(lines, highlightText.Render("NEW HIGH SCORE!"))
	}
	for _, a := range out.Unlocked {
		lines = append(lines, highlightText.Render("Unlocked: "+a.Title))
	}
	lines = append(lines, "", dimStyle.Render("r play again  ·  esc title screen  ·  q quit"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	parts := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		parts[i] = toastStyle.Render(t.text)
	}
	return centerText(strings.Join(parts, " "), m.width)
}

// Run plays until the user quits. An in-flight session is ended with
// CauseQuit so its score is kept. Persistence failures during play are
// logged and shown, not returned.
func Run(g *progress.Game, cfg config.AppConfig, opts Options, logger *log.Logger) error {
	m := NewModel(g, cfg, opts, logger)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	if perr := m.Err(); perr != nil {
		m.logger.Warn("some progress was not saved", "error", perr)
	}
	return err
}
