package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/progress"
	"github.com/vovakirdan/tui-flappy/internal/save"
)

func newTestModel(t *testing.T, cfg config.AppConfig) (*Model, *save.Gateway) {
	t.Helper()
	gw := save.NewGateway(save.NewMemoryBackend(), nil)
	rec, err := gw.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	g, err := progress.New(gw, rec, nil, nil)
	if err != nil {
		t.Fatalf("progress.New() failed: %v", err)
	}
	m := NewModel(g, cfg, Options{Width: 80, Height: 27, Seed: 99}, nil)
	t.Cleanup(m.Close)
	return m, gw
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func tick(m *Model, n int) {
	now := m.now
	for i := 0; i < n; i++ {
		now = now.Add(frameDuration(m.cfg.Game.TickRate))
		m.Update(TickMsg(now))
	}
}

func TestFlapStartsSession(t *testing.T) {
	m, _ := newTestModel(t, config.Default())
	s := m.game.Session

	if s.State() != progress.Idle {
		t.Fatalf("Expected idle on launch, got %s", s.State())
	}
	m.Update(keyRune('w'))
	if s.State() != progress.Playing {
		t.Fatalf("Flap should start a session, got %s", s.State())
	}
}

func TestCrashEndsSession(t *testing.T) {
	m, gw := newTestModel(t, config.Default())
	m.Update(keyRune('w'))

	tick(m, 60) // no flaps: the bird falls
	s := m.game.Session
	if s.State() != progress.GameOver {
		t.Fatalf("Expected game over, got %s", s.State())
	}
	if out := s.LastOutcome(); out.Cause != progress.CauseGround {
		t.Errorf("Expected ground crash, got %s", out.Cause)
	}

	rec, _ := gw.Load()
	if rec.Statistics.GamesPlayed != 1 {
		t.Errorf("Expected 1 persisted game, got %d", rec.Statistics.GamesPlayed)
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("View should show the game over box")
	}
	found := false
	for _, to := range m.toasts {
		if strings.Contains(to.text, "First Flight") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a First Flight toast, got %+v", m.toasts)
	}
}

func TestScoreFollowsPassedPipes(t *testing.T) {
	cfg := config.Default()
	cfg.Flappy.Physics.Gravity = 0
	cfg.Flappy.Physics.JumpImpulse = 0
	cfg.Flappy.Obstacles.TopMargin = 0
	cfg.Flappy.Obstacles.BottomMargin = 0
	cfg.Flappy.Obstacles.MinGapSize = 23
	cfg.Flappy.Obstacles.MaxGapSize = 23
	cfg.Flappy.Difficulty.Enabled = false

	m, _ := newTestModel(t, cfg)
	m.Update(keyRune('w'))
	tick(m, 400)

	s := m.game.Session
	if s.State() != progress.Playing {
		t.Fatalf("Hovering bird should still be playing, got %s", s.State())
	}
	if s.Score() == 0 || s.Score() != m.world.Passed() {
		t.Errorf("Score %d should match passed pipes %d", s.Score(), m.world.Passed())
	}
	if s.Elapsed() != 400*frameDuration(60) {
		t.Errorf("Expected elapsed %v, got %v", 400*frameDuration(60), s.Elapsed())
	}
}

func TestQuitMidRunKeepsScore(t *testing.T) {
	m, gw := newTestModel(t, config.Default())
	m.Update(keyRune('w'))
	tick(m, 3)

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("Quit should return a command")
	}
	s := m.game.Session
	if s.State() != progress.GameOver || s.LastOutcome().Cause != progress.CauseQuit {
		t.Errorf("Quit should end the run with cause quit, got %s/%s", s.State(), s.LastOutcome().Cause)
	}
	rec, _ := gw.Load()
	if rec.Statistics.GamesPlayed != 1 {
		t.Errorf("Quit run should be recorded, got %d games", rec.Statistics.GamesPlayed)
	}
	if m.View() != "" {
		t.Error("View should be empty after quitting")
	}
}

func TestPauseStopsClock(t *testing.T) {
	m, _ := newTestModel(t, config.Default())
	m.Update(keyRune('w'))
	m.Update(keyRune('p'))
	tick(m, 30)

	if m.game.Session.Elapsed() != 0 {
		t.Errorf("Paused session should not advance, got %v", m.game.Session.Elapsed())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("View should show the pause banner")
	}
}

func TestRestartAndMenuFromGameOver(t *testing.T) {
	m, _ := newTestModel(t, config.Default())
	s := m.game.Session
	m.Update(keyRune('w'))
	tick(m, 300)

	first := s.SessionID()
	m.Update(keyRune('r'))
	if s.State() != progress.Playing || s.SessionID() == first {
		t.Fatalf("Restart should begin a new session, got %s", s.State())
	}
	tick(m, 300)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.State() != progress.Idle {
		t.Errorf("Esc should return to the title screen, got %s", s.State())
	}
	if m.game.Ledger.Statistics().GamesPlayed != 2 {
		t.Errorf("Expected 2 games, got %d", m.game.Ledger.Statistics().GamesPlayed)
	}
}

func TestMuteTogglePersists(t *testing.T) {
	m, gw := newTestModel(t, config.Default())
	m.Update(keyRune('m'))

	rec, _ := gw.Load()
	if !rec.Settings.Muted {
		t.Error("Mute should be persisted")
	}
	if !strings.Contains(m.viewHUD(), "muted") {
		t.Error("HUD should show muted")
	}
}

func TestToastsExpire(t *testing.T) {
	m, _ := newTestModel(t, config.Default())
	m.push("hello")
	m.Update(TickMsg(m.now.Add(toastDuration + time.Millisecond)))
	if len(m.toasts) != 0 {
		t.Errorf("Expected toasts to expire, got %d", len(m.toasts))
	}
}

func TestCauseForCrash(t *testing.T) {
	if causeFor(0) != progress.CausePipe {
		t.Error("Unknown crash should map to pipe")
	}
}
