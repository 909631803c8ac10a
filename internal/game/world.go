// Package game is the deterministic flappy simulation: a bird, gravity and
// a stream of pipes on a terminal-sized grid. It knows nothing about scores
// beyond reporting passed pipes, and nothing about persistence.
package game

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Crash says what ended a run.
type Crash int

const (
	CrashNone Crash = iota
	CrashPipe
	CrashGround
	CrashCeiling
)

func (c Crash) String() string {
	switch c {
	case CrashNone:
		return "none"
	case CrashPipe:
		return "pipe"
	case CrashGround:
		return "ground"
	case CrashCeiling:
		return "ceiling"
	default:
		return "unknown"
	}
}

// StepResult is what one tick produced.
type StepResult struct {
	Passed int   // pipes cleared this tick
	Crash  Crash // CrashNone while flying
}

// Crashed reports whether the tick ended the run.
func (r StepResult) Crashed() bool { return r.Crash != CrashNone }

// Visual characters.
const (
	BirdChar      = '▶'
	BirdBodyChar  = '●'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
)

// World is one run of the simulation.
type World struct {
	cfg    config.FlappyConfig
	width  int
	height int
	seed   int64

	birdY   float64
	birdVel float64
	pipes   *pipeField
	passed  int
	ticks   int
	crash   Crash
}

// NewWorld creates a world of width x height cells. The bottom row is the
// ground line.
func NewWorld(cfg config.FlappyConfig, width, height int, seed int64) *World {
	w := &World{cfg: cfg, width: width, height: height}
	w.pipes = newPipeField(seed, width, w.floorY(), cfg.Obstacles, cfg.Physics.BaseSpeed, config.NewRamp(cfg.Difficulty))
	w.Reset(seed)
	return w
}

// Reset starts a new run with seed.
func (w *World) Reset(seed int64) {
	w.seed = seed
	w.birdY = float64(w.height) / 2.0
	w.birdVel = 0
	w.passed = 0
	w.ticks = 0
	w.crash = CrashNone
	w.pipes.reset(seed)
}

// Resize changes the field size and restarts the run.
func (w *World) Resize(width, height int) {
	w.width, w.height = width, height
	w.pipes.width = width
	w.pipes.floorY = w.floorY()
	w.Reset(w.seed)
}

// Step advances one tick. After a crash it does nothing.
func (w *World) Step(flap bool) StepResult {
	if w.crash != CrashNone {
		return StepResult{Crash: w.crash}
	}
	w.ticks++

	p := w.cfg.Physics
	if flap {
		w.birdVel = p.JumpImpulse
	}
	w.birdVel = min(w.birdVel+p.Gravity, p.MaxFallSpeed)
	w.birdY += w.birdVel

	passed := w.pipes.update(w.cfg.Player.X, w.passed, w.ticks)
	w.passed += passed

	bird := w.Bird()
	switch {
	case w.birdY < 0:
		w.birdY = 0
		w.crash = CrashCeiling
	case bird.Bottom() >= w.floorY():
		w.birdY = float64(w.floorY() - w.cfg.Player.Height)
		w.crash = CrashGround
	case w.pipes.collides(bird):
		w.crash = CrashPipe
	}

	return StepResult{Passed: passed, Crash: w.crash}
}

// Bird returns the bird's collision box.
func (w *World) Bird() Rect {
	pl := w.cfg.Player
	return NewRect(pl.X, int(w.birdY), pl.Width, pl.Height)
}

// Pipes returns the live pipes, left to right.
func (w *World) Pipes() []Pipe { return w.pipes.pipes }

// Passed returns the pipes cleared this run.
func (w *World) Passed() int { return w.passed }

// Ticks returns the ticks simulated this run.
func (w *World) Ticks() int { return w.ticks }

// Crash returns what ended the run, or CrashNone.
func (w *World) Crash() Crash { return w.crash }

// Size returns the field dimensions.
func (w *World) Size() (int, int) { return w.width, w.height }

func (w *World) floorY() int { return w.height - 1 }

// Draw renders the field into c, which should match the world size.
func (w *World) Draw(c *Canvas) {
	c.Clear()
	floor := w.floorY()
	c.HLine(0, floor, c.Width(), GroundChar)

	pw := w.cfg.Obstacles.PipeWidth
	for _, p := range w.pipes.pipes {
		c.Fill(p.TopRect(pw), PipeChar)
		c.Fill(p.BottomRect(pw, floor), PipeChar)
		if p.GapY > 0 {
			c.HLine(p.Col(), p.GapY-1, pw, PipeCapTop)
		}
		if y := p.GapY + p.GapHeight; y < floor {
			c.HLine(p.Col(), y, pw, PipeCapBottom)
		}
	}

	b := w.Bird()
	c.Fill(b, BirdBodyChar)
	c.Set(b.Right()-1, b.Y, BirdChar)
}
