package game

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Pipe is a vertical obstacle with a gap the bird flies through.
type Pipe struct {
	X         float64 // left edge, sub-cell so slow speeds still move
	GapY      int     // first row of the gap
	GapHeight int
	Passed    bool
}

// Col returns the pipe's left column.
func (p Pipe) Col() int { return int(p.X) }

// TopRect is the collision box above the gap.
func (p Pipe) TopRect(width int) Rect {
	return NewRect(p.Col(), 0, width, p.GapY)
}

// BottomRect is the collision box below the gap, down to floorY.
func (p Pipe) BottomRect(width, floorY int) Rect {
	y := p.GapY + p.GapHeight
	return NewRect(p.Col(), y, width, floorY-y)
}

// pipeField spawns, moves and retires pipes.
type pipeField struct {
	pipes  []Pipe
	rng    *rand.Rand
	width  int
	floorY int
	cfg    config.FlappyObstacles
	speed  float64
	ramp   *config.Ramp
}

func newPipeField(seed int64, width, floorY int, cfg config.FlappyObstacles, speed float64, ramp *config.Ramp) *pipeField {
	pf := &pipeField{
		pipes:  make([]Pipe, 0, 8),
		width:  width,
		floorY: floorY,
		cfg:    cfg,
		speed:  speed,
		ramp:   ramp,
	}
	pf.reset(seed)
	return pf
}

func (pf *pipeField) reset(seed int64) {
	pf.pipes = pf.pipes[:0]
	pf.rng = rand.New(rand.NewSource(seed))
}

// update moves pipes left and spawns new ones. It returns the number of
// pipes whose right edge went past birdX this tick.
func (pf *pipeField) update(birdX, score, ticks int) int {
	speed := pf.ramp.Speed(pf.speed, score, ticks)
	w := pf.cfg.PipeWidth

	passed := 0
	kept := pf.pipes[:0]
	for _, p := range pf.pipes {
		p.X -= speed
		if !p.Passed && p.Col()+w < birdX {
			p.Passed = true
			passed++
		}
		if p.Col()+w > 0 {
			kept = append(kept, p)
		}
	}
	pf.pipes = kept

	spacing := pf.ramp.Spacing(pf.cfg.PipeSpacing, score, ticks)
	if len(pf.pipes) == 0 || pf.pipes[len(pf.pipes)-1].Col() < pf.width-spacing {
		pf.spawn(score, ticks)
	}
	return passed
}

func (pf *pipeField) spawn(score, ticks int) {
	minGap := pf.cfg.MinGapSize
	gap := max(pf.ramp.GapSize(pf.cfg.MaxGapSize, score, ticks), minGap)

	height := minGap
	if gap > minGap {
		height = minGap + pf.rng.Intn(gap-minGap+1)
	}

	lo := pf.cfg.TopMargin
	hi := max(pf.floorY-pf.cfg.BottomMargin-height, lo)
	gapY := lo
	if hi > lo {
		gapY = lo + pf.rng.Intn(hi-lo+1)
	}

	pf.pipes = append(pf.pipes, Pipe{X: float64(pf.width), GapY: gapY, GapHeight: height})
}

func (pf *pipeField) collides(r Rect) bool {
	w := pf.cfg.PipeWidth
	for _, p := range pf.pipes {
		if r.Intersects(p.TopRect(w)) || r.Intersects(p.BottomRect(w, pf.floorY)) {
			return true
		}
	}
	return false
}
