package config

import "math"

// Ramp computes in-run tuning from the score or elapsed ticks.
type Ramp struct {
	cfg DifficultyConfig
}

// NewRamp creates a ramp for cfg. InitialLevel is clamped to [0,1].
func NewRamp(cfg DifficultyConfig) *Ramp {
	cfg.InitialLevel = clampF(cfg.InitialLevel, 0.0, 1.0)
	return &Ramp{cfg: cfg}
}

// Enabled reports whether the ramp moves at all.
func (r *Ramp) Enabled() bool {
	return r.cfg.Enabled && r.cfg.Progression.Type != "none"
}

// Level returns the current level in [InitialLevel, 1].
func (r *Ramp) Level(score, ticks int) float64 {
	if !r.Enabled() {
		return r.cfg.InitialLevel
	}

	maxAt := float64(r.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch r.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return r.cfg.InitialLevel
	}
	progress = clampF(progress, 0.0, 1.0)

	return r.cfg.InitialLevel + progress*(1.0-r.cfg.InitialLevel)
}

// Speed scales base from base to base*(1+SpeedMultiplier) across the ramp.
func (r *Ramp) Speed(base float64, score, ticks int) float64 {
	return base * (1.0 + r.Level(score, ticks)*r.cfg.Scaling.SpeedMultiplier)
}

// GapSize shrinks the pipe gap, never below 4 rows.
func (r *Ramp) GapSize(base, score, ticks int) int {
	reduction := int(r.Level(score, ticks) * float64(r.cfg.Scaling.GapReduction))
	return max(base-reduction, 4)
}

// Spacing shrinks the distance between pipes, never below 15 columns.
func (r *Ramp) Spacing(base, score, ticks int) int {
	reduction := int(r.Level(score, ticks) * float64(r.cfg.Scaling.SpacingReduction))
	return max(base-reduction, 15)
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
