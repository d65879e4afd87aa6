package flock

import (
	"time"

	"github.com/scottkirkwood/flockart"
)

// RGB is a cell colour, one byte per channel.
type RGB [3]uint8

// Weights scale the three flocking forces before they are summed.
type Weights struct {
	Cohesion   float64
	Separation float64
	Alignment  float64
}

// Wave is one slow sine oscillation between Min and Max.
type Wave struct {
	Phase    float64 // cycles
	PeriodMS float64
	Min, Max float64
}

// At returns the wave value elapsed into the run.
func (w Wave) At(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return flockart.TimeSine(w.Phase, w.PeriodMS, ms, w.Min, w.Max)
}

// Oscillation makes each weight drift over time instead of staying fixed.
type Oscillation struct {
	Cohesion   Wave
	Separation Wave
	Alignment  Wave
}

// DefaultOscillation is the slow drift used when oscillation is turned on.
func DefaultOscillation() *Oscillation {
	return &Oscillation{
		Cohesion:   Wave{Phase: 0.2, PeriodMS: 7000, Min: 1.45, Max: 1.85},
		Separation: Wave{Phase: 0.2, PeriodMS: 11000, Min: 1.2, Max: 1.5},
		Alignment:  Wave{Phase: 0.5, PeriodMS: 13000, Min: 0, Max: 12},
	}
}

// Params configure a Grid.
type Params struct {
	Width, Height int

	// Base is the starting colour; each channel gets rand.Intn(Jitter) added.
	Base   RGB
	Jitter int

	Weights Weights
	// Friction damps velocity every step and must be in (0,1).
	Friction float64
	// Oscillation overrides Weights when set.
	Oscillation *Oscillation

	// Workers splits each step across goroutines by rows. 0 or 1 runs inline.
	Workers int
}

// DefaultParams returns the classic look: a teal field drifting together.
func DefaultParams(width, height int) Params {
	return Params{
		Width:  width,
		Height: height,
		Base:   RGB{0x00, 0x88, 0xCC},
		Jitter: 2,
		Weights: Weights{
			Cohesion:   1.65,
			Separation: 1.4,
			Alignment:  9,
		},
		Friction: 0.96,
		Workers:  1,
	}
}
