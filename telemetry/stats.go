// Package telemetry summarises the grid each frame and writes the summaries
// out as CSV.
package telemetry

import (
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/scottkirkwood/flockart/flock"
)

// FrameStats is one row of frames.csv.
type FrameStats struct {
	Frame      int     `csv:"frame"`
	MeanR      float64 `csv:"mean_r"`
	MeanG      float64 `csv:"mean_g"`
	MeanB      float64 `csv:"mean_b"`
	StdR       float64 `csv:"std_r"`
	StdG       float64 `csv:"std_g"`
	StdB       float64 `csv:"std_b"`
	MeanSpeed  float64 `csv:"mean_speed"`
	MaxSpeed   float64 `csv:"max_speed"`
	Cohesion   float64 `csv:"cohesion"`
	Separation float64 `csv:"separation"`
	Alignment  float64 `csv:"alignment"`
}

// Collector reuses its buffers between frames.
type Collector struct {
	channels [3][]float64
	speeds   []float64
}

// Collect summarises g as it stands after frame.
func (c *Collector) Collect(frame int, g *flock.Grid, w flock.Weights) FrameStats {
	n := g.Width() * g.Height()
	for ch := range c.channels {
		c.channels[ch] = c.channels[ch][:0]
	}
	c.speeds = c.speeds[:0]

	maxSpeed := 0.0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			col := g.Color(x, y)
			for ch := range c.channels {
				c.channels[ch] = append(c.channels[ch], float64(col[ch]))
			}
			speed := r3.Norm(g.Velocity(x, y))
			c.speeds = append(c.speeds, speed)
			if speed > maxSpeed {
				maxSpeed = speed
			}
		}
	}

	s := FrameStats{
		Frame:      frame,
		MaxSpeed:   maxSpeed,
		Cohesion:   w.Cohesion,
		Separation: w.Separation,
		Alignment:  w.Alignment,
	}
	if n == 0 {
		return s
	}
	s.MeanR, s.StdR = meanStd(c.channels[0])
	s.MeanG, s.StdG = meanStd(c.channels[1])
	s.MeanB, s.StdB = meanStd(c.channels[2])
	s.MeanSpeed = stat.Mean(c.speeds, nil)
	return s
}

// meanStd is stat.MeanStdDev, except a single sample has no spread.
func meanStd(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// Spread is the mean per-channel standard deviation, a rough measure of how
// far the field is from a single colour.
func (s FrameStats) Spread() float64 {
	return (s.StdR + s.StdG + s.StdB) / 3
}
