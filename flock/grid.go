// Package flock runs a toroidal grid of colour "boids".
//
// Every cell treats its colour as a position in RGB space and carries a
// velocity in that space. Each step it is pulled toward the average colour of
// its four neighbours (cohesion), pushed away from neighbours of a similar
// colour (separation) and steered toward its neighbours' velocities
// (alignment).
//
// Colours are double buffered: a step reads only the current buffer and
// writes only the next one, then the two swap. Velocities are updated in place
// in a second pass, after every acceleration has been computed, so no cell
// ever sees a value written earlier in the same step.
package flock

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"sync"
	"time"

	"github.com/scottkirkwood/flockart"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidDimensions is returned by New for a non-positive width or height.
var ErrInvalidDimensions = errors.New("flock: grid dimensions must be positive")

// Grid is the simulation state. It is not safe for concurrent use; the host
// calls Step and RenderInto from one goroutine.
type Grid struct {
	width, height int

	cur, next []RGB
	vel       []r3.Vec
	accel     []r3.Vec // scratch, rewritten every step

	weights  Weights
	osc      *Oscillation
	friction float64
	workers  int

	// stepWeights is what the current step uses, fixed before the first pass.
	stepWeights Weights
	steps       int
}

// New allocates a width*height grid. Every colour is p.Base plus a little
// jitter and every cell starts with the same random velocity, so the whole
// field drifts one way before it breaks up.
func New(p Params, rng *rand.Rand) (*Grid, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	n := p.Width * p.Height
	g := &Grid{
		width:    p.Width,
		height:   p.Height,
		cur:      make([]RGB, n),
		next:     make([]RGB, n),
		vel:      make([]r3.Vec, n),
		accel:    make([]r3.Vec, n),
		weights:  p.Weights,
		osc:      p.Oscillation,
		friction: p.Friction,
		workers:  p.Workers,
	}
	for i := range g.cur {
		var c RGB
		for ch := range c {
			jitter := 0
			if p.Jitter > 0 {
				jitter = rng.Intn(p.Jitter)
			}
			c[ch] = uint8(flockart.ClampInt(int(p.Base[ch])+jitter, 0, 255))
		}
		g.cur[i] = c
	}
	dir := r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	for i := range g.vel {
		g.vel[i] = dir
	}
	return g, nil
}

// Width of the grid in cells.
func (g *Grid) Width() int { return g.width }

// Height of the grid in cells.
func (g *Grid) Height() int { return g.height }

// Steps is how many times Step has run.
func (g *Grid) Steps() int { return g.steps }

func (g *Grid) index(x, y int) int {
	x = ((x % g.width) + g.width) % g.width
	y = ((y % g.height) + g.height) % g.height
	return y*g.width + x
}

// Neighbors returns the linear indices of the cells above, below, left and
// right of (x, y), wrapping at the edges.
func (g *Grid) Neighbors(x, y int) [4]int {
	return [4]int{
		g.index(x, y-1),
		g.index(x, y+1),
		g.index(x-1, y),
		g.index(x+1, y),
	}
}

// Color returns the current colour at (x, y).
func (g *Grid) Color(x, y int) RGB {
	return g.cur[g.index(x, y)]
}

// Velocity returns the velocity at (x, y).
func (g *Grid) Velocity(x, y int) r3.Vec {
	return g.vel[g.index(x, y)]
}

// SetColor overwrites the current colour at (x, y).
func (g *Grid) SetColor(x, y int, c RGB) {
	g.cur[g.index(x, y)] = c
}

// SetVelocity overwrites the velocity at (x, y).
func (g *Grid) SetVelocity(x, y int, v r3.Vec) {
	g.vel[g.index(x, y)] = v
}

// SetWeights fixes the force weights, dropping any oscillation.
func (g *Grid) SetWeights(w Weights) {
	g.weights = w
	g.osc = nil
}

// Weights returns the force weights in effect elapsed into the run.
func (g *Grid) Weights(elapsed time.Duration) Weights {
	if g.osc == nil {
		return g.weights
	}
	return Weights{
		Cohesion:   g.osc.Cohesion.At(elapsed),
		Separation: g.osc.Separation.At(elapsed),
		Alignment:  g.osc.Alignment.At(elapsed),
	}
}

// Snapshot appends a copy of the current colours to dst[:0], row by row.
func (g *Grid) Snapshot(dst []RGB) []RGB {
	return append(dst[:0], g.cur...)
}

// Step advances the grid by one tick. elapsed only matters when the weights
// oscillate.
func (g *Grid) Step(elapsed time.Duration) {
	g.stepWeights = g.Weights(elapsed)
	g.run(passAccelerate)
	g.run(passIntegrate)
	g.cur, g.next = g.next, g.cur
	g.steps++
}

// RenderInto copies the current colours into dst, cell (x, y) landing on
// dst.Bounds().Min + (x, y). Cells outside dst are skipped.
func (g *Grid) RenderInto(dst draw.Image) {
	b := dst.Bounds()
	rgba, _ := dst.(*image.RGBA)
	for y := 0; y < g.height && b.Min.Y+y < b.Max.Y; y++ {
		for x := 0; x < g.width && b.Min.X+x < b.Max.X; x++ {
			c := g.cur[y*g.width+x]
			col := color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
			if rgba != nil {
				rgba.SetRGBA(b.Min.X+x, b.Min.Y+y, col)
			} else {
				dst.Set(b.Min.X+x, b.Min.Y+y, col)
			}
		}
	}
}

type pass int

const (
	passAccelerate pass = iota
	passIntegrate
)

func (g *Grid) apply(p pass, lo, hi int) {
	switch p {
	case passAccelerate:
		for i := lo; i < hi; i++ {
			g.accelerate(i)
		}
	case passIntegrate:
		for i := lo; i < hi; i++ {
			g.integrate(i)
		}
	}
}

// run applies p to every cell, in row bands when there is more than one
// worker. Each band only writes its own cells.
func (g *Grid) run(p pass) {
	workers := min(g.workers, g.height)
	if workers <= 1 {
		g.apply(p, 0, len(g.cur))
		return
	}
	band := (g.height + workers - 1) / workers
	var wg sync.WaitGroup
	for y := 0; y < g.height; y += band {
		lo, hi := y*g.width, min(y+band, g.height)*g.width
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.apply(p, lo, hi)
		}()
	}
	wg.Wait()
}

// forces returns the unit cohesion, separation and alignment vectors for
// cell i, read from the current buffer.
func (g *Grid) forces(i int) (coh, sep, ali r3.Vec) {
	nb := g.Neighbors(i%g.width, i/g.width)
	self := toVec(g.cur[i])
	var sum r3.Vec
	for _, n := range nb {
		other := toVec(g.cur[n])
		sum = r3.Add(sum, other)
		if f, ok := inverseCube(r3.Sub(self, other)); ok {
			sep = r3.Add(sep, f)
		}
		if f, ok := inverseCube(r3.Sub(g.vel[n], g.vel[i])); ok {
			ali = r3.Add(ali, f)
		}
	}
	coh = normalize(r3.Sub(r3.Scale(1/float64(len(nb)), sum), self))
	return coh, normalize(sep), normalize(ali)
}

func (g *Grid) accelerate(i int) {
	coh, sep, ali := g.forces(i)
	w := g.stepWeights
	g.accel[i] = r3.Add(
		r3.Add(r3.Scale(w.Cohesion, coh), r3.Scale(w.Separation, sep)),
		r3.Scale(w.Alignment, ali),
	)
}

func (g *Grid) integrate(i int) {
	v := r3.Scale(g.friction, r3.Add(g.vel[i], g.accel[i]))
	g.vel[i] = v
	c := g.cur[i]
	g.next[i] = RGB{drift(c[0], v.X), drift(c[1], v.Y), drift(c[2], v.Z)}
}
