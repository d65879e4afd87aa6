package main

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/scottkirkwood/flockart"
	"github.com/scottkirkwood/flockart/flock"
)

// renderer turns the grid into output images, one square of scale pixels per
// cell with hard edges.
type renderer struct {
	scale  int
	circle bool

	cells  *image.RGBA // one pixel per cell
	scaled *image.RGBA
	ctx    *flockart.Context
}

func newRenderer(width, height, scale int, circle bool) *renderer {
	return &renderer{
		scale:  scale,
		circle: circle,
		cells:  image.NewRGBA(image.Rect(0, 0, width, height)),
		scaled: image.NewRGBA(image.Rect(0, 0, width*scale, height*scale)),
	}
}

// size of a rendered frame in pixels.
func (r *renderer) size() image.Point {
	return r.scaled.Bounds().Size()
}

// frame renders the grid into a fresh raster.
func (r *renderer) frame(g *flock.Grid) *flockart.Raster {
	g.RenderInto(r.cells)
	xdraw.NearestNeighbor.Scale(r.scaled, r.scaled.Bounds(), r.cells, r.cells.Bounds(), xdraw.Src, nil)

	sz := r.size()
	out := flockart.NewRaster(sz.X, sz.Y)
	out.SetColor(color.Black)
	out.Clear()
	if r.circle {
		out.ClipCircle()
	}
	out.Paint(r.scaled)
	return out
}

// vector draws the grid as one filled square per cell. The context is
// reused, so it is only valid until the next call.
func (r *renderer) vector(g *flock.Grid) *flockart.Context {
	s := float64(r.scale)
	if r.ctx == nil {
		r.ctx = flockart.NewContext(float64(g.Width())*s, float64(g.Height())*s)
	} else {
		r.ctx.Reset()
	}
	ctx := r.ctx
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.Color(x, y)
			ctx.SetFillColor(color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff})
			ctx.FillRect(float64(x)*s, float64(y)*s, s, s)
		}
	}
	return ctx
}
