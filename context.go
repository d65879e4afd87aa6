package flockart

import (
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/pdf"
	"github.com/tdewolff/canvas/rasterizer"
	"github.com/tdewolff/canvas/svg"
)

// Context is my abstraction for vector output (PNG, SVG or PDF).
// Coordinates start at the top left like an image, not the bottom left like canvas.
type Context struct {
	c      *canvas.Canvas
	ctx    *canvas.Context
	height float64
}

func NewContext(width, height float64) *Context {
	ctx := &Context{
		c:      canvas.New(width, height),
		height: height,
	}
	ctx.ctx = canvas.NewContext(ctx.c)
	return ctx
}

// WritePNG writes to a PNG file
func (ctx *Context) WritePNG(fname string) error {
	return ctx.c.WriteFile(fname, rasterizer.PNGWriter(3.2))
}

// WriteSVG writes to an SVG file
func (ctx *Context) WriteSVG(fname string) error {
	return ctx.c.WriteFile(fname, svg.Writer)
}

// WritePDF writes to a PDF file
func (ctx *Context) WritePDF(fname string) error {
	return ctx.c.WriteFile(fname, pdf.Writer)
}

// Reset empties the canvas.
func (ctx *Context) Reset() {
	ctx.c.Reset()
}

func (ctx *Context) SetFillColor(col color.Color) {
	ctx.ctx.SetFillColor(col)
}

// FillRect fills a w by h rectangle whose top left corner is x,y.
func (ctx *Context) FillRect(x, y, w, h float64) {
	ctx.ctx.DrawPath(x, ctx.height-y-h, canvas.Rectangle(w, h))
}
