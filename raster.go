package flockart

import (
	"image"

	"github.com/fogleman/gg"
)

// Raster is a pixel canvas backed by gg.
type Raster struct {
	*gg.Context
}

// NewRaster makes a width by height pixel canvas.
func NewRaster(width, height int) *Raster {
	return &Raster{Context: gg.NewContext(width, height)}
}

// WritePNG writes to a PNG file
func (r *Raster) WritePNG(fname string) error {
	return r.SavePNG(fname)
}

// ClipCircle limits further drawing to the largest centred circle.
func (r *Raster) ClipCircle() {
	w, h := float64(r.Width()), float64(r.Height())
	radius := w
	if h < w {
		radius = h
	}
	r.DrawCircle(w/2, h/2, radius/2)
	r.Clip()
}

// Paint draws img at the origin, inside any clip.
func (r *Raster) Paint(img image.Image) {
	r.DrawImage(img, 0, 0)
}
