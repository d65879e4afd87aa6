package flockart

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/setanarut/apng"
)

// ErrEmptyClip is returned when writing a clip that captured nothing.
var ErrEmptyClip = errors.New("clip has no frames")

// Clip records frames for an animated PNG (or GIF), stopping once Limit
// frames are held. A Limit of 0 records until the sketch stops it.
type Clip struct {
	Limit int

	delay  uint16 // 100ths of a second
	frames []image.Image
}

// NewClip returns a clip that plays back at roughly frameRate.
func NewClip(limit, frameRate int) *Clip {
	delay := 2 // most viewers slow anything faster than 50fps to 10fps
	if frameRate > 0 && 100/frameRate > delay {
		delay = 100 / frameRate
	}
	return &Clip{Limit: limit, delay: uint16(delay)}
}

// Len is the number of captured frames.
func (c *Clip) Len() int {
	return len(c.frames)
}

// Delay is the time each frame shows, in 100ths of a second.
func (c *Clip) Delay() int {
	return int(c.delay)
}

// Full reports whether the clip has reached its limit.
func (c *Clip) Full() bool {
	return c.Limit > 0 && len(c.frames) >= c.Limit
}

// Capture appends a lossless copy of img. It returns true once the clip is
// full; frames offered after that are dropped.
func (c *Clip) Capture(img image.Image) bool {
	if c.Full() {
		return true
	}
	b := img.Bounds()
	cp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(cp, cp.Bounds(), img, b.Min, draw.Src)
	c.frames = append(c.frames, cp)
	return c.Full()
}

// WriteAPNG writes the clip as a looping animated PNG.
func (c *Clip) WriteAPNG(fname string) error {
	if len(c.frames) == 0 {
		return ErrEmptyClip
	}
	if err := apng.Save(fname, c.frames, c.delay); err != nil {
		return fmt.Errorf("encoding %s: %w", fname, err)
	}
	return nil
}

// Encode writes the clip as a looping GIF, dithered to the Plan 9 palette.
func (c *Clip) Encode(w io.Writer) error {
	if len(c.frames) == 0 {
		return ErrEmptyClip
	}
	anim := &gif.GIF{
		Image: make([]*image.Paletted, len(c.frames)),
		Delay: make([]int, len(c.frames)),
	}
	for i, f := range c.frames {
		p := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), f, f.Bounds().Min)
		anim.Image[i] = p
		anim.Delay[i] = int(c.delay)
	}
	return gif.EncodeAll(w, anim)
}

// WriteGIF writes to a GIF file
func (c *Clip) WriteGIF(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", fname, err)
	}
	return f.Close()
}
