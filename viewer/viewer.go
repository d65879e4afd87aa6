// Package viewer shows sketch output in a desktop window: a set of finished
// images to flip through, or a live animation.
package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/scottkirkwood/flockart"
)

const (
	maxWidth  = 1000
	maxHeight = 768
)

// frameEvent asks the animation loop for its next frame.
type frameEvent struct{}

// Options control Animate.
type Options struct {
	Title         string
	Width, Height int
	// Interval between frames. Zero means 60 per second.
	Interval time.Duration
	// OnKey sees every key press except q and Escape, which quit.
	// Returning true also quits.
	OnKey func(key.Event) bool
}

func windowSize(r image.Rectangle) image.Point {
	winSize := image.Point{X: r.Dx(), Y: r.Dy()}
	if winSize.X > maxWidth {
		winSize.X = maxWidth
	}
	if winSize.Y > maxHeight {
		winSize.Y = maxHeight
	}
	return winSize
}

// upload paints img centred in the window.
func upload(w screen.Window, b screen.Buffer, img image.Image, sz size.Event) {
	draw.Draw(b.RGBA(), b.Bounds(), img, img.Bounds().Min, draw.Src)
	dp := flockart.VpCenter(img, sz.WidthPx, sz.HeightPx)
	if dp != (image.Point{}) {
		w.Fill(sz.Bounds(), color.Black, draw.Src)
	}
	w.Upload(dp, b, b.Bounds())
	w.Publish()
}

// Show opens a window on imgs. Left and right arrows flip between them, r
// resizes the buffer to the current image, q or Escape closes the window.
func Show(title string, imgs []image.Image) error {
	if len(imgs) == 0 {
		return nil
	}
	var runErr error
	driver.Main(func(s screen.Screen) {
		// Auto-size the window with first image
		winSize := windowSize(imgs[0].Bounds())
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Width:  winSize.X,
			Height: winSize.Y,
			Title:  title,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		b, err := s.NewBuffer(winSize)
		if err != nil {
			runErr = err
			return
		}
		defer func() { b.Release() }()

		w.Fill(b.Bounds(), color.White, draw.Src)
		w.Publish()

		var sz size.Event
		var i int // index of image to display
		for {
			switch e := w.NextEvent().(type) {
			case key.Event:
				if e.Direction != key.DirPress {
					continue
				}
				switch e.Code {
				case key.CodeEscape, key.CodeQ:
					return
				case key.CodeRightArrow:
					i = (i + 1) % len(imgs)
				case key.CodeLeftArrow:
					i = (i + len(imgs) - 1) % len(imgs)
				case key.CodeR:
					// resize to current image
					b.Release()
					b, err = s.NewBuffer(imgs[i].Bounds().Size())
					if err != nil {
						runErr = err
						return
					}
				default:
					continue
				}
				w.Send(paint.Event{})

			case paint.Event:
				upload(w, b, imgs[i], sz)

			case size.Event:
				sz = e

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case mouse.Event:

			case error:
				runErr = e
				return
			}
		}
	})
	return runErr
}

// Animate opens a window and shows a new frame from next every interval
// until the window closes or next returns nil.
func Animate(opts Options, next func() image.Image) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	var runErr error
	driver.Main(func(s screen.Screen) {
		winSize := windowSize(image.Rect(0, 0, opts.Width, opts.Height))
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Width:  winSize.X,
			Height: winSize.Y,
			Title:  opts.Title,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		b, err := s.NewBuffer(image.Point{X: opts.Width, Y: opts.Height})
		if err != nil {
			runErr = err
			return
		}
		defer b.Release()

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					w.Send(frameEvent{})
				}
			}
		}()

		var sz size.Event
		var last image.Image
		for {
			switch e := w.NextEvent().(type) {
			case frameEvent:
				last = next()
				if last == nil {
					return
				}
				upload(w, b, last, sz)

			case paint.Event:
				if last != nil {
					upload(w, b, last, sz)
				}

			case key.Event:
				if e.Direction != key.DirPress {
					continue
				}
				if e.Code == key.CodeEscape || e.Code == key.CodeQ {
					return
				}
				if opts.OnKey != nil && opts.OnKey(e) {
					return
				}

			case size.Event:
				sz = e

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case error:
				runErr = e
				return
			}
		}
	})
	return runErr
}
