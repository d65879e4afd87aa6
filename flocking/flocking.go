// Flocking treats every pixel of a small grid as a boid whose position is
// its colour. Cells drift toward their neighbours' average colour, away from
// neighbours of nearly the same colour and along with their neighbours'
// drift, which breaks a flat teal field into slowly swimming patches.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/scottkirkwood/flockart"
	"github.com/scottkirkwood/flockart/config"
	"github.com/scottkirkwood/flockart/flock"
	"github.com/scottkirkwood/flockart/telemetry"
	"github.com/scottkirkwood/flockart/viewer"
)

var (
	seedFlag    = flag.String("seed", "", "Hex value for the seed to use")
	configFlag  = flag.String("config", "", "Path to a YAML config (empty = defaults)")
	liveFlag    = flag.Bool("live", false, "Animate in a window instead of rendering headless")
	videoFlag   = flag.Bool("video", false, "Record a clip (video.format picks apng or gif)")
	framesFlag  = flag.Int("frames", -1, "Clip frame limit, implies -video (-1 = config, 0 = until the run ends)")
	stepsFlag   = flag.Int("steps", -1, "Headless steps before the still is saved (-1 = config)")
	formatFlag  = flag.String("format", "png", "Still format: png, svg or pdf")
	vectorFlag  = flag.Bool("vector", false, "Draw png stills as vector squares")
	outFlag     = flag.String("out", "samples", "Output directory")
	statsFlag   = flag.String("stats", "", "Directory for frames.csv and config.yaml (empty = off)")
	jsonLogFlag = flag.Bool("json-log", false, "Log as JSON")
)

func main() {
	flag.Parse()
	setupLogging(*jsonLogFlag)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *videoFlag {
		cfg.Video.Enabled = true
	}
	if *framesFlag >= 0 {
		cfg.Video.Enabled = true
		cfg.Video.Frames = *framesFlag
	}
	if *stepsFlag >= 0 {
		cfg.Render.Steps = *stepsFlag
	}
	if *vectorFlag {
		cfg.Render.Vector = true
	}

	seed, err := flockart.Init(*seedFlag)
	if err != nil {
		slog.Error("unable to set the seed", "error", err)
		os.Exit(1)
	}

	stats, err := telemetry.NewOutput(*statsFlag)
	if err != nil {
		slog.Error("failed to open stats output", "error", err)
		os.Exit(1)
	}
	defer stats.Close()

	sk, err := newSketch(cfg, seed, options{outDir: *outFlag, format: *formatFlag, stats: stats})
	if err != nil {
		slog.Error("flocking failed to start", "error", err)
		os.Exit(1)
	}
	if *liveFlag {
		err = sk.live()
	} else {
		err = sk.headless()
	}
	if err != nil {
		slog.Error("flocking failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(json bool) {
	var h slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if json {
		h = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(h))
}

type options struct {
	outDir string
	format string
	stats  *telemetry.Output
}

// sketch is the host loop: it owns the session, the grid and everything the
// frames are written to.
type sketch struct {
	cfg    *config.Config
	params flock.Params
	opts   options

	sess      *flockart.Session
	grid      *flock.Grid
	render    *renderer
	clip      *flockart.Clip // nil unless recording
	clipSaved bool
	collector telemetry.Collector
}

func newSketch(cfg *config.Config, seed flockart.Seed, opts options) (*sketch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch opts.format {
	case "png", "svg", "pdf":
	default:
		return nil, fmt.Errorf("unsupported still format %q", opts.format)
	}
	params, err := cfg.FlockParams()
	if err != nil {
		return nil, err
	}
	if err := opts.stats.WriteConfig(cfg); err != nil {
		return nil, err
	}
	sk := &sketch{
		cfg:    cfg,
		params: params,
		opts:   opts,
		render: newRenderer(cfg.Grid.Width, cfg.Grid.Height, cfg.Render.Scale, cfg.Render.Circle),
	}
	if err := sk.reset(seed); err != nil {
		return nil, err
	}
	return sk, nil
}

// reset starts the run over with a new seed.
func (sk *sketch) reset(seed flockart.Seed) error {
	sess := flockart.NewSession(sk.cfg.Name, seed)
	grid, err := flock.New(sk.params, sess.Rand())
	if err != nil {
		return fmt.Errorf("initializing grid: %w", err)
	}
	sk.sess, sk.grid = sess, grid
	sk.clip, sk.clipSaved = nil, false
	if sk.cfg.Video.Enabled {
		sk.clip = flockart.NewClip(sk.cfg.Video.Frames, sk.cfg.Render.FrameRate)
	}
	slog.Info("starting", "sketch", sess.Title(),
		"grid", fmt.Sprintf("%dx%d", grid.Width(), grid.Height()),
		"recording", sk.clip != nil)
	return nil
}

// tick is one step and render of the host loop.
func (sk *sketch) tick() *flockart.Raster {
	elapsed := sk.sess.Elapsed()
	sk.grid.Step(elapsed)
	sk.sess.Tick()
	frame := sk.render.frame(sk.grid)

	if sk.clip != nil && !sk.clip.Full() {
		if sk.clip.Capture(frame.Image()) {
			slog.Info("clip full", "frames", sk.clip.Len())
		}
	}
	if every := sk.cfg.Telemetry.Every; sk.opts.stats != nil && every > 0 && sk.sess.Frame()%every == 0 {
		s := sk.collector.Collect(sk.sess.Frame(), sk.grid, sk.grid.Weights(elapsed))
		if err := sk.opts.stats.WriteFrame(s); err != nil {
			slog.Warn("dropping stats", "frame", s.Frame, "error", err)
		}
	}
	return frame
}

// recording reports whether a limited clip still needs frames.
func (sk *sketch) recording() bool {
	return sk.clip != nil && sk.clip.Limit > 0 && !sk.clip.Full()
}

// headless steps at a fixed frame rate until the still and any clip are done.
func (sk *sketch) headless() error {
	sk.sess.FrameRate = sk.cfg.Render.FrameRate
	start := time.Now()
	var frame *flockart.Raster
	for frame == nil || sk.sess.Frame() < sk.cfg.Render.Steps || sk.recording() {
		frame = sk.tick()
	}
	final := sk.collector.Collect(sk.sess.Frame(), sk.grid, sk.grid.Weights(sk.sess.Elapsed()))
	slog.Info("done rendering", "sketch", sk.sess.Title(), "frames", sk.sess.Frame(),
		"spread", final.Spread(), "mean_speed", final.MeanSpeed, "took", time.Since(start))

	var errs []error
	if _, err := sk.saveStill(frame); err != nil {
		errs = append(errs, err)
	}
	if sk.clip != nil {
		if _, err := sk.saveClip(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// live animates in a window until it is closed.
func (sk *sketch) live() error {
	size := sk.render.size()
	var last *flockart.Raster
	return viewer.Animate(viewer.Options{
		Title:    sk.sess.Title(),
		Width:    size.X,
		Height:   size.Y,
		Interval: time.Second / time.Duration(sk.cfg.Render.FrameRate),
		OnKey: func(e key.Event) bool {
			sk.onKey(e, last)
			return false
		},
	}, func() image.Image {
		last = sk.tick()
		if sk.clip != nil && sk.clip.Full() && !sk.clipSaved {
			if _, err := sk.saveClip(); err != nil {
				slog.Warn("clip not saved", "error", err)
			}
		}
		return last.Image()
	})
}

func (sk *sketch) onKey(e key.Event, last *flockart.Raster) {
	switch e.Code {
	case key.CodeS, key.CodeI:
		if last == nil {
			last = sk.render.frame(sk.grid)
		}
		if _, err := sk.saveStill(last); err != nil {
			slog.Warn("still not saved", "error", err)
		}
	case key.CodeV:
		if sk.clip == nil {
			slog.Info("not recording, start with -video to save clips")
			return
		}
		if _, err := sk.saveClip(); err != nil {
			slog.Warn("clip not saved", "frames", sk.clip.Len(), "error", err)
		}
	case key.CodeSpacebar:
		seed, err := flockart.Init("")
		if err != nil {
			slog.Error("unable to reseed", "error", err)
			return
		}
		if err := sk.reset(seed); err != nil {
			slog.Error("unable to reseed", "error", err)
		}
	}
}

// saveStill writes the current grid in the configured format.
func (sk *sketch) saveStill(frame *flockart.Raster) (string, error) {
	var w any = frame
	if sk.opts.format != "png" || sk.cfg.Render.Vector {
		w = sk.render.vector(sk.grid)
	}
	return sk.sess.Save(w, sk.opts.outDir, "."+sk.opts.format)
}

func (sk *sketch) saveClip() (string, error) {
	if sk.clip.Len() == 0 {
		return "", flockart.ErrEmptyClip
	}
	sk.clipSaved = true
	return sk.sess.Save(sk.clip, sk.opts.outDir, "."+sk.cfg.Video.Format)
}
