package main

import (
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/scottkirkwood/flockart"
	"github.com/scottkirkwood/flockart/config"
	"github.com/scottkirkwood/flockart/flock"
	"github.com/scottkirkwood/flockart/telemetry"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = 6, 5
	cfg.Render.Scale = 2
	cfg.Render.Steps = 4
	cfg.Telemetry.Every = 2
	return cfg
}

func TestRendererFrame(t *testing.T) {
	p := flock.DefaultParams(3, 2)
	p.Jitter = 0
	g, err := flock.New(p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	g.SetColor(1, 0, flock.RGB{200, 10, 20})

	r := newRenderer(3, 2, 4, false)
	img := r.frame(g).Image()
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("Want 12x8 frame, got %v", b)
	}
	want := color.RGBA{200, 10, 20, 0xff}
	for _, pt := range [][2]int{{4, 0}, {7, 3}} {
		if got := color.RGBAModel.Convert(img.At(pt[0], pt[1])); got != want {
			t.Errorf("Want %v at %v, got %v", want, pt, got)
		}
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)); got != (color.RGBA{0, 0x88, 0xCC, 0xff}) {
		t.Errorf("Want base colour at origin, got %v", got)
	}
}

func TestRendererCircle(t *testing.T) {
	p := flock.DefaultParams(10, 10)
	g, err := flock.New(p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	img := newRenderer(10, 10, 4, true).frame(g).Image()
	if got := color.RGBAModel.Convert(img.At(0, 0)); got != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("Want black outside the circle, got %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(20, 20)).(color.RGBA); got.B < 0xCC {
		t.Errorf("Want grid colour in the middle, got %v", got)
	}
}

func TestNewSketchRejects(t *testing.T) {
	seed := flockart.NewSeed(1)
	if _, err := newSketch(smallConfig(), seed, options{format: "bmp"}); err == nil {
		t.Error("Want error for bmp stills")
	}
	cfg := smallConfig()
	cfg.Forces.Friction = 1.5
	if _, err := newSketch(cfg, seed, options{format: "png"}); err == nil {
		t.Error("Want error for invalid config")
	}
}

func TestHeadless(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "samples")
	stats, err := telemetry.NewOutput(filepath.Join(dir, "stats"))
	if err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.Video.Enabled = true
	cfg.Video.Frames = 3
	sk, err := newSketch(cfg, flockart.NewSeed(0xbeef), options{outDir: out, format: "png", stats: stats})
	if err != nil {
		t.Fatalf("newSketch: %v", err)
	}
	if err := sk.headless(); err != nil {
		t.Fatalf("headless: %v", err)
	}
	if err := stats.Close(); err != nil {
		t.Fatal(err)
	}

	if sk.sess.Frame() != 4 || sk.grid.Steps() != 4 {
		t.Errorf("Want 4 frames and steps, got %d and %d", sk.sess.Frame(), sk.grid.Steps())
	}
	if sk.clip.Len() != 3 {
		t.Errorf("Want 3 clip frames, got %d", sk.clip.Len())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var exts []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "flocking-") || !strings.HasSuffix(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), "-beef") {
			t.Errorf("Unexpected output %q", e.Name())
		}
		exts = append(exts, filepath.Ext(e.Name()))
	}
	if strings.Join(exts, ",") != ".apng,.png" {
		t.Errorf("Want an apng clip and a png still, got %v", exts)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats", "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(strings.TrimSpace(string(data)), "\n"); rows != 2 {
		t.Errorf("Want 2 stats rows after the header, got %d in %q", rows, data)
	}
}

func TestHeadlessUnlimitedClip(t *testing.T) {
	out := t.TempDir()
	cfg := smallConfig()
	cfg.Video.Enabled = true
	cfg.Video.Frames = 0
	cfg.Video.Format = "gif"
	sk, err := newSketch(cfg, flockart.NewSeed(2), options{outDir: out, format: "png"})
	if err != nil {
		t.Fatal(err)
	}
	if err := sk.headless(); err != nil {
		t.Fatalf("headless: %v", err)
	}
	if sk.clip.Len() != cfg.Render.Steps {
		t.Errorf("Want one clip frame per step, got %d", sk.clip.Len())
	}
	gifs, err := filepath.Glob(filepath.Join(out, "*.gif"))
	if err != nil || len(gifs) != 1 {
		t.Errorf("Want one gif clip, got %v %v", gifs, err)
	}
}

func TestHeadlessVectorStill(t *testing.T) {
	out := t.TempDir()
	cfg := smallConfig()
	cfg.Render.Vector = true
	sk, err := newSketch(cfg, flockart.NewSeed(5), options{outDir: out, format: "png"})
	if err != nil {
		t.Fatal(err)
	}
	if err := sk.headless(); err != nil {
		t.Fatalf("headless: %v", err)
	}
	pngs, err := filepath.Glob(filepath.Join(out, "*.png"))
	if err != nil || len(pngs) != 1 {
		t.Errorf("Want one png still, got %v %v", pngs, err)
	}
}

func TestRendererReusesVectorContext(t *testing.T) {
	g, err := flock.New(flock.DefaultParams(3, 3), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	r := newRenderer(3, 3, 2, false)
	first := r.vector(g)
	if second := r.vector(g); second != first {
		t.Errorf("Want the vector context reused between stills")
	}
}

func TestReset(t *testing.T) {
	sk, err := newSketch(smallConfig(), flockart.NewSeed(3), options{format: "png"})
	if err != nil {
		t.Fatal(err)
	}
	sk.tick()
	sk.tick()
	if err := sk.reset(flockart.NewSeed(4)); err != nil {
		t.Fatal(err)
	}
	if sk.sess.Frame() != 0 || sk.grid.Steps() != 0 || sk.clip != nil {
		t.Errorf("Want a fresh run after reset, got frame %d steps %d", sk.sess.Frame(), sk.grid.Steps())
	}
	if sk.sess.Seed.Hex() != "4" {
		t.Errorf("Want new seed 4, got %s", sk.sess.Seed.Hex())
	}
}

func TestOnKeySaves(t *testing.T) {
	out := t.TempDir()
	cfg := smallConfig()
	cfg.Video.Enabled = true
	sk, err := newSketch(cfg, flockart.NewSeed(6), options{outDir: out, format: "png"})
	if err != nil {
		t.Fatal(err)
	}

	// An empty clip is reported, not written.
	sk.onKey(key.Event{Code: key.CodeV}, nil)
	if clips, _ := filepath.Glob(filepath.Join(out, "*.apng")); len(clips) != 0 {
		t.Errorf("Want no clip before any frame, got %v", clips)
	}
	if sk.clipSaved {
		t.Errorf("Want an empty clip to stay unsaved")
	}

	sk.onKey(key.Event{Code: key.CodeS}, nil)
	last := sk.tick()
	sk.onKey(key.Event{Code: key.CodeV}, last)
	for _, pattern := range []string{"*.png", "*.apng"} {
		if got, _ := filepath.Glob(filepath.Join(out, pattern)); len(got) != 1 {
			t.Errorf("Want one %s, got %v", pattern, got)
		}
	}
}
