package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scottkirkwood/flockart/flock"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults invalid: %v", err)
	}

	p, err := cfg.FlockParams()
	if err != nil {
		t.Fatalf("FlockParams: %v", err)
	}
	want := flock.DefaultParams(60, 60)
	if p.Width != want.Width || p.Height != want.Height {
		t.Errorf("Want %dx%d, got %dx%d", want.Width, want.Height, p.Width, p.Height)
	}
	if p.Base != want.Base {
		t.Errorf("Want base %v, got %v", want.Base, p.Base)
	}
	if p.Weights != want.Weights || p.Friction != want.Friction || p.Jitter != want.Jitter {
		t.Errorf("Want defaults %+v, got %+v", want, p)
	}
	if p.Oscillation != nil {
		t.Errorf("Want oscillation off by default")
	}
	if cfg.Video.Format != "apng" || cfg.Render.Vector {
		t.Errorf("Want apng clips and pixel stills by default, got %q vector=%v", cfg.Video.Format, cfg.Render.Vector)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	body := "grid:\n  width: 8\nforces:\n  alignment: 0\noscillation:\n  enabled: true\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Width != 8 || cfg.Grid.Height != 60 {
		t.Errorf("Want 8x60, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Forces.Alignment != 0 || cfg.Forces.Cohesion != 1.65 {
		t.Errorf("Want alignment 0 and cohesion kept at 1.65, got %+v", cfg.Forces)
	}

	p, err := cfg.FlockParams()
	if err != nil {
		t.Fatal(err)
	}
	if p.Oscillation == nil || p.Oscillation.Alignment.PeriodMS != 13000 {
		t.Errorf("Want default alignment wave, got %+v", p.Oscillation)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Want error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("grid: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Errorf("Want error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Grid.Width = 0 }, "grid"},
		{"friction one", func(c *Config) { c.Forces.Friction = 1 }, "friction"},
		{"friction zero", func(c *Config) { c.Forces.Friction = 0 }, "friction"},
		{"bad colour", func(c *Config) { c.Init.BaseColor = "teal" }, "base_color"},
		{"negative jitter", func(c *Config) { c.Init.Jitter = -1 }, "jitter"},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, "scale"},
		{"zero frame rate", func(c *Config) { c.Render.FrameRate = 0 }, "frame_rate"},
		{"webm clips", func(c *Config) { c.Video.Format = "webm" }, "video format"},
		{"flat wave", func(c *Config) {
			c.Oscillation.Enabled = true
			c.Oscillation.Separation.PeriodMS = 0
		}, "separation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Want error mentioning %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Want error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Grid.Width = 33
	cfg.Init.BaseColor = "#ff0000"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Grid.Width != 33 {
		t.Errorf("Want width 33, got %d", got.Grid.Width)
	}
	base, err := got.BaseColor()
	if err != nil {
		t.Fatal(err)
	}
	if base != (flock.RGB{255, 0, 0}) {
		t.Errorf("Want red base, got %v", base)
	}
}
