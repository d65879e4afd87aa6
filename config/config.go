// Package config provides configuration loading for the sketches.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/scottkirkwood/flockart/flock"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds everything a sketch run can be tuned with.
type Config struct {
	Name        string            `yaml:"name"`
	Workers     int               `yaml:"workers"`
	Grid        GridConfig        `yaml:"grid"`
	Init        InitConfig        `yaml:"init"`
	Forces      ForcesConfig      `yaml:"forces"`
	Oscillation OscillationConfig `yaml:"oscillation"`
	Render      RenderConfig      `yaml:"render"`
	Video       VideoConfig       `yaml:"video"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// GridConfig holds the simulation grid size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// InitConfig holds the starting colour field.
type InitConfig struct {
	BaseColor string `yaml:"base_color"` // hex, e.g. "#0088cc"
	Jitter    int    `yaml:"jitter"`     // per channel, added as rand.Intn(jitter)
}

// ForcesConfig holds the flocking weights and damping.
type ForcesConfig struct {
	Cohesion   float64 `yaml:"cohesion"`
	Separation float64 `yaml:"separation"`
	Alignment  float64 `yaml:"alignment"`
	Friction   float64 `yaml:"friction"` // must be in (0,1)
}

// WaveConfig is one sine oscillation of a weight.
type WaveConfig struct {
	Phase    float64 `yaml:"phase"`
	PeriodMS float64 `yaml:"period_ms"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
}

// OscillationConfig turns on time varying weights.
type OscillationConfig struct {
	Enabled    bool       `yaml:"enabled"`
	Cohesion   WaveConfig `yaml:"cohesion"`
	Separation WaveConfig `yaml:"separation"`
	Alignment  WaveConfig `yaml:"alignment"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Scale     int  `yaml:"scale"`      // output pixels per cell
	Circle    bool `yaml:"circle"`     // clip stills and frames to a circle
	FrameRate int  `yaml:"frame_rate"` // steps per second
	Steps     int  `yaml:"steps"`      // headless steps before the still is saved
	Vector    bool `yaml:"vector"`     // draw PNG stills as vector squares
}

// VideoConfig holds clip capture settings.
type VideoConfig struct {
	Enabled bool   `yaml:"enabled"`
	Frames  int    `yaml:"frames"` // 0 = until the run ends
	Format  string `yaml:"format"` // apng or gif
}

// TelemetryConfig holds stats output settings.
type TelemetryConfig struct {
	Every int `yaml:"every"` // frames between stats rows
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Validate reports every setting that would make a run fail.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	if c.Forces.Friction <= 0 || c.Forces.Friction >= 1 {
		errs = append(errs, fmt.Errorf("friction must be between 0 and 1, got %v", c.Forces.Friction))
	}
	if c.Init.Jitter < 0 || c.Init.Jitter > 256 {
		errs = append(errs, fmt.Errorf("jitter must be in [0,256], got %d", c.Init.Jitter))
	}
	if _, err := colorful.Hex(c.Init.BaseColor); err != nil {
		errs = append(errs, fmt.Errorf("base_color %q: %w", c.Init.BaseColor, err))
	}
	if c.Render.Scale < 1 {
		errs = append(errs, fmt.Errorf("render scale must be at least 1, got %d", c.Render.Scale))
	}
	if c.Render.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive, got %d", c.Render.FrameRate))
	}
	if c.Video.Frames < 0 {
		errs = append(errs, fmt.Errorf("video frames must not be negative, got %d", c.Video.Frames))
	}
	if c.Video.Format != "apng" && c.Video.Format != "gif" {
		errs = append(errs, fmt.Errorf("video format must be apng or gif, got %q", c.Video.Format))
	}
	if c.Oscillation.Enabled {
		for name, w := range map[string]WaveConfig{
			"cohesion":   c.Oscillation.Cohesion,
			"separation": c.Oscillation.Separation,
			"alignment":  c.Oscillation.Alignment,
		} {
			if w.PeriodMS <= 0 {
				errs = append(errs, fmt.Errorf("oscillation %s period_ms must be positive, got %v", name, w.PeriodMS))
			}
		}
	}
	return errors.Join(errs...)
}

// BaseColor parses the starting colour.
func (c *Config) BaseColor() (flock.RGB, error) {
	col, err := colorful.Hex(c.Init.BaseColor)
	if err != nil {
		return flock.RGB{}, fmt.Errorf("base_color %q: %w", c.Init.BaseColor, err)
	}
	r, g, b := col.Clamped().RGB255()
	return flock.RGB{r, g, b}, nil
}

// FlockParams converts the config into simulation parameters.
func (c *Config) FlockParams() (flock.Params, error) {
	base, err := c.BaseColor()
	if err != nil {
		return flock.Params{}, err
	}
	p := flock.Params{
		Width:  c.Grid.Width,
		Height: c.Grid.Height,
		Base:   base,
		Jitter: c.Init.Jitter,
		Weights: flock.Weights{
			Cohesion:   c.Forces.Cohesion,
			Separation: c.Forces.Separation,
			Alignment:  c.Forces.Alignment,
		},
		Friction: c.Forces.Friction,
		Workers:  c.Workers,
	}
	if c.Oscillation.Enabled {
		p.Oscillation = &flock.Oscillation{
			Cohesion:   c.Oscillation.Cohesion.wave(),
			Separation: c.Oscillation.Separation.wave(),
			Alignment:  c.Oscillation.Alignment.wave(),
		}
	}
	return p, nil
}

func (w WaveConfig) wave() flock.Wave {
	return flock.Wave{Phase: w.Phase, PeriodMS: w.PeriodMS, Min: w.Min, Max: w.Max}
}

// WriteYAML saves the effective configuration.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
