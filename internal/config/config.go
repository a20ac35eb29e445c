package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultColorScale  = "viridis"
	DefaultLogLevel    = "info"
	DefaultTheme       = "cyberpunk"
	DefaultPlotWidth   = 800
	DefaultPlotHeight  = 800
	DefaultOpacity     = 0.7
	DefaultPointRadius = 4.0
	DefaultPlotFormat  = "png"
)

type Config struct {
	ColorScale string         `yaml:"color_scale"`
	LogLevel   string         `yaml:"log_level"`
	Plot       PlotConfig     `yaml:"plot"`
	Terminal   TerminalConfig `yaml:"terminal"`
}

// PlotConfig sizes image renders. Width and Height are in pixels and
// PointRadius in points.
type PlotConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Opacity     float64 `yaml:"opacity"`
	PointRadius float64 `yaml:"point_radius"`
	Format      string  `yaml:"format"`
}

// TerminalConfig sizes the terminal canvas in cells. Zero follows the window.
type TerminalConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Theme  string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		ColorScale: DefaultColorScale,
		LogLevel:   DefaultLogLevel,
		Plot: PlotConfig{
			Width:       DefaultPlotWidth,
			Height:      DefaultPlotHeight,
			Opacity:     DefaultOpacity,
			PointRadius: DefaultPointRadius,
			Format:      DefaultPlotFormat,
		},
		Terminal: TerminalConfig{
			Theme: DefaultTheme,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no renderer can use.
func (c *Config) Validate() error {
	switch {
	case c.Plot.Width <= 0 || c.Plot.Height <= 0:
		return fmt.Errorf("plot size %dx%d must be positive", c.Plot.Width, c.Plot.Height)
	case c.Plot.Opacity < 0 || c.Plot.Opacity > 1:
		return fmt.Errorf("plot opacity %g outside [0, 1]", c.Plot.Opacity)
	case c.Plot.PointRadius <= 0:
		return fmt.Errorf("point radius %g must be positive", c.Plot.PointRadius)
	case c.Terminal.Width < 0 || c.Terminal.Height < 0:
		return fmt.Errorf("terminal size %dx%d must not be negative", c.Terminal.Width, c.Terminal.Height)
	}
	return nil
}

// ApplyPreset overwrites the plot settings with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (available: %v)", name, ListPresets())
	}
	format := c.Plot.Format
	c.Plot = *p
	if c.Plot.Format == "" {
		c.Plot.Format = format
	}
	return nil
}
