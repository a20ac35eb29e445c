package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ColorScale != "viridis" {
		t.Errorf("expected scale viridis, got %s", cfg.ColorScale)
	}
	if cfg.Plot.Opacity != 0.7 {
		t.Errorf("expected opacity 0.7, got %f", cfg.Plot.Opacity)
	}
	if cfg.Plot.Width != 800 || cfg.Plot.Height != 800 {
		t.Errorf("expected 800x800, got %dx%d", cfg.Plot.Width, cfg.Plot.Height)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("thumbnail")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Width != 200 {
		t.Errorf("expected width 200, got %d", p.Width)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"print", "screen", "thumbnail"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("screen"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.Plot.Format != "png" {
		t.Errorf("preset without format should keep png, got %s", cfg.Plot.Format)
	}

	if err := cfg.ApplyPreset("print"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.Plot.Format != "pdf" || cfg.Plot.Width != 2400 {
		t.Errorf("unexpected plot config %+v", cfg.Plot)
	}

	if err := cfg.ApplyPreset("poster"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestApplyPresetDoesNotShareState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyPreset("thumbnail")
	cfg.Plot.Width = 1

	if Presets["thumbnail"].Width != 200 {
		t.Error("modifying a config changed the preset")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Plot.Width = 0 }},
		{"negative height", func(c *Config) { c.Plot.Height = -1 }},
		{"opacity above one", func(c *Config) { c.Plot.Opacity = 1.5 }},
		{"zero radius", func(c *Config) { c.Plot.PointRadius = 0 }},
		{"negative terminal", func(c *Config) { c.Terminal.Width = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exoview.yaml")

	cfg := DefaultConfig()
	cfg.ColorScale = "plasma"
	cfg.Terminal.Theme = "ocean"
	cfg.Plot.Format = "svg"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exoview.yaml")
	content := "color_scale: jet\nplot:\n  opacity: 0.5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ColorScale != "jet" {
		t.Errorf("expected jet, got %s", cfg.ColorScale)
	}
	if cfg.Plot.Opacity != 0.5 {
		t.Errorf("expected opacity 0.5, got %f", cfg.Plot.Opacity)
	}
	if cfg.Plot.Width != DefaultPlotWidth || cfg.Terminal.Theme != DefaultTheme {
		t.Error("unset values should keep their defaults")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("plot: [1, 2"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("plot:\n  opacity: 3\n"), 0644)
	if _, err := Load(invalid); err == nil {
		t.Error("expected validation error")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
