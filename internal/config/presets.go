package config

import "sort"

var Presets = map[string]*PlotConfig{
	"screen": {
		Width: 800, Height: 800, Opacity: 0.7, PointRadius: 4,
	},
	"print": {
		Width: 2400, Height: 2400, Opacity: 0.9, PointRadius: 6, Format: "pdf",
	},
	"thumbnail": {
		Width: 200, Height: 200, Opacity: 1, PointRadius: 1.5, Format: "png",
	},
}

func GetPreset(name string) *PlotConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
