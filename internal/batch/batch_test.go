package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/export"
	"github.com/san-kum/exoview/internal/frame"
)

func testData() *exodus.Data {
	return &exodus.Data{
		TimeSteps: []float64{0, 1, 2},
		X:         []float64{0, 1, 0},
		Y:         []float64{0, 0, 1},
		Z:         []float64{0, 0, 0},
		Nodal: map[string][][]float64{
			"temp": {{1, 2, 3}, {2, 3, 4}, {3, 4, 5}},
		},
		NodalNames: []string{"missing", "temp"},
	}
}

func smallPlots() Options {
	opts := Options{Workers: 2, Cols: 10, Rows: 4, Plot: export.DefaultOptions()}
	opts.Plot.Width, opts.Plot.Height = export.Pixels(100), export.Pixels(100)
	return opts
}

func TestLoadJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	content := `name: nightly
file: results.exo
scale: plasma
renders:
  - kind: plot
    variable: temp
    steps: [0, -1]
    out: "{var}_{step}.png"
  - kind: gif
    out: anim.gif
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	job, err := LoadJob(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if job.Name != "nightly" || job.File != "results.exo" || job.Scale != "plasma" {
		t.Errorf("unexpected job %+v", job)
	}
	if len(job.Renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(job.Renders))
	}
	if got := job.Renders[0].Steps; len(got) != 2 || got[1] != -1 {
		t.Errorf("unexpected steps %v", got)
	}
}

func TestLoadJobInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown kind", "renders:\n  - kind: movie\n    out: a.mp4\n", ErrUnknownKind},
		{"no output", "renders:\n  - kind: csv\n", nil},
		{"bad yaml", "renders: [", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			os.WriteFile(path, []byte(tt.content), 0644)
			_, err := LoadJob(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	job := &Job{Renders: []Render{
		{Kind: KindCSV, Variable: "temp", Out: "{var}.csv"},
		{Kind: KindPlot, Steps: []int{-1}, Out: "last.png"},
		{Kind: KindGIF, Out: "{var}.gif"},
	}}
	paths, err := Plan(job, testData(), "out")
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	want := []string{
		filepath.Join("out", "temp_0.csv"),
		filepath.Join("out", "temp_1.csv"),
		filepath.Join("out", "temp_2.csv"),
		filepath.Join("out", "last.png"),
		filepath.Join("out", "temp.gif"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		render Render
		want   error
	}{
		{"unknown variable", Render{Kind: KindCSV, Variable: "velocity", Out: "v.csv"}, frame.ErrUnknownVariable},
		{"variable without values", Render{Kind: KindCSV, Variable: "missing", Out: "m.csv"}, frame.ErrUnknownVariable},
		{"step past end", Render{Kind: KindPlot, Steps: []int{3}, Out: "p.png"}, frame.ErrStepOutOfRange},
		{"step before start", Render{Kind: KindPlot, Steps: []int{-4}, Out: "p.png"}, frame.ErrStepOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(&Job{Renders: []Render{tt.render}}, testData(), "")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPlanDuplicateOutputs(t *testing.T) {
	tests := []struct {
		name    string
		renders []Render
	}{
		{"same out", []Render{
			{Kind: KindCSV, Variable: "temp", Out: "out.csv"},
			{Kind: KindJSON, Variable: "temp", Out: "out.csv"},
		}},
		{"repeated step", []Render{
			{Kind: KindCSV, Variable: "temp", Steps: []int{0, 0}, Out: "{step}.csv"},
		}},
		{"negative alias", []Render{
			{Kind: KindCSV, Variable: "temp", Steps: []int{2, -1}, Out: "t_{step}.csv"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			paths, err := Run(context.Background(), &Job{Renders: tt.renders}, testData(), Options{OutDir: dir, Workers: 2})
			if !errors.Is(err, ErrDuplicateOutput) {
				t.Fatalf("expected duplicate output error, got paths=%v err=%v", paths, err)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("nothing should be written, found %d entries", len(entries))
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	job := &Job{
		Scale: "jet",
		Renders: []Render{
			{Kind: KindCSV, Out: "csv/{var}_{step}.csv"},
			{Kind: KindJSON, Steps: []int{1}, Out: "frame.json"},
			{Kind: KindPlot, Steps: []int{0, 2}, Out: "plot.svg"},
			{Kind: KindGIF, Out: "anim.gif"},
		},
	}
	opts := smallPlots()
	opts.OutDir = dir

	paths, err := Run(context.Background(), job, testData(), opts)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(paths) != 7 {
		t.Fatalf("expected 7 outputs, got %d: %v", len(paths), paths)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing output %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("empty output %s", p)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "csv", "temp_2.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "node,x,y,z,temp\n1,0,0,0,3\n") {
		t.Errorf("unexpected csv:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "plot_2.svg")); err != nil {
		t.Errorf("expected step suffix on multi-step plot: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := smallPlots()
	opts.OutDir = t.TempDir()
	job := &Job{Renders: []Render{{Kind: KindCSV, Out: "x.csv"}}}
	if _, err := Run(ctx, job, testData(), opts); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunUnknownScale(t *testing.T) {
	job := &Job{Scale: "sepia", Renders: []Render{{Kind: KindCSV, Out: "x.csv"}}}
	if _, err := Run(context.Background(), job, testData(), smallPlots()); err == nil {
		t.Error("expected error for unknown scale")
	}
}
