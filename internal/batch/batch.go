// Package batch renders many frames of one results file from a YAML job.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/export"
	"github.com/san-kum/exoview/internal/frame"
)

// Render kinds.
const (
	KindPlot = "plot"
	KindCSV  = "csv"
	KindJSON = "json"
	KindGIF  = "gif"
)

var (
	ErrUnknownKind     = errors.New("batch: unknown render kind")
	ErrDuplicateOutput = errors.New("batch: duplicate output")
)

// Job is a scripted set of renders over one file.
type Job struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	File        string   `yaml:"file"`
	Scale       string   `yaml:"scale"`
	Renders     []Render `yaml:"renders"`
}

// Render is one output request. Out may contain {var} and {step}; when a
// multi-step render has no {step} the step is appended to the file name.
// Empty Steps means every step; negative steps count from the end.
type Render struct {
	Kind     string `yaml:"kind"`
	Variable string `yaml:"variable"`
	Steps    []int  `yaml:"steps"`
	Out      string `yaml:"out"`
}

// LoadJob loads a job from a YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("batch %s: %w", path, err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", path, err)
	}
	return &job, nil
}

// Validate checks every render names a known kind and an output.
func (j *Job) Validate() error {
	for i, r := range j.Renders {
		switch r.Kind {
		case KindPlot, KindCSV, KindJSON, KindGIF:
		default:
			return fmt.Errorf("render %d: %w %q", i+1, ErrUnknownKind, r.Kind)
		}
		if r.Out == "" {
			return fmt.Errorf("render %d: no output path", i+1)
		}
	}
	return nil
}

// Options controls a run.
type Options struct {
	OutDir  string
	Plot    export.Options
	Workers int
	Cols    int
	Rows    int
	Delay   int
	Log     logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 4
	}
	if o.Cols < 1 {
		o.Cols = 60
	}
	if o.Rows < 1 {
		o.Rows = 20
	}
	if o.Delay < 1 {
		o.Delay = 20
	}
	if o.Log == nil {
		quiet := logrus.New()
		quiet.Out = io.Discard
		o.Log = quiet
	}
	return o
}

// task is one output file.
type task struct {
	kind     string
	variable string
	step     int
	path     string
}

// Plan expands the job's renders into output files without writing them.
func Plan(job *Job, d *exodus.Data, outDir string) ([]string, error) {
	tasks, err := plan(job, d, outDir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(tasks))
	for i, t := range tasks {
		paths[i] = t.path
	}
	return paths, nil
}

func plan(job *Job, d *exodus.Data, outDir string) ([]task, error) {
	var tasks []task
	seen := make(map[string]int)
	add := func(render int, t task) error {
		key := filepath.Clean(t.path)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("render %d: %w: %q also written by render %d", render, ErrDuplicateOutput, t.path, prev)
		}
		seen[key] = render
		tasks = append(tasks, t)
		return nil
	}
	for i, r := range job.Renders {
		variable := r.Variable
		if variable == "" {
			for _, n := range d.NodalNames {
				if d.HasNodal(n) {
					variable = n
					break
				}
			}
		}
		if !d.HasNodal(variable) {
			return nil, fmt.Errorf("render %d: %w: %q", i+1, frame.ErrUnknownVariable, variable)
		}

		if r.Kind == KindGIF {
			if err := add(i+1, task{kind: r.Kind, variable: variable, path: outPath(outDir, r.Out, variable, -1, false)}); err != nil {
				return nil, err
			}
			continue
		}

		n := frame.Steps(d, variable)
		steps := r.Steps
		if len(steps) == 0 {
			steps = make([]int, n)
			for s := range steps {
				steps[s] = s
			}
		}
		for _, s := range steps {
			if s < 0 {
				s += n
			}
			if s < 0 || s >= n {
				return nil, fmt.Errorf("render %d: %w: %d not in [0, %d)", i+1, frame.ErrStepOutOfRange, s, n)
			}
			if err := add(i+1, task{kind: r.Kind, variable: variable, step: s, path: outPath(outDir, r.Out, variable, s, len(steps) > 1)}); err != nil {
				return nil, err
			}
		}
	}
	return tasks, nil
}

func outPath(dir, tmpl, variable string, step int, multi bool) string {
	name := strings.NewReplacer("{var}", variable, "{step}", strconv.Itoa(step)).Replace(tmpl)
	if multi && !strings.Contains(tmpl, "{step}") {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), step, ext)
	}
	if dir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	return name
}

// Run writes every output of the job, opts.Workers at a time, and returns
// the written paths in job order.
func Run(ctx context.Context, job *Job, d *exodus.Data, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	scale := colorscale.Default()
	if job.Scale != "" {
		s, err := colorscale.Get(job.Scale)
		if err != nil {
			return nil, err
		}
		scale = s
	}
	tasks, err := plan(job, d, opts.OutDir)
	if err != nil {
		return nil, err
	}

	errs := make([]error, len(tasks))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(idx int, t task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = render(t, d, scale, opts)
			if errs[idx] == nil {
				opts.Log.WithFields(logrus.Fields{"kind": t.kind, "variable": t.variable, "out": t.path}).Debug("rendered")
			}
		}(i, t)
	}
	wg.Wait()

	paths := make([]string, len(tasks))
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tasks[i].path, err)
		}
		paths[i] = tasks[i].path
	}
	return paths, nil
}

func render(t task, d *exodus.Data, scale colorscale.Scale, opts Options) error {
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if t.kind == KindGIF {
		return renderGIF(t, d, scale, opts)
	}

	f, err := frame.Build(d, t.variable, t.step)
	if err != nil {
		return err
	}
	if t.kind == KindPlot {
		po := opts.Plot
		po.Format = ""
		return export.SavePlot(t.path, f, scale, po)
	}

	out, err := os.Create(t.path)
	if err != nil {
		return err
	}
	if t.kind == KindJSON {
		err = f.WriteJSON(out)
	} else {
		err = f.WriteCSV(out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func renderGIF(t task, d *exodus.Data, scale colorscale.Scale, opts Options) error {
	anim, err := export.Animate(d, t.variable, scale, opts.Cols, opts.Rows, opts.Delay)
	if err != nil {
		return err
	}
	return anim.SaveGIF(t.path)
}
