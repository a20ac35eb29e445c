package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/exoview/internal/batch"
	"github.com/san-kum/exoview/internal/colorscale"
	"github.com/san-kum/exoview/internal/config"
	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/export"
	"github.com/san-kum/exoview/internal/frame"
	"github.com/san-kum/exoview/internal/staging"
	"github.com/san-kum/exoview/internal/viz"
)

var (
	// Config file and preset
	configFile string
	preset     string
	logLevel   string
	stageDir   string

	variable   string
	step       int
	scaleName  string
	themeName  string
	plotOut    string
	svgOut     string
	tableOut   string
	gifOut     string
	format     string
	width      int
	height     int
	opacity    float64
	radius     float64
	noColorBar bool
	fixedRange bool
	cols       int
	rows       int
	node       int
	global     string
	asJSON     bool
	delay      int
	outDir     string
	workers    int
	dryRun     bool
)

var errNoVariables = errors.New("file has no nodal variables with values")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags are bound to the package
// variables and reset to their defaults on every call.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exoview [file]",
		Short: "inspect and view Exodus II simulation results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runView(cmd, args)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "plot preset (screen, print, thumbnail)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&stageDir, "stage-dir", "", "directory for staging stdin uploads")
	rootCmd.Flags().StringVar(&scaleName, "scale", config.DefaultColorScale, "colour scale")
	rootCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "theme")

	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "list raw fields and variable name tables",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "summarize time steps, mesh and variables",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "interactive results viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringVar(&scaleName, "scale", config.DefaultColorScale, "colour scale")
	viewCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "theme")
	viewCmd.Flags().IntVar(&cols, "cols", 0, "canvas width in cells (0 follows the window)")
	viewCmd.Flags().IntVar(&rows, "rows", 0, "canvas height in cells (0 follows the window)")

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "render one time step to png, svg or pdf",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	addFrameFlags(plotCmd)
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "plot.png", "output file")
	plotCmd.Flags().StringVar(&format, "format", "", "output format (default from --out extension)")
	plotCmd.Flags().IntVar(&width, "width", config.DefaultPlotWidth, "width in pixels")
	plotCmd.Flags().IntVar(&height, "height", config.DefaultPlotHeight, "height in pixels")
	plotCmd.Flags().Float64Var(&opacity, "opacity", config.DefaultOpacity, "marker opacity")
	plotCmd.Flags().Float64Var(&radius, "radius", config.DefaultPointRadius, "marker radius in points")
	plotCmd.Flags().BoolVar(&noColorBar, "no-colorbar", false, "omit the colour bar")
	plotCmd.Flags().BoolVar(&fixedRange, "fixed-range", false, "colour over the range of all time steps")

	scatterCmd := &cobra.Command{
		Use:   "scatter [file]",
		Short: "print one time step as a coloured terminal scatter",
		Args:  cobra.ExactArgs(1),
		RunE:  runScatter,
	}
	addFrameFlags(scatterCmd)
	scatterCmd.Flags().IntVar(&cols, "cols", 60, "canvas width in cells")
	scatterCmd.Flags().IntVar(&rows, "rows", 20, "canvas height in cells")
	scatterCmd.Flags().StringVar(&svgOut, "svg", "", "also write the canvas as SVG")

	historyCmd := &cobra.Command{
		Use:   "history [file]",
		Short: "plot a nodal or global variable over time",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().StringVar(&variable, "var", "", "nodal variable")
	historyCmd.Flags().IntVar(&node, "node", 1, "node number (1-based)")
	historyCmd.Flags().StringVar(&global, "global", "", "global variable (instead of --var)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "export one time step as a node table",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}
	addFrameFlags(exportCSVCmd)
	exportCSVCmd.Flags().StringVarP(&tableOut, "out", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of CSV")

	animateCmd := &cobra.Command{
		Use:   "animate [file]",
		Short: "render all time steps of a variable to an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnimate,
	}
	animateCmd.Flags().StringVar(&variable, "var", "", "nodal variable (default first)")
	animateCmd.Flags().StringVar(&scaleName, "scale", config.DefaultColorScale, "colour scale")
	animateCmd.Flags().StringVarP(&gifOut, "out", "o", "animation.gif", "output file")
	animateCmd.Flags().IntVar(&cols, "cols", 60, "canvas width in cells")
	animateCmd.Flags().IntVar(&rows, "rows", 20, "canvas height in cells")
	animateCmd.Flags().IntVar(&delay, "delay", 20, "frame delay in 1/100 s")

	batchCmd := &cobra.Command{
		Use:   "batch [job.yaml] [file]",
		Short: "run the renders listed in a job file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for relative output paths")
	batchCmd.Flags().IntVar(&workers, "workers", 4, "renders written concurrently")
	batchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list outputs without writing them")
	batchCmd.Flags().IntVar(&width, "width", config.DefaultPlotWidth, "plot width in pixels")
	batchCmd.Flags().IntVar(&height, "height", config.DefaultPlotHeight, "plot height in pixels")

	scalesCmd := &cobra.Command{
		Use:   "scales",
		Short: "list colour scales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range colorscale.Names() {
				s, _ := colorscale.Get(name)
				fmt.Fprintf(out, "%-10s %s\n", name, viz.ColorBar(s, 0, 1, 30))
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list plot presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tOPACITY\tRADIUS\tFORMAT")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				f := p.Format
				if f == "" {
					f = "-"
				}
				fmt.Fprintf(w, "%s\t%dx%d\t%.2f\t%.1f\t%s\n", name, p.Width, p.Height, p.Opacity, p.PointRadius, f)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(inspectCmd, infoCmd, viewCmd, plotCmd, scatterCmd, historyCmd, exportCSVCmd, animateCmd, batchCmd, scalesCmd, presetsCmd)
	return rootCmd
}

func addFrameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&variable, "var", "", "nodal variable (default first)")
	cmd.Flags().IntVar(&step, "step", 0, "time step (0-based, negative counts from the end)")
	cmd.Flags().StringVar(&scaleName, "scale", config.DefaultColorScale, "colour scale")
}

// settings merges config file, preset and explicit flags, in that order.
func settings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("scale") {
		cfg.ColorScale = scaleName
	}
	if flags.Changed("theme") {
		cfg.Terminal.Theme = themeName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("width") {
		cfg.Plot.Width = width
	}
	if flags.Changed("height") {
		cfg.Plot.Height = height
	}
	if flags.Changed("opacity") {
		cfg.Plot.Opacity = opacity
	}
	if flags.Changed("radius") {
		cfg.Plot.PointRadius = radius
	}
	if flags.Changed("format") {
		cfg.Plot.Format = format
	}
	if flags.Changed("cols") {
		cfg.Terminal.Width = cols
	}
	if flags.Changed("rows") {
		cfg.Terminal.Height = rows
	}
	return cfg, cfg.Validate()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(level)
	return log, nil
}

// session is the resolved state a command works with.
type session struct {
	cfg    *config.Config
	log    *logrus.Logger
	reader *exodus.Reader
	source string
	path   string
	upload *staging.Upload
}

// open resolves settings and, for "-", stages stdin so it can be read by path.
func open(cmd *cobra.Command, arg string) (*session, error) {
	cfg, err := settings(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:    cfg,
		log:    log,
		reader: exodus.NewReader(exodus.WithLogger(log)),
		source: arg,
		path:   arg,
	}
	if arg == "-" {
		u, err := staging.Stage(cmd.InOrStdin(), stageDir)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"path": u.Path, "bytes": u.Size}).Debug("staged upload")
		s.upload, s.path, s.source = u, u.Path, "<stdin>"
	}
	return s, nil
}

func (s *session) close() {
	if s.upload == nil {
		return
	}
	if err := s.upload.Remove(); err != nil {
		s.log.WithError(err).Warn("failed to remove staged upload")
	}
}

func (s *session) read() (*exodus.Data, error) {
	d, err := s.reader.Read(s.path)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"steps":   d.NumSteps(),
		"nodes":   len(d.X),
		"nodal":   len(d.NodalNames),
		"globals": len(d.GlobalNames),
	}).Debug("read results")
	return d, nil
}

func (s *session) scale() (colorscale.Scale, error) {
	return colorscale.Get(s.cfg.ColorScale)
}

func loadData(cmd *cobra.Command, arg string) (*session, *exodus.Data, error) {
	s, err := open(cmd, arg)
	if err != nil {
		return nil, nil, err
	}
	d, err := s.read()
	if err != nil {
		s.close()
		return nil, nil, err
	}
	return s, d, nil
}

// pickVariable returns the requested variable, or the first one with values.
func pickVariable(d *exodus.Data, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	for _, n := range d.NodalNames {
		if d.HasNodal(n) {
			return n, nil
		}
	}
	return "", errNoVariables
}

// pickStep maps a negative step to one counted from the last.
func pickStep(d *exodus.Data, name string, i int) int {
	if i < 0 {
		return frame.Steps(d, name) + i
	}
	return i
}

func buildFrame(d *exodus.Data) (*frame.Frame, error) {
	name, err := pickVariable(d, variable)
	if err != nil {
		return nil, err
	}
	return frame.Build(d, name, pickStep(d, name, step))
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := open(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	inv, err := s.reader.Inspect(s.path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fields in %s:\n", s.source)
	for _, f := range inv.Fields {
		fmt.Fprintf(out, "  %s: %s\n", f.Name, f.Text())
	}
	for _, t := range inv.NameTables {
		fmt.Fprintf(out, "\n%s (%s):\n", t.Category, t.Field)
		for i, name := range t.Names {
			fmt.Fprintf(out, "  %d. %s\n", i+1, name)
		}
	}
	printNotices(out, inv.Notices)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", s.source)
	fmt.Fprintf(w, "Time steps:\t%d\n", d.NumSteps())
	if n := d.NumSteps(); n > 0 {
		fmt.Fprintf(w, "Time range:\t%g .. %g\n", d.TimeSteps[0], d.TimeSteps[n-1])
	}
	fmt.Fprintf(w, "Mesh:\t%s\n", d.Mesh)
	w.Flush()

	fmt.Fprintln(out, "\nNodal variables:")
	if len(d.NodalNames) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range d.NodalNames {
		if !d.HasNodal(name) {
			fmt.Fprintf(w, "  %s\t(no values)\n", name)
			continue
		}
		lo, hi, err := frame.Range(d, name)
		if err != nil {
			fmt.Fprintf(w, "  %s\t%v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "  %s\t%d steps\tmin=%.4g\tmax=%.4g\n", name, frame.Steps(d, name), lo, hi)
	}
	w.Flush()

	if len(d.GlobalNames) > 0 {
		fmt.Fprintln(out, "\nGlobal variables:")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, name := range d.GlobalNames {
			series, err := frame.GlobalHistory(d, name)
			if err != nil {
				fmt.Fprintf(w, "  %s\t(no values)\n", name)
				continue
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", name, viz.Sparkline(series, 20), frame.Summarize(series))
		}
		w.Flush()
	}
	printNotices(out, d.Notices)
	return nil
}

func printNotices(out io.Writer, notices []exodus.Notice) {
	if len(notices) == 0 {
		return
	}
	fmt.Fprintf(out, "\nNotices (%d):\n", len(notices))
	for _, n := range notices {
		fmt.Fprintf(out, "  %s\n", n)
	}
}

func runView(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	opts := []viz.ViewerOption{
		viz.WithScale(s.cfg.ColorScale),
		viz.WithTheme(s.cfg.Terminal.Theme),
		viz.WithCanvasSize(s.cfg.Terminal.Width, s.cfg.Terminal.Height),
	}
	return viz.Run(d, s.source, opts...)
}

func plotOptions(cfg *config.Config) export.Options {
	opts := export.DefaultOptions()
	opts.Width = export.Pixels(cfg.Plot.Width)
	opts.Height = export.Pixels(cfg.Plot.Height)
	opts.Opacity = cfg.Plot.Opacity
	opts.PointRadius = vg.Points(cfg.Plot.PointRadius)
	opts.ColorBar = !noColorBar
	return opts
}

func runPlot(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	f, err := buildFrame(d)
	if err != nil {
		return err
	}
	scale, err := s.scale()
	if err != nil {
		return err
	}

	opts := plotOptions(s.cfg)
	// An explicit --format wins; otherwise the extension decides and the
	// configured format covers paths without one.
	if cmd.Flags().Changed("format") {
		opts.Format = format
	} else if _, err := export.FormatFromPath(plotOut); err != nil {
		opts.Format = s.cfg.Plot.Format
	} else {
		opts.Format = ""
	}
	if fixedRange {
		lo, hi, err := frame.Range(d, f.Variable)
		if err != nil {
			return err
		}
		opts.FixedRange, opts.Min, opts.Max = true, lo, hi
	}

	if err := export.SavePlot(plotOut, f, scale, opts); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"variable": f.Variable, "step": f.Step, "out": plotOut}).Info("plot written")
	return nil
}

func runScatter(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	f, err := buildFrame(d)
	if err != nil {
		return err
	}
	scale, err := s.scale()
	if err != nil {
		return err
	}
	lo, hi, err := frame.Range(d, f.Variable)
	if err != nil {
		return err
	}

	w, h := s.cfg.Terminal.Width, s.cfg.Terminal.Height
	if w == 0 {
		w = cols
	}
	if h == 0 {
		h = rows
	}
	out := cmd.OutOrStdout()
	plain := lipgloss.NewStyle().Foreground(viz.GetTheme(s.cfg.Terminal.Theme).Muted)
	fmt.Fprintln(out, f.Title())
	fmt.Fprintln(out, viz.Scatter(f, scale, lo, hi, w, h, plain))
	fmt.Fprintln(out, f.Stats())

	if svgOut != "" {
		c := viz.NewCanvas(w, h)
		viz.RenderFrame(c, f)
		svg := export.CanvasToSVG(c, 4, func(v float64) string { return scale.Hex(v, lo, hi) })
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	var (
		series  []float64
		caption string
	)
	if global != "" {
		series, err = frame.GlobalHistory(d, global)
		caption = global
	} else {
		var name string
		if name, err = pickVariable(d, variable); err != nil {
			return err
		}
		series, err = frame.NodeHistory(d, name, node)
		caption = fmt.Sprintf("%s at node %d", name, node)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(series) == 1 {
		fmt.Fprintf(out, "%s: %g (single time step)\n", caption, series[0])
		return nil
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)
	fmt.Fprintln(out, frame.Summarize(series))
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	f, err := buildFrame(d)
	if err != nil {
		return err
	}

	if tableOut == "" {
		return writeTable(f, cmd.OutOrStdout())
	}
	file, err := os.Create(tableOut)
	if err != nil {
		return err
	}
	err = writeTable(f, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeTable(f *frame.Frame, w io.Writer) error {
	if asJSON {
		return f.WriteJSON(w)
	}
	return f.WriteCSV(w)
}

func runAnimate(cmd *cobra.Command, args []string) error {
	s, d, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close()

	name, err := pickVariable(d, variable)
	if err != nil {
		return err
	}
	scale, err := s.scale()
	if err != nil {
		return err
	}
	w, h := s.cfg.Terminal.Width, s.cfg.Terminal.Height
	if w == 0 {
		w = cols
	}
	if h == 0 {
		h = rows
	}
	anim, err := export.Animate(d, name, scale, w, h, delay)
	if err != nil {
		return err
	}
	if err := anim.SaveGIF(gifOut); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"variable": name, "frames": anim.Len(), "out": gifOut}).Info("animation written")
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	job, err := batch.LoadJob(args[0])
	if err != nil {
		return err
	}
	file := job.File
	if len(args) == 2 {
		file = args[1]
	}
	if file == "" {
		return fmt.Errorf("batch %s: no results file given", args[0])
	}

	s, d, err := loadData(cmd, file)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	if dryRun {
		paths, err := batch.Plan(job, d, outDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	if job.Scale == "" {
		job.Scale = s.cfg.ColorScale
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := batch.Run(ctx, job, d, batch.Options{
		OutDir:  outDir,
		Plot:    plotOptions(s.cfg),
		Workers: workers,
		Cols:    s.cfg.Terminal.Width,
		Rows:    s.cfg.Terminal.Height,
		Log:     s.log,
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job": job.Name, "outputs": len(paths)}).Info("batch finished")
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}
