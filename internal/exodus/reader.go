package exodus

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Field and dimension names fixed by the Exodus II convention.
const (
	TimeField = "time_whole"

	CoordX = "coordx"
	CoordY = "coordy"
	CoordZ = "coordz"

	NumNodalVars      = "num_nod_var"
	NodalNames        = "name_nod_var"
	NodalValuesPrefix = "vals_nod_var"

	NumGlobalVars = "num_glo_var"
	GlobalNames   = "name_glo_var"
	GlobalValues  = "vals_glo_var"

	ElementNames = "name_elem_var"
	NumElements  = "num_elem"
)

// MeshShape is the node count and, when declared, the element count.
type MeshShape struct {
	Nodes       int
	Elements    int
	HasElements bool
}

func (m MeshShape) String() string {
	if !m.HasElements {
		return fmt.Sprintf("%d nodes, unknown elements", m.Nodes)
	}
	return fmt.Sprintf("%d nodes, %d elements", m.Nodes, m.Elements)
}

// Data is everything extracted from one results file. It is built once per
// read and not modified afterwards.
type Data struct {
	TimeSteps []float64
	X, Y, Z   []float64

	// Nodal maps a decoded variable name to values indexed [step][node].
	Nodal      map[string][][]float64
	NodalNames []string

	// Globals maps a decoded global variable name to one value per step.
	Globals     map[string][]float64
	GlobalNames []string

	Mesh    MeshShape
	Notices []Notice
}

// NumSteps returns the number of time steps.
func (d *Data) NumSteps() int {
	return len(d.TimeSteps)
}

// HasNodal reports whether values were found for the named nodal variable.
func (d *Data) HasNodal(name string) bool {
	_, ok := d.Nodal[name]
	return ok
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger notices are written to.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		r.log = log
	}
}

// WithOpener replaces the dataset backend.
func WithOpener(open Opener) Option {
	return func(r *Reader) {
		r.open = open
	}
}

// Reader extracts Data and Inventory values from results files.
type Reader struct {
	open Opener
	log  logrus.FieldLogger
}

// NewReader returns a Reader backed by OpenNetCDF. Without WithLogger,
// notices are only recorded on the result.
func NewReader(opts ...Option) *Reader {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	r := &Reader{open: OpenNetCDF, log: quiet}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read extracts Data from the file at path.
func Read(path string) (*Data, error) {
	return NewReader().Read(path)
}

// Read extracts Data from the file at path. The dataset is closed before
// Read returns, whether or not extraction succeeded.
func (r *Reader) Read(path string) (*Data, error) {
	ds, err := r.acquire(path)
	if err != nil {
		return nil, err
	}
	defer r.release(ds, path)

	x := &extraction{ds: ds, log: r.log.WithField("path", path)}
	return x.run()
}

func (r *Reader) acquire(path string) (Dataset, error) {
	ds, err := r.open(path)
	if err != nil {
		var openErr *FileOpenError
		if !errors.As(err, &openErr) {
			err = &FileOpenError{Path: path, Err: err}
		}
		return nil, err
	}
	return ds, nil
}

func (r *Reader) release(ds Dataset, path string) {
	if err := ds.Close(); err != nil {
		r.log.WithError(err).WithField("path", path).Warn("closing dataset")
	}
}

// extraction holds the state of one read.
type extraction struct {
	ds      Dataset
	log     logrus.FieldLogger
	present map[string]bool
	notices []Notice
}

func (x *extraction) run() (*Data, error) {
	d := &Data{}
	d.TimeSteps = x.readTimeSteps()

	var err error
	d.X, d.Y, d.Z, err = x.readCoordinates()
	if err != nil {
		return nil, err
	}

	d.NodalNames = x.readVariableNameTable(NumNodalVars, NodalNames)
	d.Nodal = make(map[string][][]float64, len(d.NodalNames))
	for i, name := range d.NodalNames {
		if values, ok := x.readVariableValues(name, i); ok {
			d.Nodal[name] = values
		}
	}

	d.GlobalNames = x.readVariableNameTable(NumGlobalVars, GlobalNames)
	d.Globals = x.readGlobalValues(d.GlobalNames)

	d.Mesh = x.readMeshShape(d.X)
	d.Notices = x.notices
	return d, nil
}

func (x *extraction) notice(n Notice) {
	x.notices = append(x.notices, n)
	x.log.WithFields(logrus.Fields{
		"field": n.Field,
		"index": n.Index,
		"kind":  n.Kind.String(),
	}).Warn(n.Message)
}

func (x *extraction) has(name string) bool {
	if x.present == nil {
		x.present = make(map[string]bool)
		for _, f := range x.ds.Fields() {
			x.present[f] = true
		}
	}
	return x.present[name]
}

func (x *extraction) readTimeSteps() []float64 {
	if !x.has(TimeField) {
		return []float64{0}
	}
	f, err := x.ds.Field(TimeField)
	if err == nil {
		var steps []float64
		if steps, err = toFloats(f.Values); err == nil && len(steps) > 0 {
			return steps
		}
	}
	msg := "no time steps stored, using t=0"
	if err != nil {
		msg = fmt.Sprintf("unreadable, using t=0: %v", err)
	}
	x.notice(Notice{Kind: FieldReadWarning, Field: TimeField, Message: msg})
	return []float64{0}
}

func (x *extraction) readCoordinates() (cx, cy, cz []float64, err error) {
	if cx, err = x.requiredFloats(CoordX); err != nil {
		return nil, nil, nil, err
	}
	if cy, err = x.requiredFloats(CoordY); err != nil {
		return nil, nil, nil, err
	}
	if len(cy) != len(cx) {
		return nil, nil, nil, fmt.Errorf("%w: %s has %d values, %s has %d", ErrShapeMismatch, CoordY, len(cy), CoordX, len(cx))
	}
	cz = make([]float64, len(cx))
	if !x.has(CoordZ) {
		return cx, cy, cz, nil
	}
	f, err := x.ds.Field(CoordZ)
	if err == nil {
		var z []float64
		if z, err = toFloats(f.Values); err == nil {
			if len(z) == len(cx) {
				return cx, cy, z, nil
			}
			err = fmt.Errorf("%w: %d values for %d nodes", ErrShapeMismatch, len(z), len(cx))
		}
	}
	x.notice(Notice{Kind: FieldReadWarning, Field: CoordZ, Message: fmt.Sprintf("unreadable, using zeros: %v", err)})
	return cx, cy, cz, nil
}

func (x *extraction) requiredFloats(name string) ([]float64, error) {
	if !x.has(name) {
		return nil, &MissingFieldError{Field: name}
	}
	f, err := x.ds.Field(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	vals, err := toFloats(f.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return vals, nil
}

// readVariableNameTable returns count decoded names, count taken from the
// dimension dimensionKey. Rows that are missing or cannot be decoded get
// placeholders.
func (x *extraction) readVariableNameTable(dimensionKey, tableField string) []string {
	count, ok := x.ds.Dimension(dimensionKey)
	if !ok || count <= 0 {
		return []string{}
	}

	var rows []NameRow
	switch f, err := x.ds.Field(tableField); {
	case err != nil:
		x.notice(Notice{Kind: FieldReadWarning, Field: tableField, Message: fmt.Sprintf("name table unreadable: %v", err)})
	default:
		if rows, err = nameRows(f); err != nil {
			x.notice(Notice{Kind: FieldReadWarning, Field: tableField, Message: err.Error()})
		}
	}

	names := make([]string, count)
	for i := range names {
		if i >= len(rows) {
			names[i] = Placeholder(i + 1)
			x.notice(Notice{Kind: NameDecodeWarning, Field: tableField, Index: i + 1, Message: "no name row, using " + names[i]})
			continue
		}
		names[i] = x.decodeVariableName(tableField, rows[i], i+1)
	}
	return names
}

func (x *extraction) decodeVariableName(table string, row NameRow, index int) string {
	dn := DecodeName(row, index)
	if dn.Fallback {
		x.notice(Notice{Kind: NameDecodeWarning, Field: table, Index: index, Message: dn.Reason + ", using " + dn.Name})
	}
	return dn.Name
}

// readVariableValues loads vals_nod_var<index+1>. When the per-variable
// array is absent, a combined vals_nod_var[step][var][node] array is used if
// the file has one.
func (x *extraction) readVariableValues(name string, index int) ([][]float64, bool) {
	field := NodalValuesPrefix + strconv.Itoa(index+1)
	if x.has(field) {
		f, err := x.ds.Field(field)
		if err == nil {
			var values [][]float64
			if values, err = toMatrix(f.Values); err == nil {
				return values, true
			}
		}
		x.notice(Notice{Kind: MissingValueArrayWarning, Field: field, Index: index + 1, Message: fmt.Sprintf("values of %q unreadable: %v", name, err)})
		return nil, false
	}

	if values, ok := x.combinedValues(index); ok {
		return values, true
	}
	x.notice(Notice{Kind: MissingValueArrayWarning, Field: field, Index: index + 1, Message: fmt.Sprintf("no values for %q", name)})
	return nil, false
}

func (x *extraction) combinedValues(index int) ([][]float64, bool) {
	if !x.has(NodalValuesPrefix) {
		return nil, false
	}
	f, err := x.ds.Field(NodalValuesPrefix)
	if err != nil || len(f.Dimensions) != 3 {
		return nil, false
	}
	cube, err := toCube(f.Values)
	if err != nil {
		return nil, false
	}
	values := make([][]float64, len(cube))
	for step, vars := range cube {
		if index >= len(vars) {
			return nil, false
		}
		values[step] = vars[index]
	}
	return values, true
}

// readGlobalValues splits vals_glo_var[step][var] into one series per name.
func (x *extraction) readGlobalValues(names []string) map[string][]float64 {
	out := make(map[string][]float64, len(names))
	if len(names) == 0 {
		return out
	}
	if !x.has(GlobalValues) {
		x.notice(Notice{Kind: MissingValueArrayWarning, Field: GlobalValues, Message: "no global values"})
		return out
	}
	f, err := x.ds.Field(GlobalValues)
	if err != nil {
		x.notice(Notice{Kind: MissingValueArrayWarning, Field: GlobalValues, Message: err.Error()})
		return out
	}
	m, err := toMatrix(f.Values)
	if err != nil {
		x.notice(Notice{Kind: MissingValueArrayWarning, Field: GlobalValues, Message: err.Error()})
		return out
	}
	for i, name := range names {
		series := make([]float64, 0, len(m))
		for _, row := range m {
			if i < len(row) {
				series = append(series, row[i])
			}
		}
		if len(series) != len(m) {
			x.notice(Notice{Kind: MissingValueArrayWarning, Field: GlobalValues, Index: i + 1, Message: fmt.Sprintf("no values for %q", name)})
			continue
		}
		out[name] = series
	}
	return out
}

func (x *extraction) readMeshShape(cx []float64) MeshShape {
	shape := MeshShape{Nodes: len(cx)}
	if n, ok := x.ds.Dimension(NumElements); ok {
		shape.Elements, shape.HasElements = n, true
	}
	return shape
}
