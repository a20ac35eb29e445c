package exodus

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// Field is one variable of a dataset with its values fully loaded.
//
// Values holds whatever the backend produced: []float64, [][]float64,
// []string for a two-dimensional char table, string for a one-dimensional
// char field, and so on. The conversion helpers in this package turn these
// into the shapes the reader needs.
type Field struct {
	Name       string
	Dimensions []string
	Values     interface{}
}

// FieldInfo describes a field without loading its values.
type FieldInfo struct {
	Name       string
	Dimensions []string
	Shape      []int
	Type       string // CDL type name: char, double, int...
}

// Dataset is a read-only handle on a structured scientific file.
type Dataset interface {
	// Fields lists the field names in declaration order.
	Fields() []string
	// Dimension returns the declared size of a named dimension.
	Dimension(name string) (int, bool)
	// Field loads one field; unknown names return ErrFieldNotFound.
	Field(name string) (*Field, error)
	// Describe returns shape and type information for one field.
	Describe(name string) (*FieldInfo, error)
	Close() error
}

// Opener acquires a Dataset for a path.
type Opener func(path string) (Dataset, error)

// dimensioner is implemented by both the CDF and HDF5 groups of
// go-native-netcdf but is not part of api.Group.
type dimensioner interface {
	GetDimension(name string) (uint64, bool)
}

type ncDataset struct {
	group  api.Group
	fields []string
	index  map[string]struct{}
}

// OpenNetCDF opens a netCDF classic, 64-bit offset, CDF-5 or netCDF-4 file.
func OpenNetCDF(path string) (Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	ds := &ncDataset{group: g, fields: g.ListVariables(), index: make(map[string]struct{})}
	for _, name := range ds.fields {
		ds.index[name] = struct{}{}
	}
	return ds, nil
}

func (d *ncDataset) Fields() []string {
	out := make([]string, len(d.fields))
	copy(out, d.fields)
	return out
}

func (d *ncDataset) Dimension(name string) (int, bool) {
	dims, ok := d.group.(dimensioner)
	if !ok {
		return 0, false
	}
	n, ok := dims.GetDimension(name)
	if !ok {
		return 0, false
	}
	return int(n), true
}

func (d *ncDataset) Field(name string) (*Field, error) {
	if d.group == nil {
		return nil, ErrClosed
	}
	if _, ok := d.index[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	v, err := d.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return &Field{Name: name, Dimensions: v.Dimensions, Values: v.Values}, nil
}

func (d *ncDataset) Describe(name string) (*FieldInfo, error) {
	if d.group == nil {
		return nil, ErrClosed
	}
	if _, ok := d.index[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	vg, err := d.group.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", name, err)
	}
	dims := vg.Dimensions()
	shape := make([]int, len(dims))
	for i, dim := range dims {
		if i == 0 {
			// Len accounts for the record count of an unlimited first dimension.
			shape[i] = int(vg.Len())
			continue
		}
		shape[i], _ = d.Dimension(dim)
	}
	return &FieldInfo{Name: name, Dimensions: dims, Shape: shape, Type: vg.Type()}, nil
}

func (d *ncDataset) Close() error {
	if d.group == nil {
		return ErrClosed
	}
	d.group.Close()
	d.group = nil
	return nil
}
