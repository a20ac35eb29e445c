package exodustest

import (
	"fmt"
	"reflect"

	"github.com/san-kum/exoview/internal/exodus"
)

// MemDataset is an in-memory exodus.Dataset. Fields are served in the order
// they were added.
type MemDataset struct {
	dims   map[string]int
	fields []*exodus.Field
	types  map[string]string
	fail   map[string]error

	// Closes counts calls to Close.
	Closes int
}

// NewMemDataset returns an empty dataset.
func NewMemDataset() *MemDataset {
	return &MemDataset{
		dims:  make(map[string]int),
		types: make(map[string]string),
		fail:  make(map[string]error),
	}
}

// Dim declares a dimension.
func (m *MemDataset) Dim(name string, size int) *MemDataset {
	m.dims[name] = size
	return m
}

// Set adds or replaces a field. typ is the CDL type Describe reports.
func (m *MemDataset) Set(name, typ string, dims []string, values interface{}) *MemDataset {
	f := &exodus.Field{Name: name, Dimensions: dims, Values: values}
	m.types[name] = typ
	for i, existing := range m.fields {
		if existing.Name == name {
			m.fields[i] = f
			return m
		}
	}
	m.fields = append(m.fields, f)
	return m
}

// Fail makes Field and Describe return err for name.
func (m *MemDataset) Fail(name string, err error) *MemDataset {
	m.fail[name] = err
	return m
}

// Opener returns an exodus.Opener that always hands out m.
func (m *MemDataset) Opener() exodus.Opener {
	return func(string) (exodus.Dataset, error) {
		return m, nil
	}
}

// Closed reports whether Close has been called.
func (m *MemDataset) Closed() bool {
	return m.Closes > 0
}

func (m *MemDataset) Fields() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Name
	}
	return out
}

func (m *MemDataset) Dimension(name string) (int, bool) {
	n, ok := m.dims[name]
	return n, ok
}

func (m *MemDataset) lookup(name string) (*exodus.Field, error) {
	if err, ok := m.fail[name]; ok {
		return nil, err
	}
	for _, f := range m.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", exodus.ErrFieldNotFound, name)
}

func (m *MemDataset) Field(name string) (*exodus.Field, error) {
	f, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	cp := *f
	return &cp, nil
}

func (m *MemDataset) Describe(name string) (*exodus.FieldInfo, error) {
	f, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	var shape []int
	v := reflect.ValueOf(f.Values)
	for i := 0; i < len(f.Dimensions); i++ {
		if v.Kind() == reflect.String {
			shape = append(shape, v.Len())
			break
		}
		if v.Kind() != reflect.Slice {
			break
		}
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	return &exodus.FieldInfo{Name: name, Dimensions: f.Dimensions, Shape: shape, Type: m.types[name]}, nil
}

func (m *MemDataset) Close() error {
	m.Closes++
	return nil
}
