// Package exodustest builds Exodus fixtures for tests: real netCDF classic
// files through Builder and in-memory datasets through MemDataset.
package exodustest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// netCDF classic header tags and type codes.
const (
	tagAbsent    = 0x00
	tagDimension = 0x0a
	tagVariable  = 0x0b

	typeChar   = 2
	typeInt    = 4
	typeFloat  = 5
	typeDouble = 6
)

type dimension struct {
	name string
	size int
}

type variable struct {
	name  string
	dims  []string
	ncTyp int32
	data  []byte
}

// Builder assembles a netCDF classic (CDF-1) file with fixed-size
// dimensions. Errors are collected and reported by Bytes.
type Builder struct {
	dims []dimension
	vars []variable
	err  error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Dim declares a dimension. Sizes must be positive: a zero size marks the
// unlimited dimension in the classic format.
func (b *Builder) Dim(name string, size int) *Builder {
	if size <= 0 {
		b.fail("dimension %s: size %d must be positive", name, size)
		return b
	}
	b.dims = append(b.dims, dimension{name: name, size: size})
	return b
}

// Float64s adds a double variable.
func (b *Builder) Float64s(name string, dims []string, vals ...float64) *Builder {
	var buf bytes.Buffer
	for _, v := range vals {
		binary.Write(&buf, binary.BigEndian, math.Float64bits(v))
	}
	return b.add(name, dims, typeDouble, len(vals), buf.Bytes())
}

// Float32s adds a float variable.
func (b *Builder) Float32s(name string, dims []string, vals ...float32) *Builder {
	var buf bytes.Buffer
	for _, v := range vals {
		binary.Write(&buf, binary.BigEndian, math.Float32bits(v))
	}
	return b.add(name, dims, typeFloat, len(vals), buf.Bytes())
}

// Int32s adds an int variable.
func (b *Builder) Int32s(name string, dims []string, vals ...int32) *Builder {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, vals)
	return b.add(name, dims, typeInt, len(vals), buf.Bytes())
}

// Chars adds a char variable. Each row is NUL padded to the size of the last
// dimension; a one-dimensional variable takes a single row.
func (b *Builder) Chars(name string, dims []string, rows ...string) *Builder {
	if len(dims) == 0 {
		b.fail("variable %s: char variables need a dimension", name)
		return b
	}
	width, ok := b.size(dims[len(dims)-1])
	if !ok {
		b.fail("variable %s: unknown dimension %s", name, dims[len(dims)-1])
		return b
	}
	var buf bytes.Buffer
	for _, row := range rows {
		if len(row) > width {
			b.fail("variable %s: row %q wider than %d", name, row, width)
			return b
		}
		buf.WriteString(row)
		buf.Write(make([]byte, width-len(row)))
	}
	return b.add(name, dims, typeChar, buf.Len(), buf.Bytes())
}

func (b *Builder) add(name string, dims []string, ncTyp int32, count int, data []byte) *Builder {
	want := 1
	for _, d := range dims {
		n, ok := b.size(d)
		if !ok {
			b.fail("variable %s: unknown dimension %s", name, d)
			return b
		}
		want *= n
	}
	if count != want {
		b.fail("variable %s: %d values for shape of %d", name, count, want)
		return b
	}
	b.vars = append(b.vars, variable{name: name, dims: dims, ncTyp: ncTyp, data: data})
	return b
}

func (b *Builder) size(name string) (int, bool) {
	for _, d := range b.dims {
		if d.name == name {
			return d.size, true
		}
	}
	return 0, false
}

func (b *Builder) dimID(name string) int32 {
	for i, d := range b.dims {
		if d.name == name {
			return int32(i)
		}
	}
	return -1
}

func (b *Builder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf("exodustest: "+format, args...)
	}
}

// Bytes encodes the file.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	// The header length does not depend on the offsets, so encode it once to
	// measure and again with the real data offsets.
	header := b.header(make([]int32, len(b.vars)))
	begins := make([]int32, len(b.vars))
	offset := int32(len(header))
	for i, v := range b.vars {
		begins[i] = offset
		offset += int32(padded(len(v.data)))
	}

	var out bytes.Buffer
	out.Write(b.header(begins))
	for _, v := range b.vars {
		out.Write(v.data)
		out.Write(make([]byte, padded(len(v.data))-len(v.data)))
	}
	return out.Bytes(), nil
}

// WriteFile encodes the file into dir and returns its path.
func (b *Builder) WriteFile(dir, name string) (string, error) {
	data, err := b.Bytes()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (b *Builder) header(begins []int32) []byte {
	var h bytes.Buffer
	put := func(v int32) { binary.Write(&h, binary.BigEndian, v) }
	name := func(s string) {
		put(int32(len(s)))
		h.WriteString(s)
		h.Write(make([]byte, padded(len(s))-len(s)))
	}

	h.WriteString("CDF\x01")
	put(0) // numrecs

	if len(b.dims) == 0 {
		put(tagAbsent)
		put(0)
	} else {
		put(tagDimension)
		put(int32(len(b.dims)))
		for _, d := range b.dims {
			name(d.name)
			put(int32(d.size))
		}
	}

	// global attributes
	put(tagAbsent)
	put(0)

	if len(b.vars) == 0 {
		put(tagAbsent)
		put(0)
		return h.Bytes()
	}
	put(tagVariable)
	put(int32(len(b.vars)))
	for i, v := range b.vars {
		name(v.name)
		put(int32(len(v.dims)))
		for _, d := range v.dims {
			put(b.dimID(d))
		}
		put(tagAbsent)
		put(0)
		put(v.ncTyp)
		put(int32(padded(len(v.data))))
		put(begins[i])
	}
	return h.Bytes()
}

func padded(n int) int {
	return (n + 3) &^ 3
}
