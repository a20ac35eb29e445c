package exodus

import (
	"fmt"
	"reflect"
	"strings"
)

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	}
	return 0, false
}

// toFloats converts scalar or one-dimensional numeric values.
func toFloats(values interface{}) ([]float64, error) {
	switch vs := values.(type) {
	case []float64:
		out := make([]float64, len(vs))
		copy(out, vs)
		return out, nil
	case []float32:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	}

	rv := reflect.ValueOf(values)
	if x, ok := numeric(rv); ok {
		return []float64{x}, nil
	}
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, values)
	}
	out := make([]float64, rv.Len())
	for i := range out {
		x, ok := numeric(rv.Index(i))
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, values)
		}
		out[i] = x
	}
	return out, nil
}

// toMatrix converts two-dimensional numeric values. One-dimensional values
// become a single row.
func toMatrix(values interface{}) ([][]float64, error) {
	switch vs := values.(type) {
	case [][]float64:
		out := make([][]float64, len(vs))
		for i, row := range vs {
			out[i] = make([]float64, len(row))
			copy(out[i], row)
		}
		return out, nil
	}

	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, values)
	}
	if rv.Len() > 0 && rv.Index(0).Kind() != reflect.Slice {
		row, err := toFloats(values)
		if err != nil {
			return nil, err
		}
		return [][]float64{row}, nil
	}
	out := make([][]float64, rv.Len())
	for i := range out {
		row, err := toFloats(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// toCube converts three-dimensional numeric values.
func toCube(values interface{}) ([][][]float64, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, values)
	}
	out := make([][][]float64, rv.Len())
	for i := range out {
		m, err := toMatrix(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// nameRows splits a name table field into rows. Two-dimensional char tables
// arrive as one string per row with the NUL padding intact; one-dimensional
// string fields hold names that are already decoded.
func nameRows(f *Field) ([]NameRow, error) {
	switch vs := f.Values.(type) {
	case []string:
		rows := make([]NameRow, len(vs))
		for i, s := range vs {
			if len(f.Dimensions) >= 2 {
				rows[i] = ByteRow([]byte(s))
			} else {
				rows[i] = ScalarRow(s)
			}
		}
		return rows, nil
	case string:
		return []NameRow{ByteRow([]byte(vs))}, nil
	case [][]string:
		rows := make([]NameRow, len(vs))
		for i, parts := range vs {
			rows[i] = ScalarRow(parts...)
		}
		return rows, nil
	case [][]uint8:
		rows := make([]NameRow, len(vs))
		for i, b := range vs {
			rows[i] = ByteRow(b)
		}
		return rows, nil
	case [][]int8:
		rows := make([]NameRow, len(vs))
		for i, b := range vs {
			raw := make([]byte, len(b))
			for j, c := range b {
				raw[j] = byte(c)
			}
			rows[i] = ByteRow(raw)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: name table %s holds %T", ErrUnsupportedType, f.Name, f.Values)
}

// stringList renders a one-dimensional char or string field as text lines.
func stringList(values interface{}) ([]string, bool) {
	switch vs := values.(type) {
	case string:
		return []string{strings.TrimSpace(strings.Trim(vs, "\x00"))}, true
	case []string:
		out := make([]string, len(vs))
		copy(out, vs)
		return out, true
	}
	return nil, false
}
