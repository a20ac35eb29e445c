// Package frame flattens extracted nodal data into tidy per-node tables for
// plotting, statistics and export.
package frame

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/exoview/internal/exodus"
)

var (
	ErrUnknownVariable = errors.New("frame: unknown variable")
	ErrStepOutOfRange  = errors.New("frame: time step out of range")
	ErrNodeOutOfRange  = errors.New("frame: node out of range")
	ErrShapeMismatch   = errors.New("frame: values do not match node count")
)

// Row is one node of a frame. Node is the 1-based Exodus node number.
type Row struct {
	Node  int     `json:"node"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Value float64 `json:"value"`
}

// Frame is one nodal variable at one time step.
type Frame struct {
	Variable string  `json:"variable"`
	Step     int     `json:"step"`
	Time     float64 `json:"time"`
	Rows     []Row   `json:"rows"`
}

// Build returns the frame of variable at step.
func Build(d *exodus.Data, variable string, step int) (*Frame, error) {
	values, ok := d.Nodal[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, variable)
	}
	if step < 0 || step >= len(values) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrStepOutOfRange, step, len(values))
	}
	row := values[step]
	if len(row) != len(d.X) {
		return nil, fmt.Errorf("%w: %q has %d values for %d nodes", ErrShapeMismatch, variable, len(row), len(d.X))
	}
	if len(d.Y) != len(d.X) {
		return nil, fmt.Errorf("%w: %d y coordinates for %d nodes", ErrShapeMismatch, len(d.Y), len(d.X))
	}

	f := &Frame{Variable: variable, Step: step, Time: math.NaN(), Rows: make([]Row, len(row))}
	if step < len(d.TimeSteps) {
		f.Time = d.TimeSteps[step]
	}
	for i, v := range row {
		r := Row{Node: i + 1, X: d.X[i], Y: d.Y[i], Value: v}
		if i < len(d.Z) {
			r.Z = d.Z[i]
		}
		f.Rows[i] = r
	}
	return f, nil
}

// Steps returns how many time steps variable has values for.
func Steps(d *exodus.Data, variable string) int {
	return len(d.Nodal[variable])
}

// Title is the plot title for the frame.
func (f *Frame) Title() string {
	return fmt.Sprintf("Variable: %s at Time Step %d", f.Variable, f.Step)
}

// Len returns the number of nodes.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Values returns the value column.
func (f *Frame) Values() []float64 {
	out := make([]float64, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Value
	}
	return out
}

// XY returns the coordinate at row i; it implements gonum's plotter.XYer.
func (f *Frame) XY(i int) (x, y float64) {
	return f.Rows[i].X, f.Rows[i].Y
}

// WriteCSV writes the frame with a node,x,y,z,<variable> header.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"node", "x", "y", "z", f.Variable}); err != nil {
		return err
	}
	for _, r := range f.Rows {
		rec := []string{
			strconv.Itoa(r.Node),
			formatFloat(r.X),
			formatFloat(r.Y),
			formatFloat(r.Z),
			formatFloat(r.Value),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the frame as indented JSON. A missing time is written as null.
func (f *Frame) WriteJSON(w io.Writer) error {
	type alias Frame
	out := struct {
		*alias
		Time *float64 `json:"time"`
	}{alias: (*alias)(f)}
	if !math.IsNaN(f.Time) {
		out.Time = &f.Time
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// NodeHistory returns the values of variable at one node over every step.
// node is 1-based.
func NodeHistory(d *exodus.Data, variable string, node int) ([]float64, error) {
	values, ok := d.Nodal[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, variable)
	}
	if node < 1 || node > len(d.X) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrNodeOutOfRange, node, len(d.X))
	}
	out := make([]float64, len(values))
	for s, row := range values {
		if node > len(row) {
			return nil, fmt.Errorf("%w: step %d has %d values", ErrShapeMismatch, s, len(row))
		}
		out[s] = row[node-1]
	}
	return out, nil
}

// GlobalHistory returns the series of a global variable.
func GlobalHistory(d *exodus.Data, name string) ([]float64, error) {
	series, ok := d.Globals[name]
	if !ok {
		return nil, fmt.Errorf("%w: global %q", ErrUnknownVariable, name)
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out, nil
}
