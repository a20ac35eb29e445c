package exodustest

import (
	"os"
	"path/filepath"
)

// TB is the part of testing.TB the fixture writers need. GinkgoT satisfies it.
type TB interface {
	Helper()
	TempDir() string
	Fatalf(format string, args ...interface{})
}

// Sample mesh layout: a unit square of four nodes forming one quad element,
// three time steps, two nodal variables and one global variable.
const (
	SampleNodes = 4
	SampleSteps = 3
)

var (
	SampleTimes = []float64{0, 0.5, 1}
	SampleX     = []float64{0, 1, 1, 0}
	SampleY     = []float64{0, 0, 1, 1}
	SampleZ     = []float64{0, 0, 0, 0}
)

// SampleTemperature is the value of "temperature" at a step and node.
func SampleTemperature(step, node int) float64 {
	return 100 + 10*float64(step) + float64(node)
}

// SamplePressure is the value of "pressure" at a step and node.
func SamplePressure(step, node int) float64 {
	return float64(step) * float64(node) / 2
}

// SampleEnergy is the value of the global "energy" at a step.
func SampleEnergy(step int) float64 {
	return 1 + float64(step)
}

// Sample returns a builder for the sample mesh.
func Sample() *Builder {
	var temp, pres, energy []float64
	for s := 0; s < SampleSteps; s++ {
		for n := 0; n < SampleNodes; n++ {
			temp = append(temp, SampleTemperature(s, n))
			pres = append(pres, SamplePressure(s, n))
		}
		energy = append(energy, SampleEnergy(s))
	}

	return NewBuilder().
		Dim("len_name", 33).
		Dim("time_step", SampleSteps).
		Dim("num_dim", 3).
		Dim("num_nodes", SampleNodes).
		Dim("num_elem", 1).
		Dim("num_el_blk", 1).
		Dim("num_el_in_blk1", 1).
		Dim("num_nod_per_el1", 4).
		Dim("num_nod_var", 2).
		Dim("num_glo_var", 1).
		Float64s("time_whole", []string{"time_step"}, SampleTimes...).
		Chars("coor_names", []string{"num_dim", "len_name"}, "x", "y", "z").
		Float64s("coordx", []string{"num_nodes"}, SampleX...).
		Float64s("coordy", []string{"num_nodes"}, SampleY...).
		Float64s("coordz", []string{"num_nodes"}, SampleZ...).
		Int32s("connect1", []string{"num_el_in_blk1", "num_nod_per_el1"}, 1, 2, 3, 4).
		Chars("name_nod_var", []string{"num_nod_var", "len_name"}, "temperature", "pressure").
		Float64s("vals_nod_var1", []string{"time_step", "num_nodes"}, temp...).
		Float64s("vals_nod_var2", []string{"time_step", "num_nodes"}, pres...).
		Chars("name_glo_var", []string{"num_glo_var", "len_name"}, "energy").
		Float64s("vals_glo_var", []string{"time_step", "num_glo_var"}, energy...)
}

// WriteSample writes the sample mesh into a temporary directory and returns
// its path.
func WriteSample(t TB) string {
	t.Helper()
	return Write(t, Sample(), "sample.exo")
}

// Write encodes b into a temporary directory and returns the file path.
func Write(t TB, b *Builder, name string) string {
	t.Helper()
	path, err := b.WriteFile(t.TempDir(), name)
	if err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// WriteGarbage writes a file that is not netCDF.
func WriteGarbage(t TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "garbage.exo")
	if err := os.WriteFile(path, []byte("this is not a netCDF file"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}
