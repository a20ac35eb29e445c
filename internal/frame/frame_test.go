package frame_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/exodus/exodustest"
	"github.com/san-kum/exoview/internal/frame"
)

func testData() *exodus.Data {
	return &exodus.Data{
		TimeSteps: []float64{0, 0.5},
		X:         []float64{0, 1, 2},
		Y:         []float64{0, 1, 0},
		Z:         []float64{0, 0, 0},
		Nodal: map[string][][]float64{
			"temp":  {{1, 2, 3}, {4, 5, 6}},
			"short": {{1, 2}},
		},
		NodalNames:  []string{"temp", "short"},
		Globals:     map[string][]float64{"ke": {10, 20}},
		GlobalNames: []string{"ke"},
	}
}

func TestBuild(t *testing.T) {
	g := NewWithT(t)
	f, err := frame.Build(testData(), "temp", 1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f.Len()).To(Equal(3))
	g.Expect(f.Time).To(Equal(0.5))
	g.Expect(f.Rows[0]).To(Equal(frame.Row{Node: 1, X: 0, Y: 0, Z: 0, Value: 4}))
	g.Expect(f.Rows[2]).To(Equal(frame.Row{Node: 3, X: 2, Y: 0, Z: 0, Value: 6}))
	g.Expect(f.Values()).To(Equal([]float64{4, 5, 6}))
	g.Expect(f.Title()).To(Equal("Variable: temp at Time Step 1"))

	x, y := f.XY(1)
	g.Expect([]float64{x, y}).To(Equal([]float64{1, 1}))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		variable string
		step     int
		want     error
	}{
		{"unknown variable", "nope", 0, frame.ErrUnknownVariable},
		{"negative step", "temp", -1, frame.ErrStepOutOfRange},
		{"step past end", "temp", 2, frame.ErrStepOutOfRange},
		{"short row", "short", 0, frame.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			_, err := frame.Build(testData(), tt.variable, tt.step)
			g.Expect(err).To(MatchError(tt.want))
		})
	}
}

func TestBuildShortY(t *testing.T) {
	g := NewWithT(t)
	d := testData()
	d.Y = d.Y[:2]
	_, err := frame.Build(d, "temp", 0)
	g.Expect(err).To(MatchError(frame.ErrShapeMismatch))
}

func TestBuildWithoutTime(t *testing.T) {
	g := NewWithT(t)
	d := testData()
	d.TimeSteps = []float64{0}
	f, err := frame.Build(d, "temp", 1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(math.IsNaN(f.Time)).To(BeTrue())

	var buf bytes.Buffer
	g.Expect(f.WriteJSON(&buf)).To(Succeed())
	g.Expect(buf.String()).To(ContainSubstring(`"time": null`))
}

func TestWriteCSV(t *testing.T) {
	g := NewWithT(t)
	d := testData()
	d.X[1] = 0.25
	f, err := frame.Build(d, "temp", 0)
	g.Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	g.Expect(f.WriteCSV(&buf)).To(Succeed())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	g.Expect(lines).To(Equal([]string{
		"node,x,y,z,temp",
		"1,0,0,0,1",
		"2,0.25,1,0,2",
		"3,2,0,0,3",
	}))
}

func TestWriteJSON(t *testing.T) {
	g := NewWithT(t)
	f, err := frame.Build(testData(), "temp", 1)
	g.Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	g.Expect(f.WriteJSON(&buf)).To(Succeed())

	var got struct {
		Variable string      `json:"variable"`
		Step     int         `json:"step"`
		Time     float64     `json:"time"`
		Rows     []frame.Row `json:"rows"`
	}
	g.Expect(json.Unmarshal(buf.Bytes(), &got)).To(Succeed())
	g.Expect(got.Variable).To(Equal("temp"))
	g.Expect(got.Time).To(Equal(0.5))
	g.Expect(got.Rows).To(HaveLen(3))
}

func TestStats(t *testing.T) {
	g := NewWithT(t)
	s := frame.Summarize([]float64{4, 1, 3, 2})
	g.Expect(s.Count).To(Equal(4))
	g.Expect(s.Min).To(Equal(1.0))
	g.Expect(s.Max).To(Equal(4.0))
	g.Expect(s.Mean).To(Equal(2.5))
	g.Expect(s.StdDev).To(BeNumerically("~", math.Sqrt(5.0/3.0), 1e-12))
	g.Expect(s.Median).To(Equal(2.0))

	one := frame.Summarize([]float64{7})
	g.Expect(one.StdDev).To(Equal(0.0))

	empty := frame.Summarize(nil)
	g.Expect(empty.Count).To(Equal(0))
	g.Expect(math.IsNaN(empty.Mean)).To(BeTrue())
}

func TestHistories(t *testing.T) {
	g := NewWithT(t)
	d := testData()

	h, err := frame.NodeHistory(d, "temp", 2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(h).To(Equal([]float64{2, 5}))

	_, err = frame.NodeHistory(d, "temp", 0)
	g.Expect(err).To(MatchError(frame.ErrNodeOutOfRange))
	_, err = frame.NodeHistory(d, "temp", 4)
	g.Expect(err).To(MatchError(frame.ErrNodeOutOfRange))
	_, err = frame.NodeHistory(d, "nope", 1)
	g.Expect(err).To(MatchError(frame.ErrUnknownVariable))

	gh, err := frame.GlobalHistory(d, "ke")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gh).To(Equal([]float64{10, 20}))
	gh[0] = 99
	g.Expect(d.Globals["ke"][0]).To(Equal(10.0))

	_, err = frame.GlobalHistory(d, "pe")
	g.Expect(err).To(MatchError(frame.ErrUnknownVariable))
}

func TestRangeAndMeans(t *testing.T) {
	g := NewWithT(t)
	d := testData()

	min, max, err := frame.Range(d, "temp")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(min).To(Equal(1.0))
	g.Expect(max).To(Equal(6.0))

	means, err := frame.StepMeans(d, "temp")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(means).To(Equal([]float64{2, 5}))
	g.Expect(frame.Steps(d, "temp")).To(Equal(2))
}

func TestBuildFromFile(t *testing.T) {
	g := NewWithT(t)
	d, err := exodus.Read(exodustest.WriteSample(t))
	g.Expect(err).NotTo(HaveOccurred())

	f, err := frame.Build(d, "temperature", 2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f.Time).To(Equal(exodustest.SampleTimes[2]))
	for i, r := range f.Rows {
		g.Expect(r.X).To(Equal(exodustest.SampleX[i]))
		g.Expect(r.Value).To(Equal(exodustest.SampleTemperature(2, i)))
	}
}
