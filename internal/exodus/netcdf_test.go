package exodus_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/exoview/internal/exodus"
	"github.com/san-kum/exoview/internal/exodus/exodustest"
)

var _ = Describe("Reading netCDF results files", func() {
	var path string

	BeforeEach(func() {
		path = exodustest.WriteSample(GinkgoT())
	})

	Describe("Read", func() {
		It("extracts time steps and coordinates", func() {
			d, err := exodus.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.TimeSteps).To(Equal(exodustest.SampleTimes))
			Expect(d.X).To(Equal(exodustest.SampleX))
			Expect(d.Y).To(Equal(exodustest.SampleY))
			Expect(d.Z).To(Equal(exodustest.SampleZ))
			Expect(d.Mesh).To(Equal(exodus.MeshShape{Nodes: 4, Elements: 1, HasElements: true}))
		})

		It("decodes NUL padded names and pairs them with their values", func() {
			d, err := exodus.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.NodalNames).To(Equal([]string{"temperature", "pressure"}))
			Expect(d.Nodal).To(HaveLen(2))

			temp := d.Nodal["temperature"]
			Expect(temp).To(HaveLen(exodustest.SampleSteps))
			for s := range temp {
				Expect(temp[s]).To(HaveLen(exodustest.SampleNodes))
				for n := range temp[s] {
					Expect(temp[s][n]).To(Equal(exodustest.SampleTemperature(s, n)))
					Expect(d.Nodal["pressure"][s][n]).To(Equal(exodustest.SamplePressure(s, n)))
				}
			}
			Expect(d.Notices).To(BeEmpty())
		})

		It("reads global variables", func() {
			d, err := exodus.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.GlobalNames).To(Equal([]string{"energy"}))
			Expect(d.Globals["energy"]).To(Equal([]float64{
				exodustest.SampleEnergy(0), exodustest.SampleEnergy(1), exodustest.SampleEnergy(2),
			}))
		})

		It("returns identical data when read twice", func() {
			first, err := exodus.Read(path)
			Expect(err).NotTo(HaveOccurred())
			second, err := exodus.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("fails with a FileOpenError for a missing file", func() {
			_, err := exodus.Read(filepath.Join(GinkgoT().TempDir(), "absent.exo"))
			Expect(err).To(MatchError(exodus.ErrOpen))
			var openErr *exodus.FileOpenError
			Expect(err).To(BeAssignableToTypeOf(openErr))
		})

		It("fails with a FileOpenError for a file that is not netCDF", func() {
			_, err := exodus.Read(exodustest.WriteGarbage(GinkgoT()))
			Expect(err).To(MatchError(exodus.ErrOpen))
		})

		It("fails with a MissingFieldError when coordx is absent", func() {
			b := exodustest.NewBuilder().
				Dim("num_nodes", 2).
				Float64s("coordy", []string{"num_nodes"}, 0, 1)
			_, err := exodus.Read(exodustest.Write(GinkgoT(), b, "nocoords.exo"))
			Expect(err).To(MatchError(exodus.ErrMissingField))
		})

		It("falls back to placeholders and zeros for sparse files", func() {
			b := exodustest.NewBuilder().
				Dim("num_nodes", 2).
				Dim("num_nod_var", 2).
				Dim("len_name", 8).
				Dim("time_step", 1).
				Float64s("coordx", []string{"num_nodes"}, 0, 1).
				Float64s("coordy", []string{"num_nodes"}, 0, 1).
				Chars("name_nod_var", []string{"num_nod_var", "len_name"}, "\xff\xfe", "").
				Float64s("vals_nod_var1", []string{"time_step", "num_nodes"}, 3, 4)

			d, err := exodus.Read(exodustest.Write(GinkgoT(), b, "sparse.exo"))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.TimeSteps).To(Equal([]float64{0}))
			Expect(d.Z).To(Equal([]float64{0, 0}))
			Expect(d.NodalNames).To(Equal([]string{"Var_1", "Var_2"}))
			Expect(d.Nodal).To(HaveKeyWithValue("Var_1", [][]float64{{3, 4}}))
			Expect(d.Nodal).NotTo(HaveKey("Var_2"))
			Expect(d.Mesh.HasElements).To(BeFalse())
		})
	})

	Describe("Inspect", func() {
		It("summarizes every field", func() {
			inv, err := exodus.NewReader().Inspect(path)
			Expect(err).NotTo(HaveOccurred())

			fields := inv.Map()
			Expect(fields).To(HaveLen(11))
			Expect(fields).To(HaveKeyWithValue("time_whole", "Shape: (3), Type: double"))
			Expect(fields).To(HaveKeyWithValue("coordx", "Shape: (4), Type: double"))
			Expect(fields).To(HaveKeyWithValue("connect1", "Shape: (1, 4), Type: int"))
			Expect(fields).To(HaveKeyWithValue("name_nod_var", "Shape: (2, 33), Type: char"))
			Expect(fields).To(HaveKeyWithValue("vals_nod_var1", "Shape: (3, 4), Type: double"))
			Expect(inv.Fields[0].Name).To(Equal("time_whole"))
		})

		It("decodes the name tables in category order", func() {
			inv, err := exodus.NewReader().Inspect(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.NameTables).To(Equal([]exodus.NameTable{
				{Category: "Global Variables", Field: exodus.GlobalNames, Names: []string{"energy"}},
				{Category: "Nodal Variables", Field: exodus.NodalNames, Names: []string{"temperature", "pressure"}},
			}))
		})

		It("lists one-dimensional char fields as text", func() {
			b := exodustest.NewBuilder().
				Dim("len_line", 16).
				Chars("title", []string{"len_line"}, "heat transfer")
			inv, err := exodus.NewReader().Inspect(exodustest.Write(GinkgoT(), b, "title.exo"))
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.Map()).To(HaveKeyWithValue("title", `["heat transfer"]`))
		})

		It("fails for a file that is not netCDF", func() {
			_, err := exodus.NewReader().Inspect(exodustest.WriteGarbage(GinkgoT()))
			Expect(err).To(MatchError(exodus.ErrOpen))
		})
	})
})
