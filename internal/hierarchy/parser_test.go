package hierarchy_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/hierarchy"
)

const (
	camera = "0\t30\t60"
	light  = "1\t1\t0.95\t0.2\t0.8\t1\t0.01"
	sun    = "sun.jpg\t4\t25"
)

func withHeaders(records ...string) []string {
	return append([]string{camera, light}, records...)
}

type memSource map[string][]string

func (m memSource) ReadLines(path string) ([]string, error) {
	lines, ok := m[path]
	if !ok {
		return nil, hierarchy.ErrNotFound
	}
	return lines, nil
}

var _ = Describe("Parse", func() {
	var scene *hierarchy.Scene

	Context("with the bundled solar system", func() {
		BeforeEach(func() {
			var err error
			scene, err = hierarchy.Load(filepath.Join("testdata", "solar.sol"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads the camera and light headers", func() {
			Expect(scene.Camera).To(Equal(hierarchy.Vec3{X: 0, Y: 30, Z: 60}))
			Expect(scene.Light.Color).To(Equal([3]float64{1, 1, 0.95}))
			Expect(scene.Light.Ambient).To(Equal(0.2))
			Expect(scene.Light.Diffuse).To(Equal(0.8))
			Expect(scene.Light.Specular).To(Equal(1.0))
			Expect(scene.Light.LinearAttenuation).To(Equal(0.01))
			Expect(scene.Light.AmbientRGBA()).To(Equal([4]float64{0.2, 0.2, 0.2, 1}))
			Expect(scene.Path).To(HaveSuffix("solar.sol"))
		})

		It("builds a tree with exactly one star at the root", func() {
			tree := scene.Tree
			Expect(tree.Len()).To(Equal(12))

			stars := 0
			tree.Walk(func(id body.ID, b body.Body) bool {
				if b.IsStar() {
					stars++
					Expect(id).To(Equal(tree.Root()))
				}
				return true
			})
			Expect(stars).To(Equal(1))
		})

		It("reaches the star from every planet in depth steps", func() {
			tree := scene.Tree
			for id := body.ID(1); int(id) < tree.Len(); id++ {
				anc := tree.Ancestors(id)
				Expect(anc).To(HaveLen(tree.Depth(id)))
				Expect(anc[len(anc)-1]).To(Equal(tree.Root()))
			}
		})

		It("attaches each record to the latest record one level up", func() {
			tree := scene.Tree
			parentOf := func(id body.ID) body.ID {
				p, ok := tree.Parent(id)
				Expect(ok).To(BeTrue())
				return p
			}

			Expect(tree.Body(10).Texture).To(Equal("plume.jpg"))
			Expect(tree.Depth(10)).To(Equal(3))
			Expect(parentOf(10)).To(Equal(body.ID(9)))

			// europa follows io's deeper child and still belongs to jupiter
			Expect(tree.Body(11).Texture).To(Equal("europa.jpg"))
			Expect(parentOf(11)).To(Equal(body.ID(8)))

			Expect(parentOf(7)).To(Equal(body.ID(5)))
			Expect(parentOf(8)).To(Equal(tree.Root()))
		})

		It("keeps signed rotation periods and source lines", func() {
			venus := scene.Tree.Body(2)
			Expect(venus.RotationPeriod).To(Equal(-243.0))
			Expect(venus.Line).To(Equal(5))
			Expect(venus.Specular).To(Equal(0.4))
		})
	})

	It("accepts CRLF line endings and skips blank lines", func() {
		s, err := hierarchy.Parse([]string{camera + "\r", light + "\r", sun + "\r", "", "\tearth.jpg\t1\t1\t16\t365\t0.5\r"})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tree.Len()).To(Equal(2))
		Expect(s.Tree.Body(1).Specular).To(Equal(0.5))
	})

	It("accepts a lone star", func() {
		s, err := hierarchy.Parse(withHeaders(sun))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tree.Len()).To(Equal(1))
		Expect(s.Tree.Body(0).Radius).To(Equal(4.0))
	})

	DescribeTable("rejects malformed input",
		func(lines []string, section error, line int) {
			s, err := hierarchy.Parse(lines)
			Expect(s).To(BeNil())
			Expect(err).To(MatchError(hierarchy.ErrInvalidFormat))
			Expect(err).To(MatchError(section))

			var fe *hierarchy.FormatError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Line).To(Equal(line))
		},
		Entry("empty file", []string{}, hierarchy.ErrInvalidHeader, 1),
		Entry("missing light line", []string{camera}, hierarchy.ErrInvalidHeader, 2),
		Entry("camera with two floats", []string{"0\t30", light, sun}, hierarchy.ErrInvalidHeader, 1),
		Entry("camera with a word", []string{"0\tup\t60", light, sun}, hierarchy.ErrInvalidHeader, 1),
		Entry("light with six floats", []string{camera, "1\t1\t1\t0.2\t0.8\t1", sun}, hierarchy.ErrInvalidHeader, 2),
		Entry("light with NaN", []string{camera, "1\t1\t1\t0.2\t0.8\t1\tNaN", sun}, hierarchy.ErrInvalidHeader, 2),
		Entry("body with four fields", withHeaders(sun, "\trock.jpg\t1\t1\t3"), hierarchy.ErrInvalidBody, 4),
		Entry("non-numeric radius", withHeaders("sun.jpg\tbig\t25"), hierarchy.ErrInvalidBody, 3),
		Entry("second star", withHeaders(sun, "other.jpg\t2\t10"), hierarchy.ErrInvalidBody, 4),
		Entry("planet before any star", withHeaders("earth.jpg\t1\t1\t16\t365\t0.5", sun), hierarchy.ErrInvalidBody, 3),
		Entry("planet at depth 0 after the star", withHeaders(sun, "earth.jpg\t1\t1\t16\t365\t0.5"), hierarchy.ErrInvalidBody, 4),
		Entry("indented first record", withHeaders("\tearth.jpg\t1\t1\t16\t365\t0.5"), hierarchy.ErrInvalidBody, 3),
		Entry("depth skips a level", withHeaders(sun, "\t\tmoon.jpg\t1\t1\t2\t27\t0"), hierarchy.ErrInvalidBody, 4),
		Entry("indented star", withHeaders(sun, "\tearth.jpg\t1\t1\t16\t365\t0.5", "\tsun2.jpg\t1\t1"), hierarchy.ErrInvalidBody, 5),
		Entry("zero orbital period", withHeaders(sun, "\tearth.jpg\t1\t1\t16\t0\t0.5"), hierarchy.ErrInvalidBody, 4),
		Entry("negative radius", withHeaders(sun, "\tearth.jpg\t-1\t1\t16\t365\t0.5"), hierarchy.ErrInvalidBody, 4),
		Entry("empty texture", withHeaders(" \t4\t25"), hierarchy.ErrInvalidBody, 3),
		Entry("headers only", withHeaders(), hierarchy.ErrInvalidBody, 2),
	)

	It("reports the cause of a duplicate star", func() {
		_, err := hierarchy.Parse(withHeaders(sun, "other.jpg\t2\t10"))
		Expect(err).To(MatchError(body.ErrDuplicateStar))
		Expect(err.Error()).To(ContainSubstring("line 4"))
	})

	It("reports a planet before the star as a missing star", func() {
		_, err := hierarchy.Parse(withHeaders("earth.jpg\t1\t1\t16\t365\t0.5"))
		Expect(err).To(MatchError(body.ErrMissingStar))
	})
})

var _ = Describe("Load", func() {
	It("fails with ErrNotFound for a missing file", func() {
		_, err := hierarchy.Load(filepath.Join(GinkgoT().TempDir(), "absent.sol"))
		Expect(err).To(MatchError(hierarchy.ErrNotFound))
	})

	It("fails with ErrNotFound for a directory", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "system.sol")
		Expect(os.Mkdir(dir, 0o755)).To(Succeed())
		_, err := hierarchy.Load(dir)
		Expect(err).To(MatchError(hierarchy.ErrNotFound))
	})

	It("checks the extension before touching the file", func() {
		_, err := hierarchy.Load(filepath.Join("testdata", "solar.txt"))
		Expect(err).To(MatchError(hierarchy.ErrInvalidExtension))
	})

	It("names the file and line of a format error", func() {
		_, err := hierarchy.Load(filepath.Join("testdata", "bad_header.sol"))
		Expect(err).To(MatchError(hierarchy.ErrInvalidHeader))
		Expect(err.Error()).To(ContainSubstring("bad_header.sol"))
		Expect(err.Error()).To(ContainSubstring("line 1"))
	})

	It("reads through any line source", func() {
		src := memSource{"mem.sol": withHeaders(sun, "\tearth.jpg\t1\t1\t16\t365\t0.5")}
		s, err := hierarchy.LoadFrom(src, "mem.sol")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tree.Len()).To(Equal(2))
		Expect(s.Path).To(Equal("mem.sol"))
	})
})

var _ = DescribeTable("CheckExtension",
	func(path string, ok bool) {
		err := hierarchy.CheckExtension(path)
		if ok {
			Expect(err).NotTo(HaveOccurred())
		} else {
			Expect(err).To(MatchError(hierarchy.ErrInvalidExtension))
		}
	},
	Entry("sol file", "systems/solar.sol", true),
	Entry("bare name", "solar.sol", true),
	Entry("text file", "solar.txt", false),
	Entry("no extension", "solar", false),
	Entry("suffix only", ".sol", false),
	Entry("upper case", "SOLAR.SOL", false),
	Entry("sol in the middle", "solar.sol.bak", false),
)
