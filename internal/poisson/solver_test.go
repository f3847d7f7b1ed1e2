package poisson_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("PoissonPotential", func() {
	Context("equal binary on the reference grid", Ordered, func() {
		sys := binary.System{M1: 1, M2: 1, R1: 0.2, R2: 0.2, Separation: 2, G: 1}
		grid := binary.Grid{HalfWidth: 10, Size: 101}

		var sol *poisson.Solution
		var xs []float64

		BeforeAll(func() {
			var err error
			sol, err = poisson.PoissonPotential(sys, grid)
			Expect(err).NotTo(HaveOccurred())
			xs = grid.Axis()
		})

		It("returns a finite, negative potential everywhere", func() {
			data := sol.Potential.RawMatrix().Data
			Expect(data).To(HaveLen(grid.Nodes()))
			for _, v := range data {
				Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
			}
			Expect(floats.Max(data)).To(BeNumerically("<", 0))
			Expect(sol.SwitchingRadius).To(BeNumerically("~", 2.2, 1e-12))
			Expect(sol.Residual).To(BeNumerically("<", 1e-8))
			Expect(sol.Diagnostics).To(BeEmpty())
		})

		It("matches the boundary series on every pinned node", func() {
			far, err := multipole.New(sys, 3)
			Expect(err).NotTo(HaveOccurred())

			pinned := 0
			for i, y := range xs {
				for j, x := range xs {
					if math.Hypot(x, y) < sol.SwitchingRadius {
						continue
					}
					pinned++
					want, _ := far.At(x, y)
					Expect(sol.Potential.At(i, j)).To(BeNumerically("~", want, 1e-9*math.Abs(want)))
				}
			}
			Expect(pinned).To(Equal(sol.Pinned))
		})

		It("is nearly circular in the far field", func() {
			var scaled []float64
			for i, y := range xs {
				for j, x := range xs {
					if r := math.Hypot(x, y); r > 7.9 && r < 8.1 {
						scaled = append(scaled, sol.Potential.At(i, j)*r)
					}
				}
			}
			Expect(scaled).NotTo(BeEmpty())
			Expect(floats.Max(scaled) - floats.Min(scaled)).To(BeNumerically("<", 0.03*2))
		})

		It("has its minima along y = 0 at the body centres", func() {
			row := mat.Row(nil, grid.Size/2, sol.Potential)
			Expect(xs[grid.Size/2]).To(BeZero())

			right := floats.MinIdx(row[grid.Size/2+1:]) + grid.Size/2 + 1
			left := floats.MinIdx(row[:grid.Size/2])
			h := grid.Spacing()
			Expect(xs[right]).To(BeNumerically("~", 1, 2*h))
			Expect(xs[left]).To(BeNumerically("~", -1, 2*h))

			Expect(row[right]).To(BeNumerically("<", row[right-1]))
			Expect(row[right]).To(BeNumerically("<", row[right+1]))
			Expect(row[left]).To(BeNumerically("<", row[left-1]))
			Expect(row[left]).To(BeNumerically("<", row[left+1]))
		})

		It("yields a field pointing back towards the binary", func() {
			g, err := sol.Field()
			Expect(err).NotTo(HaveOccurred())

			mid := grid.Size / 2
			Expect(g.Gx.At(mid, mid+25)).To(BeNumerically("<", 0)) // x = 5
			Expect(g.Gx.At(mid, mid-25)).To(BeNumerically(">", 0)) // x = -5
			Expect(g.Gy.At(mid+25, mid)).To(BeNumerically("<", 0)) // y = 5
		})
	})

	It("is mirror symmetric for identical bodies", func() {
		sys := binary.System{M1: 2, M2: 2, R1: 0.25, R2: 0.25, Separation: 2, G: 1}
		grid := binary.Grid{HalfWidth: 5, Size: 51}
		sol, err := poisson.PoissonPotential(sys, grid)
		Expect(err).NotTo(HaveOccurred())

		g, err := sol.Field()
		Expect(err).NotTo(HaveOccurred())
		mag := g.Magnitude()

		n := grid.Size
		for i := 0; i < n; i++ {
			for j := 0; j < n/2; j++ {
				phi := sol.Potential.At(i, j)
				Expect(sol.Potential.At(i, n-1-j)).To(BeNumerically("~", phi, 1e-9*math.Abs(phi)))
				Expect(mag.At(i, n-1-j)).To(BeNumerically("~", mag.At(i, j), 1e-8*(1+mag.At(i, j))))
			}
		}
	})

	It("conserves each body's mass in the rasterized density", func() {
		grid := binary.Grid{HalfWidth: 2, Size: 201}
		bodies := []binary.Body{
			{Mass: 1, Radius: 0.5, X: 0.8},
			{Mass: 3, Radius: 0.4, X: -0.9},
		}
		rho, diags := poisson.Rasterize(grid, bodies)
		Expect(diags).To(BeEmpty())

		for _, b := range bodies {
			Expect(rho.Mass(b)).To(BeNumerically("~", b.Mass, 0.02*b.Mass))
		}
		Expect(rho.Total()).To(BeNumerically("~", 4, 0.08))
	})

	It("adds overlapping disks", func() {
		grid := binary.Grid{HalfWidth: 1, Size: 21}
		b := binary.Body{Mass: 1, Radius: 0.3}
		single, _ := poisson.Rasterize(grid, []binary.Body{b})
		double, _ := poisson.Rasterize(grid, []binary.Body{b, b})

		for k := range single.Values {
			Expect(double.Values[k]).To(Equal(2 * single.Values[k]))
		}
		Expect(single.Values[grid.Index(10, 10)]).To(BeNumerically("~", b.Density(), 1e-12))
	})

	It("warns but proceeds when a body is narrower than the grid spacing", func() {
		sys := binary.System{M1: 1, M2: 1, R1: 0.05, R2: 0, Separation: 2, G: 1}
		sol, err := poisson.PoissonPotential(sys, binary.Grid{HalfWidth: 6, Size: 61})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Diagnostics).To(HaveLen(2))
		for _, d := range sol.Diagnostics {
			Expect(d.Kind).To(Equal(binary.PhysicalInconsistency))
		}
		Expect(floats.Max(sol.Potential.RawMatrix().Data)).To(BeNumerically("<", 0))
	})

	It("reports the rasterized mass of a narrow body that lands on a node", func() {
		// h = 1 and the body centre x = 1 is a node, so one node carries M/(πR²)
		grid := binary.Grid{HalfWidth: 2, Size: 5}
		b := binary.Body{Mass: 1, Radius: 0.2, X: 1}
		rho, diags := poisson.Rasterize(grid, []binary.Body{b})

		Expect(rho.Mass(b)).To(BeNumerically("~", 1/(math.Pi*0.04), 1e-12))
		Expect(diags).To(HaveLen(1))
		Expect(diags[0].Message).To(ContainSubstring("rasterized mass 7.957"))
		Expect(diags[0].Message).To(HaveSuffix("of 1"))
	})

	DescribeTable("rejects inputs outside the domain",
		func(sys binary.System, grid binary.Grid) {
			sol, err := poisson.PoissonPotential(sys, grid)
			Expect(err).To(MatchError(binary.ErrDomain))
			Expect(sol).To(BeNil())
		},
		Entry("non-finite separation", binary.System{M1: 1, M2: 1, Separation: math.NaN(), G: 1}, binary.Grid{HalfWidth: 10, Size: 21}),
		Entry("non-finite radius", binary.System{M1: 1, M2: 1, R1: math.NaN(), Separation: 2, G: 1}, binary.Grid{HalfWidth: 10, Size: 21}),
		Entry("infinite G", binary.System{M1: 1, M2: 1, Separation: 2, G: math.Inf(1)}, binary.Grid{HalfWidth: 10, Size: 21}),
		Entry("grid too small", binary.System{M1: 1, M2: 1, Separation: 0.5, G: 1}, binary.Grid{HalfWidth: 10, Size: 2}),
		Entry("domain inside switching radius", binary.System{M1: 1, M2: 1, R1: 0.2, R2: 0.2, Separation: 2, G: 1}, binary.Grid{HalfWidth: 2.2, Size: 41}),
		Entry("non-positive mass", binary.System{M1: 0, M2: 1, Separation: 2, G: 1}, binary.Grid{HalfWidth: 10, Size: 41}),
		Entry("zero switching radius pins the origin", binary.System{M1: 1, M2: 1, G: 1}, binary.Grid{HalfWidth: 1, Size: 5}),
	)

	It("shares nothing between concurrent solves", func() {
		grid := binary.Grid{HalfWidth: 6, Size: 41}
		systems := []binary.System{
			{M1: 1, M2: 1, R1: 0.4, R2: 0.4, Separation: 2, G: 1},
			{M1: 3, M2: 1, R1: 0.6, R2: 0.3, Separation: 2.5, G: 1},
		}

		want := make([]*mat.Dense, len(systems))
		for i, s := range systems {
			sol, err := poisson.PoissonPotential(s, grid)
			Expect(err).NotTo(HaveOccurred())
			want[i] = sol.Potential
		}

		got := make([]*mat.Dense, len(systems))
		var wg sync.WaitGroup
		for i, s := range systems {
			wg.Add(1)
			go func(idx int, s binary.System) {
				defer wg.Done()
				defer GinkgoRecover()
				sol, err := poisson.PoissonPotential(s, grid)
				Expect(err).NotTo(HaveOccurred())
				got[idx] = sol.Potential
			}(i, s)
		}
		wg.Wait()

		for i := range systems {
			Expect(mat.Equal(got[i], want[i])).To(BeTrue())
		}
	})
})
