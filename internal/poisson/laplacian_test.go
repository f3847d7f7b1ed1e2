package poisson_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("AssembleLaplacian", func() {
	const n = 4
	var op *mat.Dense

	BeforeEach(func() {
		op = mat.DenseCopyOf(poisson.AssembleLaplacian(n).Freeze())
	})

	It("places the 5-point stencil on interior nodes", func() {
		k := 1*n + 1
		Expect(op.At(k, k)).To(Equal(-4.0))
		for _, nb := range []int{k - 1, k + 1, k - n, k + n} {
			Expect(op.At(k, nb)).To(Equal(1.0))
		}
		Expect(mat.Sum(op.RowView(k))).To(BeZero())
	})

	It("does not couple the ends of adjacent rows", func() {
		// node (1, 0) follows (0, 3) in flattened order
		Expect(op.At(n, n-1)).To(BeZero())
		Expect(op.At(n-1, n)).To(BeZero())
		Expect(op.At(2*n-1, 2*n)).To(BeZero())
	})

	It("clips couplings past the first and last rows", func() {
		Expect(op.At(0, 0)).To(Equal(-4.0))
		Expect(op.At(0, 1)).To(Equal(1.0))
		Expect(op.At(0, n)).To(Equal(1.0))
		Expect(mat.Sum(op.RowView(0))).To(Equal(-2.0))

		last := n*n - 1
		Expect(mat.Sum(op.RowView(last))).To(Equal(-2.0))
	})

	It("reproduces ∇²(x²+y²) = 4 on interior nodes", func() {
		grid := binary.Grid{HalfWidth: 1, Size: 9}
		h := grid.Spacing()
		l := poisson.AssembleLaplacian(grid.Size).Freeze()

		phi := mat.NewVecDense(grid.Nodes(), nil)
		for k := 0; k < grid.Nodes(); k++ {
			x, y := grid.Position(k)
			phi.SetVec(k, x*x+y*y)
		}
		out := mat.NewVecDense(grid.Nodes(), nil)
		l.MulVecTo(out.RawVector().Data, false, phi.RawVector().Data)

		for i := 1; i < grid.Size-1; i++ {
			for j := 1; j < grid.Size-1; j++ {
				Expect(out.AtVec(grid.Index(i, j)) / (h * h)).To(BeNumerically("~", 4, 1e-9))
			}
		}
	})
})

var _ = Describe("InjectBoundary", func() {
	grid := binary.Grid{HalfWidth: 3, Size: 13}
	sys := binary.System{M1: 1, M2: 1, R1: 0.3, R2: 0.3, Separation: 1.5, G: 1}

	It("pins exactly the nodes at or beyond the switching radius", func() {
		far, err := multipole.New(sys, multipole.DefaultBoundaryTerms)
		Expect(err).NotTo(HaveOccurred())

		op := poisson.AssembleLaplacian(grid.Size)
		rhs := make([]float64, grid.Nodes())
		rSwitch := sys.SwitchingRadius()

		pinned, err := poisson.InjectBoundary(op, rhs, grid, far, rSwitch)
		Expect(err).NotTo(HaveOccurred())

		m := op.Freeze()
		want := 0
		for k := 0; k < grid.Nodes(); k++ {
			x, y := grid.Position(k)
			if math.Hypot(x, y) < rSwitch {
				Expect(m.At(k, k)).To(Equal(-4.0))
				Expect(rhs[k]).To(BeZero())
				continue
			}
			want++
			count := 0
			m.DoRowNonZero(k, func(_, j int, v float64) {
				count++
				Expect(j).To(Equal(k))
				Expect(v).To(Equal(1.0))
			})
			Expect(count).To(Equal(1))
			phi, _ := far.At(x, y)
			Expect(rhs[k]).To(Equal(phi))
		}
		Expect(pinned).To(Equal(want))
		Expect(pinned).To(BeNumerically(">", 0))
	})

	It("reports a singular system when no node is pinned", func() {
		far, _ := multipole.New(sys, 3)
		op := poisson.AssembleLaplacian(grid.Size)
		rhs := make([]float64, grid.Nodes())

		_, err := poisson.InjectBoundary(op, rhs, grid, far, 100)
		Expect(err).To(MatchError(binary.ErrSingularSystem))
	})
})
