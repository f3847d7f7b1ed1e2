package sparse

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/gravfield/internal/binary"
	"gonum.org/v1/gonum/mat"
)

func TestBuilderFreeze(t *testing.T) {
	g := NewWithT(t)
	b := NewBuilder(3)
	b.Add(0, 0, 1)
	b.Add(0, 0, 2)
	b.Add(0, 2, 5)
	b.Add(1, 1, 4)
	b.Add(2, 0, 1)
	b.Add(2, 0, -1) // cancels to an explicit zero

	m := b.Freeze()
	g.Expect(m.At(0, 0)).To(Equal(3.0))
	g.Expect(m.At(0, 2)).To(Equal(5.0))
	g.Expect(m.At(1, 1)).To(Equal(4.0))
	g.Expect(m.At(2, 0)).To(BeZero())
	g.Expect(m.NNZ()).To(Equal(3))

	want := mat.NewDense(3, 3, []float64{3, 0, 5, 0, 4, 0, 0, 0, 0})
	g.Expect(mat.Equal(m, want)).To(BeTrue())
}

func TestBuilderClearAndSet(t *testing.T) {
	g := NewWithT(t)
	b := NewBuilder(3)
	for j := 0; j < 3; j++ {
		b.Add(1, j, float64(j+1))
	}
	frozen := b.Freeze()

	b.ClearRow(1)
	b.Set(1, 1, 1)
	b.Set(1, 1, 7) // replaces, does not accumulate

	m := b.Freeze()
	g.Expect(m.At(1, 0)).To(BeZero())
	g.Expect(m.At(1, 1)).To(Equal(7.0))
	g.Expect(m.At(1, 2)).To(BeZero())
	// cleared positions are not stored
	g.Expect(m.NNZ()).To(Equal(1))

	// earlier snapshots are unaffected
	g.Expect(frozen.At(1, 2)).To(Equal(3.0))
}

func TestBuilderAddOutOfRangePanics(t *testing.T) {
	g := NewWithT(t)
	b := NewBuilder(2)
	g.Expect(func() { b.Add(0, 2, 1) }).To(Panic())
}

func TestBandwidth(t *testing.T) {
	b := NewBuilder(6)
	for i := 0; i < 6; i++ {
		b.Add(i, i, 2)
	}
	b.Add(4, 1, 1)
	b.Add(0, 2, 1)

	kl, ku := Bandwidth(b.Freeze())
	if kl != 3 || ku != 2 {
		t.Errorf("expected bandwidth (3, 2), got (%d, %d)", kl, ku)
	}
}

func randomBanded(n, bw int, rng *rand.Rand) *Builder {
	b := NewBuilder(n)
	for i := 0; i < n; i++ {
		off := 0.0
		for j := max(0, i-bw); j <= min(n-1, i+bw); j++ {
			if j == i {
				continue
			}
			v := rng.Float64()*2 - 1
			off += math.Abs(v)
			b.Add(i, j, v)
		}
		b.Add(i, i, off+1)
	}
	return b
}

func TestFactorizeSolveMatchesDense(t *testing.T) {
	g := NewWithT(t)
	rng := rand.New(rand.NewSource(7))
	n := 40
	m := randomBanded(n, 5, rng).Freeze()

	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, rng.Float64())
	}

	lu, err := Factorize(m)
	g.Expect(err).NotTo(HaveOccurred())
	x, err := lu.Solve(rhs)
	g.Expect(err).NotTo(HaveOccurred())

	var dense mat.Dense
	dense.CloneFrom(m)
	var want mat.VecDense
	g.Expect(want.SolveVec(&dense, rhs)).To(Succeed())

	g.Expect(mat.EqualApprox(x, &want, 1e-10)).To(BeTrue())
	g.Expect(Residual(m, x, rhs)).To(BeNumerically("<", 1e-10))
}

func TestFactorizeIdentityRows(t *testing.T) {
	g := NewWithT(t)
	b := NewBuilder(5)
	for i := 0; i < 5; i++ {
		b.Add(i, i, -2)
		if i > 0 {
			b.Add(i, i-1, 1)
		}
		if i < 4 {
			b.Add(i, i+1, 1)
		}
	}
	for _, i := range []int{0, 4} {
		b.ClearRow(i)
		b.Set(i, i, 1)
	}

	// 1D Poisson with u(0)=0, u(4)=4 and no source: u is linear
	rhs := mat.NewVecDense(5, []float64{0, 0, 0, 0, 4})
	lu, err := Factorize(b.Freeze())
	g.Expect(err).NotTo(HaveOccurred())
	x, err := lu.Solve(rhs)
	g.Expect(err).NotTo(HaveOccurred())

	for i := 0; i < 5; i++ {
		g.Expect(x.AtVec(i)).To(BeNumerically("~", float64(i), 1e-12))
	}
}

func TestFactorizeSingular(t *testing.T) {
	b := NewBuilder(3)
	b.Add(0, 0, 1)
	b.Add(2, 2, 1) // row 1 is empty

	_, err := Factorize(b.Freeze())
	if !errors.Is(err, binary.ErrSingularSystem) {
		t.Errorf("expected ErrSingularSystem, got %v", err)
	}

	_, err = Factorize(NewBuilder(2).Freeze())
	if !errors.Is(err, binary.ErrSingularSystem) {
		t.Errorf("expected ErrSingularSystem for empty matrix, got %v", err)
	}
}

func TestSolveLengthMismatch(t *testing.T) {
	b := NewBuilder(2)
	b.Add(0, 0, 1)
	b.Add(1, 1, 1)
	lu, err := Factorize(b.Freeze())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lu.Solve(mat.NewVecDense(3, nil)); !errors.Is(err, binary.ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}
}

func BenchmarkFactorizeBanded(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	m := randomBanded(2000, 40, rng).Freeze()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Factorize(m); err != nil {
			b.Fatal(err)
		}
	}
}
