package sparse

import (
	bsparse "github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CSR is a frozen compressed-row matrix. It satisfies mat.Matrix.
type CSR = bsparse.CSR

// Bandwidth returns the lower and upper bandwidth of the stored pattern.
func Bandwidth(m *CSR) (kl, ku int) {
	raw := m.RawMatrix()
	for i := 0; i < raw.I; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			if raw.Data[k] == 0 {
				continue
			}
			d := raw.Ind[k] - i
			if d < 0 && -d > kl {
				kl = -d
			}
			if d > ku {
				ku = d
			}
		}
	}
	return kl, ku
}

// Residual returns ‖A·x − b‖₂.
func Residual(m *CSR, x, b *mat.VecDense) float64 {
	n, _ := m.Dims()
	ax := mat.NewVecDense(n, nil)
	m.MulVecTo(ax.RawVector().Data, false, x.RawVector().Data)
	ax.SubVec(ax, b)
	return floats.Norm(ax.RawVector().Data, 2)
}
