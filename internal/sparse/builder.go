package sparse

import (
	"slices"

	bsparse "github.com/james-bowman/sparse"
)

// Builder accumulates entries in a dictionary-of-keys matrix. It remembers
// which columns each row has touched so a row can be cleared without a scan
// of the whole matrix.
type Builder struct {
	n    int
	dok  *bsparse.DOK
	cols [][]int
}

// NewBuilder returns an empty n×n builder.
func NewBuilder(n int) *Builder {
	return &Builder{n: n, dok: bsparse.NewDOK(n, n), cols: make([][]int, n)}
}

func (b *Builder) Dims() (r, c int) { return b.n, b.n }

// Add accumulates v at (i, j). Out-of-range positions panic like a slice index.
func (b *Builder) Add(i, j int, v float64) {
	if j < 0 || j >= b.n {
		panic("sparse: column index out of range")
	}
	b.touch(i, j)
	b.dok.Set(i, j, b.dok.At(i, j)+v)
}

// ClearRow zeroes every entry of row i.
func (b *Builder) ClearRow(i int) {
	for _, j := range b.cols[i] {
		b.dok.Set(i, j, 0)
	}
	b.cols[i] = b.cols[i][:0]
}

// Set replaces whatever row i holds at column j with v.
func (b *Builder) Set(i, j int, v float64) {
	if j < 0 || j >= b.n {
		panic("sparse: column index out of range")
	}
	b.touch(i, j)
	b.dok.Set(i, j, v)
}

func (b *Builder) touch(i, j int) {
	if !slices.Contains(b.cols[i], j) {
		b.cols[i] = append(b.cols[i], j)
	}
}

// Freeze compiles the builder into CSR form, dropping entries that summed to
// zero. The builder stays usable.
func (b *Builder) Freeze() *CSR {
	var ia, ja []int
	var data []float64
	for i, row := range b.cols {
		cols := slices.Clone(row)
		slices.Sort(cols)
		for _, j := range cols {
			if v := b.dok.At(i, j); v != 0 {
				ia = append(ia, i)
				ja = append(ja, j)
				data = append(data, v)
			}
		}
	}
	return bsparse.NewCOO(b.n, b.n, ia, ja, data).ToCSR()
}
