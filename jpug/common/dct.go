package common

import (
	"math"
	"sync"
)

// DCTTable holds the orthonormal type-II DCT basis for one block size.
//
// basis[k*n+i] = s(k) * cos(pi*(2i+1)*k / 2n), with s(0) = sqrt(1/n) and
// s(k) = sqrt(2/n) otherwise. This is the normalization scipy calls
// norm="ortho", so the inverse is the transpose.
type DCTTable struct {
	n     int
	basis []float64
}

var (
	dctTablesMu sync.Mutex
	dctTables   = make(map[int]*DCTTable)
)

// TableFor returns the shared table for block size n. n must be positive.
func TableFor(n int) *DCTTable {
	dctTablesMu.Lock()
	defer dctTablesMu.Unlock()

	if t, ok := dctTables[n]; ok {
		return t
	}
	t := newDCTTable(n)
	dctTables[n] = t
	return t
}

func newDCTTable(n int) *DCTTable {
	basis := make([]float64, n*n)
	s0 := math.Sqrt(1 / float64(n))
	sk := math.Sqrt(2 / float64(n))
	for k := 0; k < n; k++ {
		s := sk
		if k == 0 {
			s = s0
		}
		for i := 0; i < n; i++ {
			basis[k*n+i] = s * math.Cos(math.Pi*float64((2*i+1)*k)/float64(2*n))
		}
	}
	return &DCTTable{n: n, basis: basis}
}

// Size returns the block edge length of the table.
func (t *DCTTable) Size() int {
	return t.n
}

// Forward1D computes the orthonormal DCT-II of src into dst (both length n).
func (t *DCTTable) Forward1D(dst, src []float64) {
	n := t.n
	for k := 0; k < n; k++ {
		row := t.basis[k*n : k*n+n]
		var sum float64
		for i, v := range src[:n] {
			sum += row[i] * v
		}
		dst[k] = sum
	}
}

// Inverse1D computes the orthonormal DCT-III (inverse DCT-II) of src into dst.
func (t *DCTTable) Inverse1D(dst, src []float64) {
	n := t.n
	for i := 0; i < n; i++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += t.basis[k*n+i] * src[k]
		}
		dst[i] = sum
	}
}

// Forward computes the 2D DCT-II of the n x n row-major block src into dst.
// tmp is scratch space of at least n*n elements. dst and src may alias.
func (t *DCTTable) Forward(dst, src, tmp []float64) {
	n := t.n

	// rows
	for r := 0; r < n; r++ {
		in := src[r*n : r*n+n]
		for k := 0; k < n; k++ {
			row := t.basis[k*n : k*n+n]
			var sum float64
			for i, v := range in {
				sum += row[i] * v
			}
			tmp[r*n+k] = sum
		}
	}

	// columns
	for c := 0; c < n; c++ {
		for k := 0; k < n; k++ {
			row := t.basis[k*n : k*n+n]
			var sum float64
			for r := 0; r < n; r++ {
				sum += row[r] * tmp[r*n+c]
			}
			dst[k*n+c] = sum
		}
	}
}

// Inverse computes the 2D inverse DCT of the n x n block src into dst.
// tmp is scratch space of at least n*n elements. dst and src may alias.
func (t *DCTTable) Inverse(dst, src, tmp []float64) {
	n := t.n

	// rows
	for r := 0; r < n; r++ {
		in := src[r*n : r*n+n]
		for i := 0; i < n; i++ {
			var sum float64
			for k, v := range in {
				sum += t.basis[k*n+i] * v
			}
			tmp[r*n+i] = sum
		}
	}

	// columns
	for c := 0; c < n; c++ {
		for i := 0; i < n; i++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += t.basis[k*n+i] * tmp[k*n+c]
			}
			dst[i*n+c] = sum
		}
	}
}

// DCT2D is a convenience wrapper returning the 2D DCT-II of an n x n block.
func DCT2D(block []float64, n int) []float64 {
	out := make([]float64, n*n)
	TableFor(n).Forward(out, block, make([]float64, n*n))
	return out
}

// IDCT2D is the inverse of DCT2D.
func IDCT2D(coef []float64, n int) []float64 {
	out := make([]float64, n*n)
	TableFor(n).Inverse(out, coef, make([]float64, n*n))
	return out
}
