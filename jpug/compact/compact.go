// Package compact keeps the low-frequency triangle of each transformed block
// and packs it into a flat per-block vector.
//
// Position (r, c) of an F x F block is retained iff r+c < d, i.e. the d
// lowest antidiagonals. Retained positions are visited row by row (r
// ascending, then c ascending with c < d-r); that order is the wire format.
package compact

import (
	"fmt"

	"github.com/cocosip/go-jpug-codec/jpug/block"
	"github.com/cocosip/go-jpug-codec/jpug/common"
)

// ValidateParams checks 0 < size and 0 <= cutoff <= 2*size-1.
func ValidateParams(size, cutoff int) error {
	if size <= 0 {
		return fmt.Errorf("%w: F=%d must be positive", common.ErrInvalidParameter, size)
	}
	if cutoff < 0 || cutoff > 2*size-1 {
		return fmt.Errorf("%w: d=%d must be in [0, %d]", common.ErrInvalidParameter, cutoff, 2*size-1)
	}
	return nil
}

// Count returns n(F, d), the number of retained coefficients per block.
//
// While d <= F the triangle fits in the block and n is the d-th triangular
// number. Past that the triangle is clipped by the block edges:
//
//	n = 2Fd - d²/2 - F² - d/2 + F
//
// which is evaluated over a common denominator to stay in integers.
func Count(size, cutoff int) int {
	f, d := size, cutoff
	if d <= f {
		return d * (d + 1) / 2
	}
	return (4*f*d - d*d - 2*f*f - d + 2*f) / 2
}

// Stats returns the fraction of coefficients discarded for (size, cutoff).
// Storage width of the sample type is not taken into account.
func Stats(size, cutoff int) float64 {
	return 1 - float64(Count(size, cutoff))/float64(size*size)
}

// Retained reports whether in-block position (r, c) survives cutoff d.
func Retained(r, c, cutoff int) bool {
	return r+c < cutoff
}

// ScanOrder returns the in-block offsets r*size+c of the retained positions
// in wire order. len(ScanOrder(F, d)) == Count(F, d).
func ScanOrder(size, cutoff int) []int {
	order := make([]int, 0, Count(size, cutoff))
	for r := 0; r < size && r < cutoff; r++ {
		end := cutoff - r
		if end > size {
			end = size
		}
		for c := 0; c < end; c++ {
			order = append(order, r*size+c)
		}
	}
	return order
}

// Compress packs the retained coefficients of every block of g, narrowing
// each value to t.
func Compress(g *block.Grid, cutoff int, t common.SampleType) (*common.Coefficients, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", common.ErrInvalidInput)
	}
	if err := ValidateParams(g.Size, cutoff); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(g.Data) != g.BlocksY*g.BlocksX*g.Size*g.Size {
		return nil, fmt.Errorf("%w: grid holds %d samples for %dx%d blocks of %dx%d",
			common.ErrShapeMismatch, len(g.Data), g.BlocksY, g.BlocksX, g.Size, g.Size)
	}

	n := Count(g.Size, cutoff)
	if g.BlocksY*g.BlocksX == 0 || n == 0 {
		return common.NewCoefficients(g.BlocksY, g.BlocksX, n, t), nil
	}

	order := ScanOrder(g.Size, cutoff)
	out := common.NewCoefficients(g.BlocksY, g.BlocksX, n, t)

	block.ForEachRow(g.BlocksY, func(by int, _ []float64) {
		for bx := 0; bx < g.BlocksX; bx++ {
			src := g.Block(by, bx)
			dst := out.Block(by, bx)
			for i, pos := range order {
				dst[i] = t.Quantize(src[pos])
			}
		}
	}, 0)

	return out, nil
}

// Decompress scatters the packed coefficients back into size x size blocks.
// Discarded positions are zero.
func Decompress(c *common.Coefficients, size, cutoff int) (*block.Grid, error) {
	if err := ValidateParams(size, cutoff); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if n := Count(size, cutoff); c.N != n {
		return nil, fmt.Errorf("%w: %d coefficients per block, F=%d d=%d needs %d",
			common.ErrShapeMismatch, c.N, size, cutoff, n)
	}

	g := block.NewGrid(c.BlocksY, c.BlocksX, size)
	if c.BlocksY*c.BlocksX == 0 || c.N == 0 {
		return g, nil
	}

	order := ScanOrder(size, cutoff)

	block.ForEachRow(c.BlocksY, func(by int, _ []float64) {
		for bx := 0; bx < c.BlocksX; bx++ {
			src := c.Block(by, bx)
			dst := g.Block(by, bx)
			for i, pos := range order {
				dst[pos] = float64(src[i])
			}
		}
	}, 0)

	return g, nil
}
