// Package block splits an 8-bit plane into square blocks and applies the
// orthonormal 2D DCT to each block.
package block

import (
	"fmt"
	"image"

	"github.com/cocosip/go-jpug-codec/jpug/common"
)

// Grid is a plane reinterpreted as (BlocksY, BlocksX, Size, Size).
// Data holds one block after the other in block-row-major order; each block
// is Size*Size samples in row-major order.
type Grid struct {
	BlocksY int
	BlocksX int
	Size    int
	Data    []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(blocksY, blocksX, size int) *Grid {
	return &Grid{
		BlocksY: blocksY,
		BlocksX: blocksX,
		Size:    size,
		Data:    make([]float64, blocksY*blocksX*size*size),
	}
}

// Block returns the samples of block (by, bx).
func (g *Grid) Block(by, bx int) []float64 {
	n := g.Size * g.Size
	off := (by*g.BlocksX + bx) * n
	return g.Data[off : off+n : off+n]
}

// Width and Height return the size of the cropped plane the grid covers.
func (g *Grid) Width() int  { return g.BlocksX * g.Size }
func (g *Grid) Height() int { return g.BlocksY * g.Size }

// CroppedSize returns the largest multiple of size that fits in each
// dimension of a width x height plane.
func CroppedSize(width, height, size int) (int, int) {
	return width - width%size, height - height%size
}

// Partition crops img to a multiple of size in both dimensions and reshapes
// it into blocks. Rows and columns past the last full block are dropped.
func Partition(img *image.Gray, size int) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: block size %d", common.ErrInvalidDimension, size)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil plane", common.ErrInvalidInput)
	}

	b := img.Bounds()
	w, h := CroppedSize(b.Dx(), b.Dy(), size)
	if h > 0 && w > 0 {
		last := (h-1)*img.Stride + w
		if img.Stride < w || len(img.Pix) < last {
			return nil, fmt.Errorf("%w: pixel buffer too short for %dx%d plane", common.ErrInvalidInput, b.Dx(), b.Dy())
		}
	}

	g := NewGrid(h/size, w/size, size)
	for by := 0; by < g.BlocksY; by++ {
		for bx := 0; bx < g.BlocksX; bx++ {
			blk := g.Block(by, bx)
			for r := 0; r < size; r++ {
				row := img.Pix[(by*size+r)*img.Stride+bx*size:]
				for c := 0; c < size; c++ {
					blk[r*size+c] = float64(row[c])
				}
			}
		}
	}

	return g, nil
}

// Reassemble is the inverse of Partition. Samples are rounded half to even
// and saturated to [0, 255].
func Reassemble(g *Grid, size int) (*image.Gray, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", common.ErrInvalidInput)
	}
	if g.Size != size {
		return nil, fmt.Errorf("%w: blocks are %dx%d, want %dx%d", common.ErrShapeMismatch, g.Size, g.Size, size, size)
	}
	if g.BlocksY < 0 || g.BlocksX < 0 || len(g.Data) != g.BlocksY*g.BlocksX*size*size {
		return nil, fmt.Errorf("%w: %d samples for %dx%d blocks of %dx%d",
			common.ErrShapeMismatch, len(g.Data), g.BlocksY, g.BlocksX, size, size)
	}

	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for by := 0; by < g.BlocksY; by++ {
		for bx := 0; bx < g.BlocksX; bx++ {
			blk := g.Block(by, bx)
			for r := 0; r < size; r++ {
				row := img.Pix[(by*size+r)*img.Stride+bx*size:]
				for c := 0; c < size; c++ {
					row[c] = common.ClampByte(blk[r*size+c])
				}
			}
		}
	}

	return img, nil
}
