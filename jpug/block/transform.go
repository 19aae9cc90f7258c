package block

import (
	"runtime"
	"sync"

	"github.com/cocosip/go-jpug-codec/jpug/common"
)

// Forward applies the orthonormal 2D DCT-II to every block of g and returns
// a new grid. g is not modified.
func Forward(g *Grid) *Grid {
	return apply(g, (*common.DCTTable).Forward)
}

// Inverse applies the orthonormal 2D inverse DCT to every block of g and
// returns a new grid. g is not modified.
func Inverse(g *Grid) *Grid {
	return apply(g, (*common.DCTTable).Inverse)
}

func apply(g *Grid, fn func(t *common.DCTTable, dst, src, tmp []float64)) *Grid {
	out := NewGrid(g.BlocksY, g.BlocksX, g.Size)
	if len(out.Data) == 0 {
		return out
	}

	table := common.TableFor(g.Size)
	ForEachRow(g.BlocksY, func(by int, tmp []float64) {
		for bx := 0; bx < g.BlocksX; bx++ {
			fn(table, out.Block(by, bx), g.Block(by, bx), tmp)
		}
	}, g.Size*g.Size)

	return out
}

// ForEachRow calls fn once for every block row in [0, rows), spreading the
// rows over runtime.NumCPU() stripes. Each stripe gets its own scratch
// buffer of scratchLen elements.
func ForEachRow(rows int, fn func(row int, scratch []float64), scratchLen int) {
	workers := runtime.NumCPU()
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		scratch := make([]float64, scratchLen)
		for r := 0; r < rows; r++ {
			fn(r, scratch)
		}
		return
	}

	var wg sync.WaitGroup
	stripe := (rows + workers - 1) / workers
	for start := 0; start < rows; start += stripe {
		end := start + stripe
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			scratch := make([]float64, scratchLen)
			for r := start; r < end; r++ {
				fn(r, scratch)
			}
		}(start, end)
	}
	wg.Wait()
}
