package common

import "fmt"

// Coefficients is a compacted coefficient array of shape
// (BlocksY, BlocksX, N). Values are stored block after block, each block
// holding its N retained coefficients in scan order.
//
// Values are already narrowed to Type, so every element is exactly
// representable in the storage type.
type Coefficients struct {
	BlocksY int
	BlocksX int
	N       int
	Type    SampleType
	Values  []float32
}

// NewCoefficients allocates a zeroed array of the given shape.
func NewCoefficients(blocksY, blocksX, n int, t SampleType) *Coefficients {
	return &Coefficients{
		BlocksY: blocksY,
		BlocksX: blocksX,
		N:       n,
		Type:    t,
		Values:  make([]float32, blocksY*blocksX*n),
	}
}

// Shape returns (BlocksY, BlocksX, N).
func (c *Coefficients) Shape() [3]int {
	return [3]int{c.BlocksY, c.BlocksX, c.N}
}

// SameShape reports whether c and o have identical shapes.
func (c *Coefficients) SameShape(o *Coefficients) bool {
	return c.Shape() == o.Shape()
}

// Len returns the total number of stored elements.
func (c *Coefficients) Len() int {
	return c.BlocksY * c.BlocksX * c.N
}

// Clone returns a deep copy of c.
func (c *Coefficients) Clone() *Coefficients {
	out := *c
	out.Values = append([]float32(nil), c.Values...)
	return &out
}

// Block returns the retained coefficients of block (by, bx).
func (c *Coefficients) Block(by, bx int) []float32 {
	off := (by*c.BlocksX + bx) * c.N
	return c.Values[off : off+c.N : off+c.N]
}

// Validate checks that the array is three dimensional and consistent with
// its own shape and sample type.
func (c *Coefficients) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil coefficients", ErrInvalidInput)
	}
	if c.BlocksY < 0 || c.BlocksX < 0 || c.N < 0 {
		return fmt.Errorf("%w: negative coefficient shape %v", ErrInvalidInput, c.Shape())
	}
	if len(c.Values) != c.Len() {
		return fmt.Errorf("%w: %d values for shape %v", ErrInvalidInput, len(c.Values), c.Shape())
	}
	if err := c.Type.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Coefficients) String() string {
	return fmt.Sprintf("Coefficients(shape=%v, type=%s)", c.Shape(), c.Type)
}
