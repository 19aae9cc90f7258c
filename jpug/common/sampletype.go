package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/mrjoshuak/go-openexr/half"
)

// SampleType is the storage type of compacted DCT coefficients.
// The numeric values are the on-disk enum.
type SampleType uint8

const (
	Int8    SampleType = 0
	Float16 SampleType = 1
	Float32 SampleType = 2
)

// String returns the lower-case name used by the command line.
func (t SampleType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("SampleType(%d)", uint8(t))
	}
}

// Validate reports ErrInvalidSampleType for anything that is neither a
// floating point type nor int8.
func (t SampleType) Validate() error {
	switch t {
	case Int8, Float16, Float32:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidSampleType, uint8(t))
}

// IsFloat reports whether t is a floating point storage type.
func (t SampleType) IsFloat() bool {
	return t == Float16 || t == Float32
}

// Size returns the number of bytes one element occupies on disk.
func (t SampleType) Size() int {
	switch t {
	case Int8:
		return 1
	case Float16:
		return 2
	case Float32:
		return 4
	default:
		return 0
	}
}

// ParseSampleType accepts the names returned by String, plus a few aliases.
func ParseSampleType(s string) (SampleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int8", "i8":
		return Int8, nil
	case "float16", "f16", "half":
		return Float16, nil
	case "float32", "f32", "float", "single":
		return Float32, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSampleType, s)
}

// Quantize narrows a transformed coefficient to the precision of t.
//
// int8 rounds half to even and saturates to [-128, 127]; float16
// rounds to the nearest half precision value; float32 is a plain
// conversion. The result is always exactly representable in t.
func (t SampleType) Quantize(v float64) float32 {
	switch t {
	case Int8:
		return float32(ClampRound(v, math.MinInt8, math.MaxInt8))
	case Float16:
		return half.FromFloat32(float32(v)).Float32()
	default:
		return float32(v)
	}
}

// ClampRound rounds v half to even and saturates it to [lo, hi].
func ClampRound(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.RoundToEven(v)
}

// ClampByte rounds v and saturates it into a pixel value.
func ClampByte(v float64) uint8 {
	return uint8(ClampRound(v, 0, 255))
}
