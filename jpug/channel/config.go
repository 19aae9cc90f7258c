package channel

import (
	"fmt"

	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
)

// Defaults used by DefaultConfig.
const (
	DefaultBlockSize  = 8
	DefaultCutoff     = 8
	DefaultSampleType = common.Float16
)

// Config is the full parameter set of one channel encode or decode.
type Config struct {
	// BlockSize is the edge length F of the square blocks.
	BlockSize int

	// Cutoff is the number d of lowest antidiagonals kept, 0 <= d <= 2F-1.
	Cutoff int

	// SampleType is the storage type of the kept coefficients.
	SampleType common.SampleType
}

// DefaultConfig returns F=8, d=8, float16.
func DefaultConfig() Config {
	return Config{
		BlockSize:  DefaultBlockSize,
		Cutoff:     DefaultCutoff,
		SampleType: DefaultSampleType,
	}
}

// ValidateParams checks a block size and cutoff pair.
func ValidateParams(blockSize, cutoff int) error {
	return compact.ValidateParams(blockSize, cutoff)
}

// Validate checks every field of c.
func (c Config) Validate() error {
	if err := ValidateParams(c.BlockSize, c.Cutoff); err != nil {
		return err
	}
	return c.SampleType.Validate()
}

// CoefficientsPerBlock returns n(F, d) for this configuration.
func (c Config) CoefficientsPerBlock() int {
	return compact.Count(c.BlockSize, c.Cutoff)
}

// Stats returns the fraction of coefficients discarded.
func (c Config) Stats() float64 {
	return compact.Stats(c.BlockSize, c.Cutoff)
}

func (c Config) String() string {
	return fmt.Sprintf("F=%d, d=%d, type=%s", c.BlockSize, c.Cutoff, c.SampleType)
}
