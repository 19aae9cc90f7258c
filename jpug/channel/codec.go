// Package channel encodes one 8-bit plane into compacted DCT coefficients
// and back.
package channel

import (
	"fmt"
	"image"
	"sync"

	"github.com/cocosip/go-jpug-codec/jpug/block"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
)

// Encode transforms img with cfg: partition, forward DCT, quantization to
// cfg.SampleType, compaction.
func Encode(img *image.Gray, cfg Config) (*common.Coefficients, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := block.Partition(img, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	return compact.Compress(block.Forward(g), cfg.Cutoff, cfg.SampleType)
}

// Decode reverses Encode. The coefficient sample type must match
// cfg.SampleType.
func Decode(c *common.Coefficients, cfg Config) (*image.Gray, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Type != cfg.SampleType {
		return nil, fmt.Errorf("%w: coefficients are %s, codec expects %s", common.ErrInvalidInput, c.Type, cfg.SampleType)
	}

	g, err := compact.Decompress(c, cfg.BlockSize, cfg.Cutoff)
	if err != nil {
		return nil, err
	}

	return block.Reassemble(block.Inverse(g), cfg.BlockSize)
}

// Codec is a channel codec with mutable configuration. It is safe for
// concurrent use: every Encode and Decode works on a snapshot of the
// configuration taken when the call starts.
type Codec struct {
	mu  sync.RWMutex
	cfg Config
}

// NewCodec creates a codec with the given configuration.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg}, nil
}

// SetParams changes F and d. On error the codec is left unchanged.
func (c *Codec) SetParams(blockSize, cutoff int) error {
	if err := ValidateParams(blockSize, cutoff); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.BlockSize = blockSize
	c.cfg.Cutoff = cutoff
	return nil
}

// SetSampleType changes the storage type. On error the codec is left
// unchanged.
func (c *Codec) SetSampleType(t common.SampleType) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.SampleType = t
	return nil
}

// Config returns a snapshot of the configuration.
func (c *Codec) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Params returns (F, d).
func (c *Codec) Params() (int, int) {
	cfg := c.Config()
	return cfg.BlockSize, cfg.Cutoff
}

// SampleType returns the configured storage type.
func (c *Codec) SampleType() common.SampleType {
	return c.Config().SampleType
}

// Stats returns the fraction of coefficients discarded with the current
// parameters.
func (c *Codec) Stats() float64 {
	return c.Config().Stats()
}

// Encode encodes img with the current configuration.
func (c *Codec) Encode(img *image.Gray) (*common.Coefficients, error) {
	return Encode(img, c.Config())
}

// Decode decodes coefficients produced with the current configuration.
func (c *Codec) Decode(coef *common.Coefficients) (*image.Gray, error) {
	return Decode(coef, c.Config())
}

func (c *Codec) String() string {
	return fmt.Sprintf("Codec(%s)", c.Config())
}
