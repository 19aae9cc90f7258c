// Package container holds encoded JPUG images and their on-disk record.
package container

import (
	"fmt"
	"image"
	"strings"

	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
)

// Mode tags the colour variant of a container.
type Mode uint8

const (
	// Luminance containers hold one gray channel.
	Luminance Mode = 0
	// Color containers hold R, G and B channels.
	Color Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Luminance:
		return "L"
	case Color:
		return "RGB"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Channels returns the number of coefficient arrays a container of this
// mode holds, or 0 for an unknown mode.
func (m Mode) Channels() int {
	switch m {
	case Luminance:
		return 1
	case Color:
		return 3
	default:
		return 0
	}
}

// ParseMode accepts "L" and "RGB" in any case, plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "luminance", "gray", "grey":
		return Luminance, nil
	case "rgb", "color", "colour":
		return Color, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", common.ErrInvalidParameter, s)
	}
}

// Container is an encoded image. It is immutable once built; the
// coefficient arrays it exposes must be treated as read-only.
type Container struct {
	blockSize int
	cutoff    int
	mode      Mode
	channels  []*common.Coefficients
}

// NewLuminance builds a single-channel container. y must hold
// compact.Count(blockSize, cutoff) values per block. The container keeps
// its own copy of y.
func NewLuminance(blockSize, cutoff int, y *common.Coefficients) (*Container, error) {
	return build(Luminance, blockSize, cutoff, []*common.Coefficients{y}, true)
}

// NewColor builds a three-channel container. The arrays must share shape
// and sample type; the container keeps its own copies.
func NewColor(blockSize, cutoff int, r, g, b *common.Coefficients) (*Container, error) {
	return build(Color, blockSize, cutoff, []*common.Coefficients{r, g, b}, true)
}

// build validates channels for mode. Arrays are copied when clone is set;
// otherwise the caller hands them over.
func build(mode Mode, blockSize, cutoff int, channels []*common.Coefficients, clone bool) (*Container, error) {
	if len(channels) != mode.Channels() {
		return nil, fmt.Errorf("%w: %s container needs %d channels, got %d",
			common.ErrInvalidInput, mode, mode.Channels(), len(channels))
	}
	for _, c := range channels {
		if err := checkChannel(blockSize, cutoff, c); err != nil {
			return nil, err
		}
	}
	if mode == Color {
		r, g, b := channels[0], channels[1], channels[2]
		if !r.SameShape(g) || !r.SameShape(b) {
			return nil, fmt.Errorf("%w: channel shapes differ: R %v, G %v, B %v",
				common.ErrInvalidInput, r.Shape(), g.Shape(), b.Shape())
		}
		if r.Type != g.Type || r.Type != b.Type {
			return nil, fmt.Errorf("%w: channel sample types differ: R %s, G %s, B %s",
				common.ErrInvalidInput, r.Type, g.Type, b.Type)
		}
	}

	owned := make([]*common.Coefficients, len(channels))
	for i, c := range channels {
		if clone {
			c = c.Clone()
		}
		owned[i] = c
	}

	return &Container{
		blockSize: blockSize,
		cutoff:    cutoff,
		mode:      mode,
		channels:  owned,
	}, nil
}

func checkChannel(blockSize, cutoff int, c *common.Coefficients) error {
	if err := compact.ValidateParams(blockSize, cutoff); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if want := compact.Count(blockSize, cutoff); c.N != want {
		return fmt.Errorf("%w: %d coefficients per block, F=%d d=%d keeps %d",
			common.ErrShapeMismatch, c.N, blockSize, cutoff, want)
	}
	return nil
}

// BlockSize returns F.
func (c *Container) BlockSize() int { return c.blockSize }

// Cutoff returns d.
func (c *Container) Cutoff() int { return c.cutoff }

// Mode returns the colour variant.
func (c *Container) Mode() Mode { return c.mode }

// SampleType returns the storage type shared by every channel.
func (c *Container) SampleType() common.SampleType { return c.channels[0].Type }

// Blocks returns the block grid shape (rows, columns).
func (c *Container) Blocks() (int, int) {
	return c.channels[0].BlocksY, c.channels[0].BlocksX
}

// Channels returns the coefficient arrays in storage order (Y, or R G B).
func (c *Container) Channels() []*common.Coefficients {
	out := make([]*common.Coefficients, len(c.channels))
	copy(out, c.channels)
	return out
}

// Luma returns the channel of a Luminance container.
func (c *Container) Luma() (*common.Coefficients, error) {
	if c.mode != Luminance {
		return nil, fmt.Errorf("%w: %s container has no luminance channel", common.ErrInvalidInput, c.mode)
	}
	return c.channels[0], nil
}

// RGB returns the channels of a Color container.
func (c *Container) RGB() (r, g, b *common.Coefficients, err error) {
	if c.mode != Color {
		return nil, nil, nil, fmt.Errorf("%w: %s container has no colour channels", common.ErrInvalidInput, c.mode)
	}
	return c.channels[0], c.channels[1], c.channels[2], nil
}

// Config returns the channel configuration needed to decode c.
func (c *Container) Config() channel.Config {
	return channel.Config{
		BlockSize:  c.blockSize,
		Cutoff:     c.cutoff,
		SampleType: c.SampleType(),
	}
}

// Bounds returns the size of the decoded raster.
func (c *Container) Bounds() image.Rectangle {
	by, bx := c.Blocks()
	return image.Rect(0, 0, bx*c.blockSize, by*c.blockSize)
}

// Stats returns the fraction of coefficients the container does not store.
func (c *Container) Stats() float64 {
	return compact.Stats(c.blockSize, c.cutoff)
}

func (c *Container) String() string {
	return fmt.Sprintf("Container(mode=%s, F=%d, d=%d, shape=%v, type=%s)",
		c.mode, c.blockSize, c.cutoff, c.channels[0].Shape(), c.SampleType())
}
