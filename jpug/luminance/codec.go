// Package luminance implements the single-channel JPUG variant.
package luminance

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"

	"github.com/cocosip/go-jpug-codec/codec"
	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

// Name is the registry name of the luminance codec.
const Name = "jpug-luminance"

// Codec implements the codec.Codec interface for gray images
type Codec struct{}

// NewCodec creates a new luminance codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode converts img to 8-bit gray and encodes it. Images that are not
// already *image.Gray are converted with the ITU-R 601 luma weights.
func (c *Codec) Encode(img image.Image, cfg channel.Config) (*container.Container, error) {
	gray, err := ToGray(img)
	if err != nil {
		return nil, err
	}

	y, err := channel.Encode(gray, cfg)
	if err != nil {
		return nil, err
	}
	return container.NewLuminance(cfg.BlockSize, cfg.Cutoff, y)
}

// Decode decodes a Luminance container to an *image.Gray
func (c *Codec) Decode(ct *container.Container) (image.Image, error) {
	if ct == nil {
		return nil, fmt.Errorf("%w: nil container", common.ErrInvalidInput)
	}
	y, err := ct.Luma()
	if err != nil {
		return nil, err
	}
	gray, err := channel.Decode(y, ct.Config())
	if err != nil {
		return nil, err
	}
	return gray, nil
}

// Mode returns container.Luminance
func (c *Codec) Mode() container.Mode {
	return container.Luminance
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return Name
}

// ToGray returns img as an 8-bit gray plane.
func ToGray(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", common.ErrInvalidInput)
	}
	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}

	g := gift.New(gift.Grayscale())
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst, nil
}

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
