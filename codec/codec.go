package codec

import (
	"image"

	dicomcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"

	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

// Codec is the interface implemented by every JPUG colour variant
type Codec interface {
	// Encode encodes an image with the given channel configuration
	Encode(img image.Image, cfg channel.Config) (*container.Container, error)

	// Decode decodes a container of this codec's mode. Block size, cutoff
	// and sample type come from the container.
	Decode(c *container.Container) (image.Image, error)

	// Mode returns the container mode this codec produces and consumes
	Mode() container.Mode

	// Name returns a human-readable name
	Name() string
}

// Encode encodes img with the codec registered for mode.
func Encode(mode container.Mode, img image.Image, cfg channel.Config) (*container.Container, error) {
	return defaultRegistry.Encode(mode, img, cfg)
}

// EncodeParameters encodes img with the codec registered for mode, reading
// the configuration from generic DICOM codec parameters.
func EncodeParameters(mode container.Mode, img image.Image, parameters dicomcodec.Parameters) (*container.Container, error) {
	cfg, err := channel.ConfigFromParameters(parameters)
	if err != nil {
		return nil, err
	}
	return Encode(mode, img, cfg)
}

// Decode decodes c with the codec registered for its mode.
func Decode(c *container.Container) (image.Image, error) {
	return defaultRegistry.Decode(c)
}
