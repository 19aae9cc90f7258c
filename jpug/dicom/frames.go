// Package dicom adapts JPUG to 8-bit native DICOM pixel data frames.
package dicom

import (
	"fmt"
	"image"

	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	jpugcodec "github.com/cocosip/go-jpug-codec/codec"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
	_ "github.com/cocosip/go-jpug-codec/jpug/luminance"
	"github.com/cocosip/go-jpug-codec/jpug/rgb"
)

// EncodeFrames encodes every frame of src. One-sample frames produce
// Luminance containers and three-sample RGB frames produce Color
// containers. A nil parameters value selects the default configuration.
func EncodeFrames(src FrameSource, parameters codec.Parameters) ([]*container.Container, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source pixel data cannot be nil", common.ErrInvalidInput)
	}

	frameInfo := src.GetFrameInfo()
	mode, err := checkFrameInfo(frameInfo)
	if err != nil {
		return nil, err
	}

	frameCount := src.FrameCount()
	out := make([]*container.Container, 0, frameCount)
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := src.GetFrame(frameIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}

		img, err := FrameImage(frameData, frameInfo)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frameIndex, err)
		}

		c, err := jpugcodec.EncodeParameters(mode, img, parameters)
		if err != nil {
			return nil, fmt.Errorf("JPUG encode failed for frame %d: %w", frameIndex, err)
		}
		out = append(out, c)
	}

	return out, nil
}

// DecodeFrames decodes cs and appends the native frames to dst. All
// containers must share mode and raster size; FrameInfoFor describes the
// resulting frames.
func DecodeFrames(cs []*container.Container, dst FrameSink) error {
	if dst == nil {
		return fmt.Errorf("%w: destination pixel data cannot be nil", common.ErrInvalidInput)
	}

	for frameIndex, c := range cs {
		if c == nil {
			return fmt.Errorf("%w: frame %d container is nil", common.ErrInvalidInput, frameIndex)
		}
		if c.Mode() != cs[0].Mode() || c.Bounds() != cs[0].Bounds() {
			return fmt.Errorf("%w: frame %d is %s %v, frame 0 is %s %v", common.ErrInvalidInput,
				frameIndex, c.Mode(), c.Bounds().Size(), cs[0].Mode(), cs[0].Bounds().Size())
		}

		img, err := jpugcodec.Decode(c)
		if err != nil {
			return fmt.Errorf("JPUG decode failed for frame %d: %w", frameIndex, err)
		}

		if err := dst.AddFrame(FrameBytes(img)); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

// FrameInfoFor returns the frame description of frames decoded from c.
func FrameInfoFor(c *container.Container) (*imagetypes.FrameInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil container", common.ErrInvalidInput)
	}
	size := c.Bounds().Size()
	if size.X > 0xFFFF || size.Y > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d raster does not fit a DICOM frame", common.ErrInvalidDimension, size.X, size.Y)
	}

	frameInfo := &imagetypes.FrameInfo{
		Width:                     uint16(size.X),
		Height:                    uint16(size.Y),
		BitsAllocated:             8,
		BitsStored:                8,
		HighBit:                   7,
		SamplesPerPixel:           1,
		PixelRepresentation:       0,
		PlanarConfiguration:       0,
		PhotometricInterpretation: "MONOCHROME2",
	}
	if c.Mode() == container.Color {
		frameInfo.SamplesPerPixel = 3
		frameInfo.PhotometricInterpretation = "RGB"
	}
	return frameInfo, nil
}

func checkFrameInfo(frameInfo *imagetypes.FrameInfo) (container.Mode, error) {
	if frameInfo == nil {
		return 0, fmt.Errorf("%w: failed to get frame info from source pixel data", common.ErrInvalidInput)
	}
	if frameInfo.BitsAllocated != 8 || frameInfo.BitsStored != 8 {
		return 0, fmt.Errorf("%w: JPUG requires 8-bit samples, got %d bits allocated / %d stored",
			common.ErrInvalidInput, frameInfo.BitsAllocated, frameInfo.BitsStored)
	}
	if frameInfo.PixelRepresentation != 0 {
		return 0, fmt.Errorf("%w: JPUG requires unsigned samples", common.ErrInvalidInput)
	}

	switch frameInfo.SamplesPerPixel {
	case 1:
		return container.Luminance, nil
	case 3:
		if pi := string(frameInfo.PhotometricInterpretation); pi != "RGB" {
			return 0, fmt.Errorf("%w: photometric interpretation %s is not supported", common.ErrInvalidInput, pi)
		}
		return container.Color, nil
	default:
		return 0, fmt.Errorf("%w: %d samples per pixel", common.ErrInvalidInput, frameInfo.SamplesPerPixel)
	}
}

// FrameImage wraps one native frame as an image. Three-sample frames may
// be interleaved (planar configuration 0) or planar (1).
func FrameImage(frameData []byte, frameInfo *imagetypes.FrameInfo) (image.Image, error) {
	if _, err := checkFrameInfo(frameInfo); err != nil {
		return nil, err
	}

	w, h := int(frameInfo.Width), int(frameInfo.Height)
	spp := int(frameInfo.SamplesPerPixel)
	if len(frameData) < w*h*spp {
		return nil, fmt.Errorf("%w: frame holds %d bytes, %dx%dx%d needs %d",
			common.ErrInvalidInput, len(frameData), w, h, spp, w*h*spp)
	}

	if spp == 1 {
		img := image.NewGray(image.Rect(0, 0, w, h))
		copy(img.Pix, frameData[:w*h])
		return img, nil
	}

	planes := [3]*image.Gray{}
	for i := range planes {
		planes[i] = image.NewGray(image.Rect(0, 0, w, h))
	}
	n := w * h
	if frameInfo.PlanarConfiguration == 1 {
		for i := range planes {
			copy(planes[i].Pix, frameData[i*n:(i+1)*n])
		}
	} else {
		for p := 0; p < n; p++ {
			for i := range planes {
				planes[i].Pix[p] = frameData[3*p+i]
			}
		}
	}
	return rgb.Join(planes[0], planes[1], planes[2])
}

// FrameBytes returns the native frame for a decoded image: one byte per
// pixel for gray images, interleaved RGB otherwise.
func FrameBytes(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if gray, ok := img.(*image.Gray); ok {
		out := make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			out = append(out, gray.Pix[y*gray.Stride:y*gray.Stride+w]...)
		}
		return out
	}

	out := make([]byte, 0, 3*w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(bl>>8))
		}
	}
	return out
}
