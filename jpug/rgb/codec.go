// Package rgb implements the three-channel JPUG variant. The R, G and B
// planes are encoded independently with one shared configuration.
package rgb

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"

	"github.com/cocosip/go-jpug-codec/codec"
	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

// Name is the registry name of the colour codec.
const Name = "jpug-rgb"

// Codec implements the codec.Codec interface for RGB images
type Codec struct{}

// NewCodec creates a new colour codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode splits img into R, G and B planes and encodes them concurrently.
func (c *Codec) Encode(img image.Image, cfg channel.Config) (*container.Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	planes, err := Split(img)
	if err != nil {
		return nil, err
	}

	var (
		coefs [3]*common.Coefficients
		errs  [3]error
		wg    sync.WaitGroup
	)
	for i := range planes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coefs[i], errs[i] = channel.Encode(planes[i], cfg)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("channel %c: %w", "RGB"[i], err)
		}
	}

	return container.NewColor(cfg.BlockSize, cfg.Cutoff, coefs[0], coefs[1], coefs[2])
}

// Decode decodes a Color container to an opaque *image.RGBA.
func (c *Codec) Decode(ct *container.Container) (image.Image, error) {
	if ct == nil {
		return nil, fmt.Errorf("%w: nil container", common.ErrInvalidInput)
	}
	r, g, b, err := ct.RGB()
	if err != nil {
		return nil, err
	}

	cfg := ct.Config()
	var (
		planes [3]*image.Gray
		errs   [3]error
		wg     sync.WaitGroup
	)
	for i, coef := range []*common.Coefficients{r, g, b} {
		wg.Add(1)
		go func(i int, coef *common.Coefficients) {
			defer wg.Done()
			planes[i], errs[i] = channel.Decode(coef, cfg)
		}(i, coef)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("channel %c: %w", "RGB"[i], err)
		}
	}

	return Join(planes[0], planes[1], planes[2])
}

// Mode returns container.Color
func (c *Codec) Mode() container.Mode {
	return container.Color
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return Name
}

// Split converts img to 8-bit RGB and returns its three planes. Gray,
// paletted, alpha-only and CMYK images are rejected, as are images with
// transparent pixels.
func Split(img image.Image) ([3]*image.Gray, error) {
	var planes [3]*image.Gray

	if err := checkColor(img); err != nil {
		return planes, err
	}

	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	for i := range planes {
		planes[i] = image.NewGray(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+4*w]
		for x := 0; x < w; x++ {
			for i := range planes {
				planes[i].Pix[y*planes[i].Stride+x] = src[4*x+i]
			}
		}
	}

	return planes, nil
}

func checkColor(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", common.ErrInvalidInput)
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Paletted, *image.Alpha, *image.Alpha16, *image.CMYK:
		return fmt.Errorf("%w: %T is not an RGB image", common.ErrInvalidInput, img)
	case *image.RGBA64, *image.NRGBA64:
		return fmt.Errorf("%w: %T has 16-bit samples", common.ErrInvalidInput, img)
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model, color.CMYKModel:
		return fmt.Errorf("%w: colour model of %T is not RGB", common.ErrInvalidInput, img)
	case color.RGBA64Model, color.NRGBA64Model:
		return fmt.Errorf("%w: colour model of %T has 16-bit samples", common.ErrInvalidInput, img)
	}
	if _, ok := img.ColorModel().(color.Palette); ok {
		return fmt.Errorf("%w: paletted images are not RGB", common.ErrInvalidInput)
	}

	// An alpha channel is accepted only when every pixel is fully opaque.
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return fmt.Errorf("%w: image has transparent pixels", common.ErrInvalidInput)
	}
	return nil
}

// Join interleaves three equally sized planes into an opaque *image.RGBA.
func Join(r, g, b *image.Gray) (*image.RGBA, error) {
	if r == nil || g == nil || b == nil {
		return nil, fmt.Errorf("%w: nil plane", common.ErrInvalidInput)
	}
	size := r.Bounds().Size()
	if g.Bounds().Size() != size || b.Bounds().Size() != size {
		return nil, fmt.Errorf("%w: plane sizes differ: %v, %v, %v",
			common.ErrShapeMismatch, size, g.Bounds().Size(), b.Bounds().Size())
	}

	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	planes := [3]*image.Gray{r, g, b}
	for y := 0; y < size.Y; y++ {
		dst := out.Pix[y*out.Stride : y*out.Stride+4*size.X]
		for x := 0; x < size.X; x++ {
			for i, p := range planes {
				dst[4*x+i] = p.Pix[y*p.Stride+x]
			}
			dst[4*x+3] = 0xFF
		}
	}

	return out, nil
}

// Register registers this codec with the global registry
func init() {
	codec.Register(NewCodec())
}
