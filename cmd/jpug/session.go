package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"time"

	"github.com/cocosip/go-jpug-codec/codec"
	"github.com/cocosip/go-jpug-codec/imageio"
	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/container"
	"github.com/cocosip/go-jpug-codec/jpug/dicom"
	"github.com/cocosip/go-jpug-codec/jpug/luminance"
	_ "github.com/cocosip/go-jpug-codec/jpug/rgb"
)

// DefaultMode is the mode a new session starts in.
const DefaultMode = container.Color

// Session holds the active mode and one channel configuration per mode.
// Changing parameters affects the active mode only.
type Session struct {
	mode   container.Mode
	codecs map[container.Mode]*channel.Codec
	log    *slog.Logger
}

// NewSession creates a session in mode with cfg applied to every mode.
func NewSession(mode container.Mode, cfg channel.Config, log *slog.Logger) (*Session, error) {
	if mode.Channels() == 0 {
		return nil, fmt.Errorf("%w: unknown mode %d", common.ErrInvalidParameter, mode)
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Session{
		mode:   mode,
		codecs: make(map[container.Mode]*channel.Codec),
		log:    log,
	}
	for _, m := range []container.Mode{container.Luminance, container.Color} {
		c, err := channel.NewCodec(cfg)
		if err != nil {
			return nil, err
		}
		s.codecs[m] = c
	}
	return s, nil
}

// Mode returns the active mode.
func (s *Session) Mode() container.Mode { return s.mode }

// Config returns the configuration of the active mode.
func (s *Session) Config() channel.Config { return s.active().Config() }

func (s *Session) active() *channel.Codec { return s.codecs[s.mode] }

// SwitchMode toggles between Luminance and Color.
func (s *Session) SwitchMode() container.Mode {
	if s.mode == container.Luminance {
		s.mode = container.Color
	} else {
		s.mode = container.Luminance
	}
	s.log.Debug("mode switched", "mode", s.mode)
	return s.mode
}

// SetParams changes F and d of the active mode.
func (s *Session) SetParams(blockSize, cutoff int) error {
	if err := s.active().SetParams(blockSize, cutoff); err != nil {
		return err
	}
	s.log.Debug("parameters changed", "mode", s.mode, "F", blockSize, "d", cutoff)
	return nil
}

// SetSampleType changes the storage type of the active mode. It reports
// whether t is an integer type, whose range clips large coefficients.
func (s *Session) SetSampleType(t common.SampleType) (bool, error) {
	if err := s.active().SetSampleType(t); err != nil {
		return false, err
	}
	s.log.Debug("sample type changed", "mode", s.mode, "type", t)
	return !t.IsFloat(), nil
}

// Stats returns the fraction of coefficients saved with the active
// parameters.
func (s *Session) Stats() float64 {
	return s.active().Stats()
}

// Show loads the image at path as the active mode would see it.
func (s *Session) Show(path string) (image.Image, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	if s.mode == container.Luminance {
		gray, err := luminance.ToGray(img)
		if err != nil {
			return nil, err
		}
		return gray, nil
	}
	return img, nil
}

// Encode encodes the image at path with the active mode and writes the
// container to out, or next to the image when out is empty.
func (s *Session) Encode(path, out string) (string, error) {
	start := time.Now()

	img, err := imageio.Load(path)
	if err != nil {
		return "", err
	}

	cfg := s.Config()
	c, err := codec.Encode(s.mode, img, cfg)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = encodedPath(path, s.mode)
	}
	if err := container.WriteFile(out, c); err != nil {
		return "", err
	}

	s.log.Debug("image encoded", "src", path, "dst", out, "container", c.String(), "elapsed", time.Since(start))
	return out, nil
}

// Decode decodes the container at path and writes the image to out, or
// to <base>.bmp when out is empty. Parameters come from the container.
func (s *Session) Decode(path, out string) (string, error) {
	start := time.Now()

	c, err := container.ReadFile(path)
	if err != nil {
		return "", err
	}

	img, err := codec.Decode(c)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = decodedPath(path)
	}
	if err := imageio.Save(img, out); err != nil {
		return "", err
	}

	s.log.Debug("image decoded", "src", path, "dst", out, "container", c.String(), "elapsed", time.Since(start))
	return out, nil
}

// Info describes the container at path.
func (s *Session) Info(path string) (*container.Container, error) {
	return container.ReadFile(path)
}

// EncodeDICOM encodes every frame of a DICOM file with the active
// configuration. The mode follows the samples per pixel of the file.
func (s *Session) EncodeDICOM(path string) ([]string, error) {
	pd, err := dicom.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cs, err := dicom.EncodeFrames(pd, channel.ParametersFromConfig(s.Config()))
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(cs))
	for i, c := range cs {
		out := framePath(path, i, c.Mode())
		if err := container.WriteFile(out, c); err != nil {
			return paths, err
		}
		paths = append(paths, out)
	}

	s.log.Debug("dicom encoded", "src", path, "frames", len(cs))
	return paths, nil
}

// Result and error messages shown to the user.
const (
	msgSwitchMode    = "Mode switched to %s"
	msgChangeParams  = "Parameters changed to F=%d and d=%d"
	msgChangeType    = "Sample type changed to %s"
	msgEncode        = "Image encoded at '%s' successfully"
	msgDecode        = "Image decoded at '%s' successfully"
	msgStats         = "The percentage of elements saved is %g"
	msgExit          = "Exiting..."
	msgInvalidParams = "Invalid parameters: F=%d and d=%d"
	msgInvalidType   = "Invalid sample type: %s"
	msgInvalidMode   = "Invalid mode: %s"
	msgFileNotFound  = "File '%s' not found"
	msgInvalidFormat = "File '%s' format not valid: %v"
	msgUnsupported   = "Image '%s' not supported: %v"
	msgInvalidConfig = "Invalid configuration: %v"
	msgZeroCutoff    = "Warning: d = 0 discards every coefficient"
	msgInt8Range     = "Warning: int8 saturates coefficients outside [-128, 127], bright blocks lose their level"
)

// errorMessage maps an operation error to the one-line message shown to
// the user. The message names the path and the offending value.
func errorMessage(err error, path string) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf(msgFileNotFound, path)
	case errors.Is(err, common.ErrInvalidParameter), errors.Is(err, common.ErrInvalidSampleType):
		return fmt.Sprintf(msgInvalidConfig, err)
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrInvalidDimension):
		return fmt.Sprintf(msgUnsupported, path, err)
	default:
		return fmt.Sprintf(msgInvalidFormat, path, err)
	}
}
