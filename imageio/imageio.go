// Package imageio reads and writes raster image files.
package imageio

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultExtension is the extension of decoded images.
const DefaultExtension = ".bmp"

// Load decodes the image file at path. EXIF orientation is not applied,
// so pixels come back exactly as stored.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path in the format implied by its extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Supported reports whether path has an extension Save can encode.
func Supported(path string) bool {
	_, err := imaging.FormatFromFilename(path)
	return err == nil
}

// Base returns path without its extension.
func Base(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
