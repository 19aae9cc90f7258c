package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cocosip/go-jpug-codec/imageio"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

// encodedPath returns <base>_<MODE>.jpug for an image path.
func encodedPath(path string, mode container.Mode) string {
	return imageio.Base(path) + "_" + mode.String() + container.Extension
}

// decodedPath returns <base>.bmp for a container path.
func decodedPath(path string) string {
	base := path
	if strings.EqualFold(filepath.Ext(path), container.Extension) {
		base = imageio.Base(path)
	}
	return base + imageio.DefaultExtension
}

// framePath returns <base>_<frame>_<MODE>.jpug for one DICOM frame.
func framePath(path string, frame int, mode container.Mode) string {
	return imageio.Base(path) + "_" + strconv.Itoa(frame) + "_" + mode.String() + container.Extension
}
