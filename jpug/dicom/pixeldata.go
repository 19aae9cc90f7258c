package dicom

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// FrameSource supplies native (uncompressed) frames.
type FrameSource interface {
	GetFrameInfo() *imagetypes.FrameInfo
	FrameCount() int
	GetFrame(frameIndex int) ([]byte, error)
}

// FrameSink receives decoded native frames.
type FrameSink interface {
	AddFrame(frameData []byte) error
}

// PixelData is an in-memory frame store usable as both source and sink
type PixelData struct {
	frames    [][]byte
	frameInfo *imagetypes.FrameInfo
}

// NewPixelData creates a new PixelData with the given frame info
func NewPixelData(frameInfo *imagetypes.FrameInfo) *PixelData {
	return &PixelData{
		frames:    make([][]byte, 0),
		frameInfo: frameInfo,
	}
}

// GetFrame returns the pixel data for the specified frame (0-indexed)
func (p *PixelData) GetFrame(frameIndex int) ([]byte, error) {
	if frameIndex < 0 || frameIndex >= len(p.frames) {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", frameIndex, len(p.frames))
	}
	return p.frames[frameIndex], nil
}

// AddFrame appends a new frame to the pixel data
func (p *PixelData) AddFrame(frameData []byte) error {
	p.frames = append(p.frames, frameData)
	return nil
}

// FrameCount returns the number of frames in the pixel data
func (p *PixelData) FrameCount() int {
	return len(p.frames)
}

// GetFrameInfo returns frame metadata for codec operations
func (p *PixelData) GetFrameInfo() *imagetypes.FrameInfo {
	return p.frameInfo
}

// SetFrameInfo replaces the frame metadata
func (p *PixelData) SetFrameInfo(frameInfo *imagetypes.FrameInfo) {
	p.frameInfo = frameInfo
}

// IsEncapsulated returns false: frames are stored uncompressed
func (p *PixelData) IsEncapsulated() bool {
	return false
}
