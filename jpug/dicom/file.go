package dicom

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// ReadFile loads the pixel data of a DICOM file as native frames.
// Encapsulated files are transcoded to Explicit VR Little Endian first,
// which needs the matching go-dicom codec to be registered.
func ReadFile(path string) (*PixelData, error) {
	res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ds := res.Dataset
	if res.TransferSyntax != nil && res.TransferSyntax.IsEncapsulated() {
		tr := codec.NewTranscoder(res.TransferSyntax, transfer.ExplicitVRLittleEndian)
		newDS, err := tr.Transcode(ds)
		if err != nil {
			return nil, fmt.Errorf("transcode %s: %w", path, err)
		}
		ds = newDS
	}

	samples := ds.TryGetUInt16(tag.SamplesPerPixel, 1)
	bitsStored := ds.TryGetUInt16(tag.BitsStored, 8)
	frameInfo := &imagetypes.FrameInfo{
		Width:                     ds.TryGetUInt16(tag.Columns, 0),
		Height:                    ds.TryGetUInt16(tag.Rows, 0),
		BitsAllocated:             ds.TryGetUInt16(tag.BitsAllocated, 8),
		BitsStored:                bitsStored,
		HighBit:                   ds.TryGetUInt16(tag.HighBit, bitsStored-1),
		SamplesPerPixel:           samples,
		PixelRepresentation:       ds.TryGetUInt16(tag.PixelRepresentation, 0),
		PlanarConfiguration:       ds.TryGetUInt16(tag.PlanarConfiguration, 0),
		PhotometricInterpretation: "MONOCHROME2",
	}
	if samples == 3 {
		frameInfo.PhotometricInterpretation = "RGB"
	}

	pd, err := imaging.CreatePixelData(ds)
	if err != nil {
		return nil, fmt.Errorf("pixel data %s: %w", path, err)
	}

	out := NewPixelData(frameInfo)
	for i := 0; i < pd.FrameCount(); i++ {
		frame, err := pd.GetFrame(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get frame %d: %w", i, err)
		}
		if err := out.AddFrame(frame); err != nil {
			return nil, err
		}
	}

	return out, nil
}
