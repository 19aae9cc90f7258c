package container

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mrjoshuak/go-openexr/half"

	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
)

// Record constants.
const (
	Magic   = "JPUG"
	Version = 1

	// HeaderSize is the byte length of the fixed record header.
	HeaderSize = 4 + 1 + 1 + 2 + 2 + 1 + 4 + 4

	// MaxPayload bounds the payload a record may declare.
	MaxPayload = 1 << 31

	// MaxBlockSize bounds F so the per-block basis and scan tables stay small.
	MaxBlockSize = 4096

	// MaxPixels bounds the decoded raster of one channel.
	MaxPixels = 1 << 28
)

// Header is the fixed part of a record.
type Header struct {
	Mode       Mode
	BlockSize  int
	Cutoff     int
	SampleType common.SampleType
	BlocksX    int
	BlocksY    int
}

// PayloadSize returns the byte length of the payload described by h, or
// -1 when it exceeds MaxPayload.
func (h Header) PayloadSize() int64 {
	total := uint64(h.Mode.Channels()) * uint64(h.SampleType.Size())
	for _, f := range []int{h.BlocksX, h.BlocksY, compact.Count(h.BlockSize, h.Cutoff)} {
		if f < 0 {
			return -1
		}
		if f != 0 && total > MaxPayload/uint64(f) {
			return -1
		}
		total *= uint64(f)
	}
	if total > MaxPayload {
		return -1
	}
	return int64(total)
}

// checkLimits reports records whose tables or raster would exceed the
// reader's bounds.
func (h Header) checkLimits() error {
	if h.BlockSize > MaxBlockSize {
		return fmt.Errorf("%w: F=%d exceeds %d", common.ErrFormat, h.BlockSize, MaxBlockSize)
	}
	if h.BlocksX < 0 || h.BlocksY < 0 {
		return fmt.Errorf("%w: %dx%d blocks", common.ErrFormat, h.BlocksY, h.BlocksX)
	}
	w := uint64(h.BlocksX) * uint64(h.BlockSize)
	ht := uint64(h.BlocksY) * uint64(h.BlockSize)
	if w != 0 && ht > MaxPixels/w {
		return fmt.Errorf("%w: %dx%d raster exceeds %d pixels", common.ErrFormat, ht, w, MaxPixels)
	}
	if h.PayloadSize() < 0 {
		return fmt.Errorf("%w: %dx%d blocks of %d %s values exceed the payload limit",
			common.ErrFormat, h.BlocksY, h.BlocksX, compact.Count(h.BlockSize, h.Cutoff), h.SampleType)
	}
	return nil
}

// Header returns the record header of c.
func (c *Container) Header() Header {
	by, bx := c.Blocks()
	return Header{
		Mode:       c.mode,
		BlockSize:  c.blockSize,
		Cutoff:     c.cutoff,
		SampleType: c.SampleType(),
		BlocksX:    bx,
		BlocksY:    by,
	}
}

// WriteTo writes the record of c to w (implements io.WriterTo).
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	h := c.Header()
	if h.BlockSize > 0xFFFF || h.Cutoff > 0xFFFF {
		return 0, fmt.Errorf("%w: F=%d d=%d do not fit in 16 bits", common.ErrFormat, h.BlockSize, h.Cutoff)
	}
	if uint64(h.BlocksX) > 0xFFFFFFFF || uint64(h.BlocksY) > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: %dx%d blocks do not fit in 32 bits", common.ErrFormat, h.BlocksY, h.BlocksX)
	}
	if err := h.checkLimits(); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	out := NewWriter(bw)

	if err := writeHeader(out, h); err != nil {
		return out.Count(), err
	}
	for _, ch := range c.channels {
		if err := writeValues(out, ch.Values, h.SampleType); err != nil {
			return out.Count(), err
		}
	}
	if err := bw.Flush(); err != nil {
		return out.Count(), err
	}

	return out.Count(), nil
}

// MarshalBinary returns the record of c.
func (c *Container) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(w *Writer, h Header) error {
	if err := w.WriteBytes([]byte(Magic)); err != nil {
		return err
	}
	if err := w.WriteByte(Version); err != nil {
		return err
	}
	if err := w.WriteByte(byte(h.Mode)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(h.BlockSize)); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(h.Cutoff)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(h.SampleType)); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(h.BlocksX)); err != nil {
		return err
	}
	return w.WriteUint32(uint32(h.BlocksY))
}

func writeValues(w *Writer, values []float32, t common.SampleType) error {
	switch t {
	case common.Int8:
		for _, v := range values {
			if err := w.WriteByte(byte(int8(v))); err != nil {
				return err
			}
		}
	case common.Float16:
		for _, v := range values {
			if err := w.WriteUint16(uint16(half.FromFloat32(v))); err != nil {
				return err
			}
		}
	case common.Float32:
		for _, v := range values {
			if err := w.WriteFloat32(v); err != nil {
				return err
			}
		}
	default:
		return t.Validate()
	}
	return nil
}

// Read parses one record from r, which must end with it.
func Read(r io.Reader) (*Container, error) {
	in := NewReader(bufio.NewReader(r))

	h, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}

	// A channel's bytes must all be present before its values are allocated.
	n := compact.Count(h.BlockSize, h.Cutoff)
	size := h.PayloadSize() / int64(h.Mode.Channels())
	channels := make([]*common.Coefficients, h.Mode.Channels())
	for i := range channels {
		raw, err := io.ReadAll(io.LimitReader(in, size))
		if err != nil {
			return nil, err
		}
		if int64(len(raw)) != size {
			return nil, fmt.Errorf("%w: truncated record at payload, channel %d has %d of %d bytes",
				common.ErrFormat, i, len(raw), size)
		}
		ch := common.NewCoefficients(h.BlocksY, h.BlocksX, n, h.SampleType)
		if err := readValues(NewReader(bytes.NewReader(raw)), ch.Values, h.SampleType); err != nil {
			return nil, err
		}
		channels[i] = ch
	}

	eof, err := in.AtEOF()
	if err != nil {
		return nil, err
	}
	if !eof {
		return nil, fmt.Errorf("%w: trailing data after payload", common.ErrFormat)
	}

	return build(h.Mode, h.BlockSize, h.Cutoff, channels, false)
}

// UnmarshalBinary replaces c with the container held in data.
func (c *Container) UnmarshalBinary(data []byte) error {
	parsed, err := Read(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// ReadHeader parses and validates the fixed header of a record.
func ReadHeader(r *Reader) (Header, error) {
	var h Header

	magic := make([]byte, len(Magic))
	if err := r.ReadFull(magic); err != nil {
		return h, truncated(err, "magic")
	}
	if string(magic) != Magic {
		return h, fmt.Errorf("%w: bad magic %q", common.ErrFormat, magic)
	}

	version, err := r.ReadByte()
	if err != nil {
		return h, truncated(err, "version")
	}
	if version != Version {
		return h, fmt.Errorf("%w: unsupported version %d", common.ErrFormat, version)
	}

	mode, err := r.ReadByte()
	if err != nil {
		return h, truncated(err, "mode")
	}
	h.Mode = Mode(mode)
	if h.Mode.Channels() == 0 {
		return h, fmt.Errorf("%w: unknown mode %d", common.ErrFormat, mode)
	}

	blockSize, err := r.ReadUint16()
	if err != nil {
		return h, truncated(err, "block size")
	}
	cutoff, err := r.ReadUint16()
	if err != nil {
		return h, truncated(err, "cutoff")
	}
	h.BlockSize, h.Cutoff = int(blockSize), int(cutoff)
	if err := compact.ValidateParams(h.BlockSize, h.Cutoff); err != nil {
		return h, fmt.Errorf("%w: %w", common.ErrFormat, err)
	}

	st, err := r.ReadByte()
	if err != nil {
		return h, truncated(err, "sample type")
	}
	h.SampleType = common.SampleType(st)
	if err := h.SampleType.Validate(); err != nil {
		return h, fmt.Errorf("%w: %w", common.ErrFormat, err)
	}

	bx, err := r.ReadUint32()
	if err != nil {
		return h, truncated(err, "blocks_x")
	}
	by, err := r.ReadUint32()
	if err != nil {
		return h, truncated(err, "blocks_y")
	}
	h.BlocksX, h.BlocksY = int(bx), int(by)

	if err := h.checkLimits(); err != nil {
		return h, err
	}

	return h, nil
}

func readValues(r *Reader, values []float32, t common.SampleType) error {
	switch t {
	case common.Int8:
		for i := range values {
			b, err := r.ReadByte()
			if err != nil {
				return truncated(err, "payload")
			}
			values[i] = float32(int8(b))
		}
	case common.Float16:
		for i := range values {
			v, err := r.ReadUint16()
			if err != nil {
				return truncated(err, "payload")
			}
			values[i] = half.Half(v).Float32()
		}
	case common.Float32:
		for i := range values {
			v, err := r.ReadFloat32()
			if err != nil {
				return truncated(err, "payload")
			}
			values[i] = v
		}
	default:
		return t.Validate()
	}
	return nil
}

func truncated(err error, field string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated record at %s", common.ErrFormat, field)
	}
	return err
}
