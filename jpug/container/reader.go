package container

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader provides little-endian primitives for reading JPUG records
type Reader struct {
	r   io.Reader
	buf [4]byte
}

// NewReader creates a new record reader
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadByte reads a single byte
func (r *Reader) ReadByte() (byte, error) {
	_, err := io.ReadFull(r.r, r.buf[:1])
	if err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// ReadUint16 reads a 16-bit little-endian value
func (r *Reader) ReadUint16() (uint16, error) {
	_, err := io.ReadFull(r.r, r.buf[:2])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

// ReadUint32 reads a 32-bit little-endian value
func (r *Reader) ReadUint32() (uint32, error) {
	_, err := io.ReadFull(r.r, r.buf[:4])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

// ReadFloat32 reads an IEEE single stored little-endian
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFull reads exactly len(buf) bytes
func (r *Reader) ReadFull(buf []byte) error {
	_, err := io.ReadFull(r.r, buf)
	return err
}

// AtEOF reports whether the underlying stream is exhausted. It consumes
// one byte when it is not.
func (r *Reader) AtEOF() (bool, error) {
	n, err := io.ReadFull(r.r, r.buf[:1])
	if n == 1 {
		return false, nil
	}
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

// Read implements io.Reader interface
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.r.Read(p)
}
