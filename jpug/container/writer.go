package container

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer provides little-endian primitives for writing JPUG records.
// It counts the bytes written.
type Writer struct {
	w   io.Writer
	n   int64
	buf [4]byte
}

// NewWriter creates a new record writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByte writes a single byte
func (w *Writer) WriteByte(b byte) error {
	w.buf[0] = b
	return w.WriteBytes(w.buf[:1])
}

// WriteUint16 writes a 16-bit little-endian value
func (w *Writer) WriteUint16(v uint16) error {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	return w.WriteBytes(w.buf[:2])
}

// WriteUint32 writes a 32-bit little-endian value
func (w *Writer) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	return w.WriteBytes(w.buf[:4])
}

// WriteFloat32 writes an IEEE single little-endian
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// Write writes raw bytes
func (w *Writer) Write(data []byte) (int, error) {
	n, err := w.w.Write(data)
	w.n += int64(n)
	return n, err
}

// WriteBytes is an alias for Write
func (w *Writer) WriteBytes(data []byte) error {
	_, err := w.Write(data)
	return err
}

// Count returns the number of bytes written so far
func (w *Writer) Count() int64 {
	return w.n
}
