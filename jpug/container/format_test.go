package container

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
	"github.com/google/go-cmp/cmp"
)

func TestRecordLayout(t *testing.T) {
	y := common.NewCoefficients(1, 1, 1, common.Int8)
	y.Values[0] = -3

	c, err := NewLuminance(2, 1, y)
	if err != nil {
		t.Fatalf("NewLuminance failed: %v", err)
	}

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	want := []byte{
		'J', 'P', 'U', 'G',
		1,    // version
		0,    // mode L
		2, 0, // F
		1, 0, // d
		0,          // int8
		1, 0, 0, 0, // blocks_x
		1, 0, 0, 0, // blocks_y
		0xFD, // -3
	}
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if n != int64(len(want)) || HeaderSize != len(want)-1 {
		t.Errorf("WriteTo returned %d, header size %d", n, HeaderSize)
	}
}

func TestFloatEncoding(t *testing.T) {
	for _, tt := range []struct {
		st   common.SampleType
		want []byte
	}{
		{common.Float16, []byte{0x00, 0x3C}},             // 1.0
		{common.Float32, []byte{0x00, 0x00, 0x80, 0x3F}}, // 1.0
	} {
		y := common.NewCoefficients(1, 1, 1, tt.st)
		y.Values[0] = 1
		c, err := NewLuminance(1, 1, y)
		if err != nil {
			t.Fatalf("NewLuminance failed: %v", err)
		}
		data, err := c.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary failed: %v", err)
		}
		if diff := cmp.Diff(tt.want, data[HeaderSize:]); diff != "" {
			t.Errorf("%s payload mismatch (-want +got):\n%s", tt.st, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	types := []common.SampleType{common.Int8, common.Float16, common.Float32}

	for _, st := range types {
		t.Run("L/"+st.String(), func(t *testing.T) {
			c, err := NewLuminance(8, 10, coefficients(3, 2, 8, 10, st, 4))
			if err != nil {
				t.Fatalf("NewLuminance failed: %v", err)
			}
			checkRoundTrip(t, c)
		})

		t.Run("RGB/"+st.String(), func(t *testing.T) {
			c, err := NewColor(4, 3,
				coefficients(2, 5, 4, 3, st, 1),
				coefficients(2, 5, 4, 3, st, 2),
				coefficients(2, 5, 4, 3, st, 3))
			if err != nil {
				t.Fatalf("NewColor failed: %v", err)
			}
			checkRoundTrip(t, c)
		})
	}
}

func checkRoundTrip(t *testing.T, c *Container) {
	t.Helper()

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if want := int64(HeaderSize) + c.Header().PayloadSize(); n != want {
		t.Errorf("wrote %d bytes, want %d", n, want)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.Header() != c.Header() {
		t.Errorf("header = %+v, want %+v", got.Header(), c.Header())
	}
	want := c.Channels()
	for i, ch := range got.Channels() {
		if diff := cmp.Diff(want[i].Values, ch.Values); diff != "" {
			t.Errorf("channel %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestEmptyContainerRoundTrip(t *testing.T) {
	c, err := NewLuminance(8, 0, common.NewCoefficients(0, 0, 0, common.Int8))
	if err != nil {
		t.Fatalf("NewLuminance failed: %v", err)
	}
	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != HeaderSize {
		t.Errorf("record length = %d, want %d", len(data), HeaderSize)
	}

	var got Container
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if got.Bounds().Dx() != 0 || got.Cutoff() != 0 {
		t.Errorf("decoded container = %v", &got)
	}
}

func TestReadMalformed(t *testing.T) {
	y := common.NewCoefficients(1, 2, 3, common.Float16)
	c, err := NewLuminance(4, 2, y)
	if err != nil {
		t.Fatalf("NewLuminance failed: %v", err)
	}
	good, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	patch := func(off int, b ...byte) []byte {
		out := append([]byte(nil), good...)
		copy(out[off:], b)
		return out
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", patch(0, 'J', 'P', 'E', 'G')},
		{"bad version", patch(4, 2)},
		{"bad mode", patch(5, 2)},
		{"zero block size", patch(6, 0, 0)},
		{"cutoff too large", patch(8, 8, 0)},
		{"bad sample type", patch(10, 3)},
		{"oversized", patch(11, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)},
		{"truncated header", good[:HeaderSize-1]},
		{"truncated payload", good[:len(good)-1]},
		{"trailing data", append(append([]byte(nil), good...), 0)},
		{"huge raster", rawHeader(t, Header{Mode: Luminance, BlockSize: 1, Cutoff: 1, BlocksX: 0xFFFF, BlocksY: 0x7FFF})},
		{"large payload truncated", append(
			rawHeader(t, Header{Mode: Color, BlockSize: 1, Cutoff: 1, BlocksX: 0x4000, BlocksY: 0x3FFF}),
			make([]byte, 10)...)},
		{"block size over limit", rawHeader(t, Header{Mode: Luminance, BlockSize: MaxBlockSize + 1, Cutoff: 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(tt.data)); !errors.Is(err, common.ErrFormat) {
				t.Errorf("Read() = %v, want ErrFormat", err)
			}
		})
	}

	if _, err := Read(bytes.NewReader(good)); err != nil {
		t.Errorf("Read(good) = %v", err)
	}
}

func rawHeader(t *testing.T, h Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := writeHeader(NewWriter(&buf), h); err != nil {
		t.Fatalf("writeHeader failed: %v", err)
	}
	return buf.Bytes()
}

func TestWriteToRejectsOversizedBlocks(t *testing.T) {
	c, err := NewLuminance(0xFFFF, 0xFFFF, common.NewCoefficients(0, 0, compact.Count(0xFFFF, 0xFFFF), common.Int8))
	if err != nil {
		t.Fatalf("NewLuminance failed: %v", err)
	}
	if _, err := c.MarshalBinary(); !errors.Is(err, common.ErrFormat) {
		t.Errorf("MarshalBinary() = %v, want ErrFormat", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	c, err := NewColor(2, 3,
		coefficients(3, 3, 2, 3, common.Float32, 1),
		coefficients(3, 3, 2, 3, common.Float32, 2),
		coefficients(3, 3, 2, 3, common.Float32, 3))
	if err != nil {
		t.Fatalf("NewColor failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "image_RGB"+Extension)
	if err := WriteFile(path, c); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got.String() != c.String() {
		t.Errorf("ReadFile() = %v, want %v", got, c)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.jpug"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() = %v, want fs.ErrNotExist", err)
	}
}
