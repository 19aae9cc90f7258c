package channel

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/cocosip/go-jpug-codec/jpug/common"
	"github.com/cocosip/go-jpug-codec/jpug/compact"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = byte((x*5 + y*11) % 256)
		}
	}
	return img
}

func flat(w, h int, v byte) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func maxDiff(t *testing.T, a, b *image.Gray) int {
	t.Helper()
	if a.Bounds().Size() != b.Bounds().Size() {
		t.Fatalf("size mismatch: %v vs %v", a.Bounds(), b.Bounds())
	}
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	worst := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := int(a.Pix[y*a.Stride+x]) - int(b.Pix[y*b.Stride+x])
			if d < 0 {
				d = -d
			}
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BlockSize != 8 || cfg.Cutoff != 8 || cfg.SampleType != common.Float16 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.CoefficientsPerBlock(); got != 36 {
		t.Errorf("CoefficientsPerBlock() = %d, want 36", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"defaults", DefaultConfig(), nil},
		{"zero cutoff", Config{BlockSize: 8, Cutoff: 0, SampleType: common.Int8}, nil},
		{"max cutoff", Config{BlockSize: 8, Cutoff: 15, SampleType: common.Float32}, nil},
		{"zero block", Config{BlockSize: 0, Cutoff: 0, SampleType: common.Int8}, common.ErrInvalidParameter},
		{"cutoff too large", Config{BlockSize: 8, Cutoff: 16, SampleType: common.Int8}, common.ErrInvalidParameter},
		{"negative cutoff", Config{BlockSize: 8, Cutoff: -1, SampleType: common.Int8}, common.ErrInvalidParameter},
		{"bad type", Config{BlockSize: 8, Cutoff: 8, SampleType: common.SampleType(9)}, common.ErrInvalidSampleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeFlatPlane(t *testing.T) {
	img := flat(48, 48, 128)

	params := []struct{ size, cutoff int }{
		{1, 1}, {2, 3}, {3, 2}, {4, 1}, {5, 9}, {8, 8}, {16, 4},
	}
	for _, st := range []common.SampleType{common.Float16, common.Float32} {
		for _, p := range params {
			cfg := Config{BlockSize: p.size, Cutoff: p.cutoff, SampleType: st}
			coef, err := Encode(img, cfg)
			if err != nil {
				t.Fatalf("%v: Encode failed: %v", cfg, err)
			}
			blocks := 48 / p.size
			if want := [3]int{blocks, blocks, compact.Count(p.size, p.cutoff)}; coef.Shape() != want {
				t.Fatalf("%v: shape = %v, want %v", cfg, coef.Shape(), want)
			}

			out, err := Decode(coef, cfg)
			if err != nil {
				t.Fatalf("%v: Decode failed: %v", cfg, err)
			}
			if out.Bounds().Dx() != blocks*p.size {
				t.Fatalf("%v: width = %d, want %d", cfg, out.Bounds().Dx(), blocks*p.size)
			}
			for i, v := range out.Pix {
				if v != 128 {
					t.Fatalf("%v: pixel %d = %d, want 128", cfg, i, v)
				}
			}
		}
	}
}

func TestEncodeFlatPlaneInt8(t *testing.T) {
	tests := []struct {
		name  string
		level byte
		want  byte
	}{
		// DC = 8 * level fits in [-128, 127].
		{"in range", 12, 12},
		// DC = 1024 saturates to 127, which decodes to 127/8.
		{"saturated", 128, 16},
	}

	cfg := Config{BlockSize: 8, Cutoff: 8, SampleType: common.Int8}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coef, err := Encode(flat(16, 16, tt.level), cfg)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			out, err := Decode(coef, cfg)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			for i, v := range out.Pix {
				if v != tt.want {
					t.Fatalf("pixel %d = %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

func TestRoundTripLossless(t *testing.T) {
	img := gradient(24, 16)
	cfg := Config{BlockSize: 8, Cutoff: 15, SampleType: common.Float32}

	coef, err := Encode(img, cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if coef.N != 64 {
		t.Fatalf("N = %d, want 64", coef.N)
	}

	out, err := Decode(coef, cfg)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d := maxDiff(t, img, out); d > 1 {
		t.Errorf("max pixel difference = %d, want <= 1", d)
	}
}

func TestEncodeCrops(t *testing.T) {
	img := gradient(17, 17)
	cfg := DefaultConfig()

	coef, err := Encode(img, cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if coef.BlocksY != 2 || coef.BlocksX != 2 {
		t.Fatalf("blocks = %dx%d, want 2x2", coef.BlocksY, coef.BlocksX)
	}

	out, err := Decode(coef, cfg)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Errorf("decoded bounds = %v, want 16x16", out.Bounds())
	}
}

func TestLowerCutoffLosesDetail(t *testing.T) {
	img := gradient(32, 32)
	// add high-frequency detail
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if (x+y)%2 == 0 {
				img.Pix[y*img.Stride+x] /= 2
			}
		}
	}

	errAt := func(cutoff int) int {
		cfg := Config{BlockSize: 8, Cutoff: cutoff, SampleType: common.Float32}
		coef, err := Encode(img, cfg)
		if err != nil {
			t.Fatalf("Encode(d=%d) failed: %v", cutoff, err)
		}
		out, err := Decode(coef, cfg)
		if err != nil {
			t.Fatalf("Decode(d=%d) failed: %v", cutoff, err)
		}
		return maxDiff(t, img, out)
	}

	if low, full := errAt(2), errAt(15); low <= full {
		t.Errorf("d=2 error %d should exceed d=15 error %d", low, full)
	}
}

func TestDecodeZeroCutoff(t *testing.T) {
	cfg := Config{BlockSize: 4, Cutoff: 0, SampleType: common.Int8}
	coef, err := Encode(gradient(8, 8), cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if coef.N != 0 || len(coef.Values) != 0 {
		t.Fatalf("d=0 kept %d coefficients", coef.N)
	}

	out, err := Decode(coef, cfg)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i, v := range out.Pix {
		if v != 0 {
			t.Fatalf("pixel %d = %d, want 0", i, v)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cfg := DefaultConfig()
	coef, err := Encode(gradient(16, 16), cfg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	t.Run("type mismatch", func(t *testing.T) {
		other := cfg
		other.SampleType = common.Float32
		if _, err := Decode(coef, other); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("Decode() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("cutoff mismatch", func(t *testing.T) {
		other := cfg
		other.Cutoff = 9
		if _, err := Decode(coef, other); !errors.Is(err, common.ErrShapeMismatch) {
			t.Errorf("Decode() = %v, want ErrShapeMismatch", err)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if _, err := Decode(nil, cfg); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("Decode(nil) = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := Encode(gradient(8, 8), Config{BlockSize: 8, Cutoff: 16}); !errors.Is(err, common.ErrInvalidParameter) {
			t.Errorf("Encode() = %v, want ErrInvalidParameter", err)
		}
	})
}

func TestCodecSetParams(t *testing.T) {
	c, err := NewCodec(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	if err := c.SetParams(4, 5); err != nil {
		t.Fatalf("SetParams(4, 5) failed: %v", err)
	}
	if f, d := c.Params(); f != 4 || d != 5 {
		t.Errorf("Params() = (%d, %d), want (4, 5)", f, d)
	}
	if got, want := c.Stats(), compact.Stats(4, 5); got != want {
		t.Errorf("Stats() = %v, want %v", got, want)
	}

	for _, p := range [][2]int{{0, 0}, {4, 8}, {-1, 1}, {4, -1}} {
		if err := c.SetParams(p[0], p[1]); !errors.Is(err, common.ErrInvalidParameter) {
			t.Errorf("SetParams(%d, %d) = %v, want ErrInvalidParameter", p[0], p[1], err)
		}
		if f, d := c.Params(); f != 4 || d != 5 {
			t.Errorf("after rejected SetParams(%d, %d): Params() = (%d, %d), want (4, 5)", p[0], p[1], f, d)
		}
	}
}

func TestCodecSetSampleType(t *testing.T) {
	c, err := NewCodec(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	if err := c.SetSampleType(common.Int8); err != nil {
		t.Fatalf("SetSampleType(int8) failed: %v", err)
	}
	if c.SampleType() != common.Int8 {
		t.Errorf("SampleType() = %s, want int8", c.SampleType())
	}

	if err := c.SetSampleType(common.SampleType(3)); !errors.Is(err, common.ErrInvalidSampleType) {
		t.Errorf("SetSampleType(3) = %v, want ErrInvalidSampleType", err)
	}
	if c.SampleType() != common.Int8 {
		t.Errorf("rejected SetSampleType changed state to %s", c.SampleType())
	}
}

func TestNewCodecRejectsInvalid(t *testing.T) {
	if _, err := NewCodec(Config{BlockSize: 2, Cutoff: 4, SampleType: common.Int8}); !errors.Is(err, common.ErrInvalidParameter) {
		t.Errorf("NewCodec() = %v, want ErrInvalidParameter", err)
	}
}

func TestCodecConcurrentUse(t *testing.T) {
	c, err := NewCodec(Config{BlockSize: 8, Cutoff: 15, SampleType: common.Float32})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	img := gradient(32, 32)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			coef, err := c.Encode(img)
			if err != nil {
				errs <- err
				return
			}
			if coef.N != 64 {
				errs <- errors.New("unexpected coefficient count")
			}
		}()
		go func() {
			defer wg.Done()
			_ = c.SetSampleType(common.Float32)
			_ = c.Stats()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
