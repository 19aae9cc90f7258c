package channel

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-jpug-codec/jpug/common"
)

// Ensure Parameters implements codec.Parameters
var _ codec.Parameters = (*Parameters)(nil)

// Parameter names understood by GetParameter, SetParameter and
// ConfigFromParameters.
const (
	ParamBlockSize  = "blockSize"
	ParamCutoff     = "cutoff"
	ParamSampleType = "sampleType"
)

// Parameters contains the JPUG encoding parameters in the generic
// parameter form used by the DICOM imaging codecs.
type Parameters struct {
	// BlockSize is the block edge length F. Default: 8.
	BlockSize int

	// Cutoff is the number of low antidiagonals kept, 0 <= d <= 2F-1.
	// Default: 8.
	Cutoff int

	// SampleType is the coefficient storage type. Default: float16.
	SampleType common.SampleType

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewParameters creates Parameters with default values.
func NewParameters() *Parameters {
	return &Parameters{
		BlockSize:  DefaultBlockSize,
		Cutoff:     DefaultCutoff,
		SampleType: DefaultSampleType,
		params:     make(map[string]interface{}),
	}
}

// ParametersFromConfig wraps a Config.
func ParametersFromConfig(cfg Config) *Parameters {
	return NewParameters().
		WithBlockSize(cfg.BlockSize).
		WithCutoff(cfg.Cutoff).
		WithSampleType(cfg.SampleType)
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case ParamBlockSize:
		return p.BlockSize
	case ParamCutoff:
		return p.Cutoff
	case ParamSampleType:
		return p.SampleType
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters).
// The sample type may be given as a common.SampleType or by name.
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case ParamBlockSize:
		if v, ok := value.(int); ok {
			p.BlockSize = v
		}
	case ParamCutoff:
		if v, ok := value.(int); ok {
			p.Cutoff = v
		}
	case ParamSampleType:
		switch v := value.(type) {
		case common.SampleType:
			p.SampleType = v
		case string:
			if t, err := common.ParseSampleType(v); err == nil {
				p.SampleType = t
			}
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *Parameters) Validate() error {
	return p.Config().Validate()
}

// Config returns the parameters as a Config.
func (p *Parameters) Config() Config {
	return Config{
		BlockSize:  p.BlockSize,
		Cutoff:     p.Cutoff,
		SampleType: p.SampleType,
	}
}

// WithBlockSize sets F and returns the parameters for chaining
func (p *Parameters) WithBlockSize(size int) *Parameters {
	p.BlockSize = size
	return p
}

// WithCutoff sets d and returns the parameters for chaining
func (p *Parameters) WithCutoff(cutoff int) *Parameters {
	p.Cutoff = cutoff
	return p
}

// WithSampleType sets the storage type and returns the parameters for chaining
func (p *Parameters) WithSampleType(t common.SampleType) *Parameters {
	p.SampleType = t
	return p
}

// ConfigFromParameters builds a validated Config from any codec.Parameters.
// A nil value yields DefaultConfig; unknown implementations are read
// through GetParameter, falling back to defaults for missing entries.
func ConfigFromParameters(parameters codec.Parameters) (Config, error) {
	cfg := DefaultConfig()
	if parameters != nil {
		if p, ok := parameters.(*Parameters); ok {
			cfg = p.Config()
		} else {
			if v := parameters.GetParameter(ParamBlockSize); v != nil {
				n, ok := v.(int)
				if !ok {
					return Config{}, fmt.Errorf("%w: %s must be an int, got %T", common.ErrInvalidParameter, ParamBlockSize, v)
				}
				cfg.BlockSize = n
			}
			if v := parameters.GetParameter(ParamCutoff); v != nil {
				n, ok := v.(int)
				if !ok {
					return Config{}, fmt.Errorf("%w: %s must be an int, got %T", common.ErrInvalidParameter, ParamCutoff, v)
				}
				cfg.Cutoff = n
			}
			if v := parameters.GetParameter(ParamSampleType); v != nil {
				switch t := v.(type) {
				case common.SampleType:
					cfg.SampleType = t
				case string:
					st, err := common.ParseSampleType(t)
					if err != nil {
						return Config{}, err
					}
					cfg.SampleType = st
				default:
					return Config{}, fmt.Errorf("%w: %s has type %T", common.ErrInvalidSampleType, ParamSampleType, v)
				}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
