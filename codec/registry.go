package codec

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/cocosip/go-jpug-codec/jpug/channel"
	"github.com/cocosip/go-jpug-codec/jpug/container"
)

// Registry manages the available codecs
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec // keyed by name
	modes  map[container.Mode]Codec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
		modes:  make(map[container.Mode]Codec),
	}
}

var defaultRegistry = NewRegistry()

// Register registers a codec using both its name and mode
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec by name
func Get(name string) (Codec, error) {
	return defaultRegistry.Get(name)
}

// ForMode retrieves the codec handling mode
func ForMode(mode container.Mode) (Codec, error) {
	return defaultRegistry.ForMode(mode)
}

// List returns all registered codecs
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a codec using both its name and mode. A later
// registration for the same mode replaces the earlier one.
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.modes[codec.Mode()]; ok && old.Name() != codec.Name() {
		delete(r.codecs, old.Name())
	}
	r.codecs[codec.Name()] = codec
	r.modes[codec.Mode()] = codec
}

// Get retrieves a codec by name
func (r *Registry) Get(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[name]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// ForMode retrieves the codec handling mode
func (r *Registry) ForMode(mode container.Mode) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.modes[mode]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// List returns all registered codecs ordered by mode
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codecs := make([]Codec, 0, len(r.modes))
	for _, codec := range r.modes {
		codecs = append(codecs, codec)
	}
	sort.Slice(codecs, func(i, j int) bool {
		return codecs[i].Mode() < codecs[j].Mode()
	})

	return codecs
}

// Encode encodes img with the codec registered for mode
func (r *Registry) Encode(mode container.Mode, img image.Image, cfg channel.Config) (*container.Container, error) {
	codec, err := r.ForMode(mode)
	if err != nil {
		return nil, fmt.Errorf("mode %s: %w", mode, err)
	}
	return codec.Encode(img, cfg)
}

// Decode decodes c with the codec registered for its mode
func (r *Registry) Decode(c *container.Container) (image.Image, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil container", ErrInvalidInput)
	}
	codec, err := r.ForMode(c.Mode())
	if err != nil {
		return nil, fmt.Errorf("mode %s: %w", c.Mode(), err)
	}
	return codec.Decode(c)
}
