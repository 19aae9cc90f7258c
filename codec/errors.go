package codec

import (
	"errors"

	"github.com/cocosip/go-jpug-codec/jpug/common"
)

var (
	// ErrCodecNotFound is returned when a codec is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when encoding parameters are invalid
	ErrInvalidParameter = common.ErrInvalidParameter

	// ErrInvalidInput is returned for images or containers a codec cannot handle
	ErrInvalidInput = common.ErrInvalidInput
)
