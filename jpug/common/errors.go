package common

import "errors"

// Common errors
var (
	ErrInvalidParameter  = errors.New("jpug: invalid block size or cutoff")
	ErrInvalidSampleType = errors.New("jpug: invalid sample type")
	ErrInvalidInput      = errors.New("jpug: invalid input")
	ErrShapeMismatch     = errors.New("jpug: coefficient shape mismatch")
	ErrFormat            = errors.New("jpug: malformed container")
	ErrInvalidDimension  = errors.New("jpug: invalid block dimension")
)
