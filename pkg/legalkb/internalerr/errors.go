package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrSourceUnavailable = errors.New("record source unavailable")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrSealed            = errors.New("index already built")
)
