package bitcoin

import "errors"

var (
	// ErrTruncatedData is returned when fewer bytes remain than an encoding requires.
	ErrTruncatedData = errors.New("truncated data")
	// ErrMalformedBlock is returned when counts or lengths in a block run past its buffer.
	ErrMalformedBlock = errors.New("malformed block")
	// ErrMissingFile is returned when no block file matches the requested range.
	ErrMissingFile = errors.New("missing block file")
)
