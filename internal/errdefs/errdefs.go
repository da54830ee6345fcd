// Package errdefs defines the error classes shared by the shapelet pipeline.
//
// Callers wrap one of the sentinels with fmt.Errorf("...: %w", ErrX) and
// consumers test the class with errors.Is or the Is* helpers below.
package errdefs

import "errors"

var (
	// ErrInvalidConfiguration reports parameters that can never produce a
	// valid run (k < 1, min length > max length, fewer than two classes, an
	// empty shapelet set handed to the transform).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput reports data that does not fit the requested operation
	// (series shorter than a candidate, windows or channels out of bounds).
	ErrInvalidInput = errors.New("invalid input")

	// ErrResourceExhausted marks a time budget that expired before k
	// shapelets were retained. A search attaches it to its result as a
	// warning; building a classifier fails with it only when nothing at all
	// was retained.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// IsInvalidConfiguration reports whether err is of the configuration class.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsInvalidInput reports whether err is of the input class.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsResourceExhausted reports whether err is a budget shortfall warning.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}
