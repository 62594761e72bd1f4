package png

import (
	"errors"
	"fmt"
)

var (
	ErrFormat            = errors.New("png: malformed container")
	ErrInvalidKeyword    = errors.New("png: invalid text keyword")
	ErrChecksumMismatch  = errors.New("png: chunk checksum mismatch")
	ErrTerminatorMissing = errors.New("terminating chunk not found")
)

// FormatError reports a container that cannot be walked. Offset is the
// position in the input where the walk gave up.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("png: format error at offset %d: %s", e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) hold for every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrorf(offset int, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
