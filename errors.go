package bloom

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameter is returned when filter sizing inputs are out of
	// range: zero expected elements or a false-positive rate outside (0, 1).
	ErrInvalidParameter = errors.New("bloom: invalid filter parameter")

	// ErrIndexOutOfRange reports a bit index beyond the vector length.
	// BitVector panics with it: given correct hashing the condition is
	// unreachable and indicates a bug, not a caller error.
	ErrIndexOutOfRange = errors.New("bloom: bit index out of range")

	// ErrCorruptData is returned when serialized data does not start with
	// the expected magic constant.
	ErrCorruptData = errors.New("bloom: corrupt serialized data")

	// ErrUnsupportedVersion is returned when the serialized format revision
	// is newer than this package supports.
	ErrUnsupportedVersion = errors.New("bloom: unsupported format version")

	// ErrTruncatedData is returned when the serialized header or bit payload
	// is shorter than the header fields declare.
	ErrTruncatedData = errors.New("bloom: truncated serialized data")
)
