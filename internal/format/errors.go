package format

import (
	"errors"
	"fmt"
)

var (
	ErrIO                       = errors.New("i/o error")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrTruncatedHeader          = errors.New("truncated header")
	ErrInvalidCompressionMethod = errors.New("invalid compression method")
	ErrMalformedSegment         = errors.New("malformed segment")
	ErrTruncatedPixelData       = errors.New("truncated pixel data")
	ErrUnknownFormat            = errors.New("unknown format")
	ErrTooLarge                 = errors.New("input exceeds size limit")
)

// CompressionError reports a BMP compression code outside the known set.
type CompressionError struct {
	Code uint32
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("unrecognized or unsupported BMP compression type: %d", e.Code)
}

func (e *CompressionError) Unwrap() error {
	return ErrInvalidCompressionMethod
}

// SegmentError reports a JPEG segment whose bytes do not fit the layout
// expected for its marker kind.
type SegmentError struct {
	Kind   MarkerKind
	Offset int
	Need   int
	Have   int
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("%s segment at offset %d: need %d bytes, have %d", e.Kind, e.Offset, e.Need, e.Have)
}

func (e *SegmentError) Unwrap() error {
	return ErrMalformedSegment
}
