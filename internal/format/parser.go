package format

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

// Parser is implemented by the BMP and JPEG decoders.
//
// Header returns a multi-line report of every decoded header field. Body
// returns the original bytes of the stream. Both may be called any number
// of times, in any order and concurrently: the stream is read only once.
type Parser interface {
	Format() Format
	Header() (string, error)
	Body() ([]byte, error)
}

type options struct {
	logger  *slog.Logger
	maxSize int64
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxSize bounds the number of bytes a parser will load.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// New returns the parser for the given format.
func New(f Format, r io.Reader, opts ...Option) (Parser, error) {
	switch f {
	case BMP:
		return NewBMPParser(r, opts...), nil
	case JPEG:
		return NewJPEGParser(r, opts...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// maxSignatureLen is the number of bytes peeked to detect a format.
const maxSignatureLen = 8

// NewDetect peeks at the head of r to pick the parser. The peeked bytes are
// not consumed.
func NewDetect(r io.Reader, opts ...Option) (Parser, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(maxSignatureLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	f, err := Detect(head)
	if err != nil {
		return nil, err
	}
	return New(f, br, opts...)
}
