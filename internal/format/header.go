package format

import (
	"fmt"
	"strings"
)

// Format identifies one of the supported image containers.
type Format int

const (
	Unknown Format = iota
	BMP
	JPEG
)

func (f Format) String() string {
	switch f {
	case BMP:
		return "bmp"
	case JPEG:
		return "jpeg"
	}
	return "unknown"
}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "bmp", "dib":
		return BMP, nil
	case "jpeg", "jpg", "jpe", "jfif":
		return JPEG, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type FileHeader struct {
	Format      Format
	Ext         string // File extension, e.g., "bmp", "jpeg"
	Description string
	Signatures  [][]byte
}

var DefaultHeaders = []FileHeader{
	bmpFileHeader,
	jpegFileHeader,
}

// FileHeaders returns the headers for the given extensions, or all of them
// when none is given.
func FileHeaders(exts ...string) ([]FileHeader, error) {
	if len(exts) == 0 {
		return DefaultHeaders, nil
	}

	headers := make([]FileHeader, 0, len(exts))
	for _, ext := range exts {
		f, err := ParseFormat(ext)
		if err != nil {
			return nil, err
		}
		for _, hdr := range DefaultHeaders {
			if hdr.Format == f {
				headers = append(headers, hdr)
			}
		}
	}
	return headers, nil
}
