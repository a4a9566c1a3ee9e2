package fs

import (
	"io"
	"os"
)

// File is an open image source. Parsers consume it as an io.Reader, while
// extraction and FUSE mounts read byte runs through ReadAt.
type File interface {
	io.ReadCloser
	io.ReaderAt
	Stat() (os.FileInfo, error)
	Name() string
}
