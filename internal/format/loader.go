package format

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// LoadChunkSize is the size of a single read issued against the source stream.
const LoadChunkSize = 1024

// Loader drains a stream into memory exactly once. Concurrent callers of Load
// block until the first load completes and then share its result.
type Loader struct {
	r       io.Reader
	maxSize int64

	once sync.Once
	buf  []byte
	n    atomic.Int64 // Read calls issued against r
	err  error
}

func NewLoader(r io.Reader) *Loader {
	return &Loader{r: r}
}

// Limit makes Load fail with ErrTooLarge once more than n bytes are read.
// A value <= 0 disables the limit. It must be called before the first Load.
func (l *Loader) Limit(n int64) *Loader {
	l.maxSize = n
	return l
}

func (l *Loader) Load() ([]byte, error) {
	l.once.Do(func() {
		l.buf, l.err = l.readAll()
	})
	return l.buf, l.err
}

// Reads returns how many Read calls were issued against the source.
func (l *Loader) Reads() int {
	return int(l.n.Load())
}

func (l *Loader) readAll() ([]byte, error) {
	var out bytes.Buffer
	var chunk [LoadChunkSize]byte

	for {
		n, err := l.r.Read(chunk[:])
		l.n.Add(1)

		if n > 0 {
			out.Write(chunk[:n])
			if l.maxSize > 0 && int64(out.Len()) > l.maxSize {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.maxSize)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	return out.Bytes(), nil
}
