package format_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/task"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	r     io.Reader
	calls atomic.Int32
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls.Add(1)
	return c.r.Read(p)
}

func TestLoader_Chunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 2*format.LoadChunkSize+10)

	l := format.NewLoader(bytes.NewReader(data))
	buf, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, data, buf)

	// three full or partial chunks plus the read returning io.EOF
	require.Equal(t, 4, l.Reads())

	buf, err = l.Load()
	require.NoError(t, err)
	require.Equal(t, data, buf)
	require.Equal(t, 4, l.Reads())
}

func TestLoader_Errors(t *testing.T) {
	readErr := errors.New("device unplugged")

	_, err := format.NewLoader(iotest.ErrReader(readErr)).Load()
	require.ErrorIs(t, err, format.ErrIO)
	require.ErrorIs(t, err, readErr)

	_, err = format.NewLoader(bytes.NewReader(make([]byte, 20))).Limit(10).Load()
	require.ErrorIs(t, err, format.ErrTooLarge)

	buf, err := format.NewLoader(bytes.NewReader(make([]byte, 10))).Limit(10).Load()
	require.NoError(t, err)
	require.Len(t, buf, 10)
}

func TestParser_ConcurrentHeaderAndBody(t *testing.T) {
	inputs := map[string][]byte{
		"bmp":  newBMPFixture(16, 16).bytes(),
		"jpeg": jpegStream(jfifApp0(), bytes.Repeat([]byte{0x11}, 3000), eoi),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			src := &countingReader{r: iotest.HalfReader(bytes.NewReader(data))}

			p, err := format.NewDetect(src)
			require.NoError(t, err)

			pool := task.NewPool(8)

			var headers []*task.Future[string]
			var bodies []*task.Future[[]byte]
			for range 16 {
				headers = append(headers, task.Submit(pool, p.Header))
				bodies = append(bodies, task.Submit(pool, p.Body))
			}

			ctx := context.Background()
			for _, f := range bodies {
				body, err := f.Await(ctx)
				require.NoError(t, err)
				require.Equal(t, data, body)
			}

			var first string
			for _, f := range headers {
				hdr, err := f.Await(ctx)
				require.NoError(t, err)
				if first == "" {
					first = hdr
				}
				require.Equal(t, first, hdr)
			}
			pool.Wait()

			calls := src.calls.Load()
			_, err = p.Body()
			require.NoError(t, err)
			_, err = p.Header()
			require.NoError(t, err)
			require.Equal(t, calls, src.calls.Load())
		})
	}
}
