package inspect_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/ostafen/mediadecoder/internal/config"
	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/inspect"
	"github.com/stretchr/testify/require"
)

// gradient returns an opaque w x h image whose grey level grows left to right.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(1, w-1))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 0xFF})
		}
	}
	return img
}

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestHeaders(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.bmp", encodeBMP(t, gradient(4, 2))),
		writeFile(t, dir, "b.jpg", encodeJPEG(t, gradient(16, 16))),
		writeFile(t, dir, "c.bin", []byte("not an image")),
	}

	results, err := inspect.Headers(context.Background(), paths, inspect.Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err())
	require.Equal(t, "bmp", results[0].Format)
	require.NoError(t, results[1].Err())
	require.Equal(t, "jpeg", results[1].Format)
	require.ErrorIs(t, results[2].Err(), format.ErrUnknownFormat)

	bmpReport, ok := results[0].Report.(*format.BMPReport)
	require.True(t, ok)
	require.Equal(t, int32(4), bmpReport.InfoHeader.Width)
	require.Equal(t, int32(2), bmpReport.InfoHeader.Height)
	require.Equal(t, uint16(24), bmpReport.InfoHeader.BitsPerPixel)
	require.Equal(t, format.BI_RGB, bmpReport.InfoHeader.Compression)

	jpegReport, ok := results[1].Report.(*format.JPEGReport)
	require.True(t, ok)
	require.NotNil(t, jpegReport.Frame)
	require.Equal(t, uint16(16), jpegReport.Frame.Width)
	require.Equal(t, uint16(16), jpegReport.Frame.Height)
	require.Equal(t, "FF D9 ", jpegReport.EOI)

	var text bytes.Buffer
	require.NoError(t, inspect.WriteResults(&text, results, config.OutputText))
	require.Contains(t, text.String(), "==> "+paths[0]+" <==\n")
	require.Contains(t, text.String(), "width: 4\n")
	require.Contains(t, text.String(), "JPG Information\n")
	require.Contains(t, text.String(), "error: ")

	var out bytes.Buffer
	require.NoError(t, inspect.WriteResults(&out, results, config.OutputYAML))
	require.Contains(t, out.String(), "format: bmp")
	require.Contains(t, out.String(), "compression: BI_RGB / none")
	require.Contains(t, out.String(), "kind: SOF0")

	require.Error(t, inspect.WriteResults(&out, results, "xml"))
}

func TestHeaders_Cancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.bmp", encodeBMP(t, gradient(2, 2)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inspect.Headers(ctx, []string{path}, inspect.Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpen_ForcedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.bmp", encodeBMP(t, gradient(2, 2)))

	src, err := inspect.Open(path, inspect.Options{Format: format.JPEG})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Parser.Header()
	require.ErrorIs(t, err, format.ErrInvalidSignature)

	_, err = inspect.Open(filepath.Join(t.TempDir(), "missing.bmp"), inspect.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatDurationHMS(t *testing.T) {
	require.Equal(t, "0.25s", inspect.FormatDurationHMS(250*time.Millisecond))
	require.Equal(t, "00:01:05", inspect.FormatDurationHMS(65*time.Second))
	require.Equal(t, "26:00:00", inspect.FormatDurationHMS(26*time.Hour))
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")

	logger, f, err := inspect.SetupLogger(path, slog.LevelDebug)
	require.NoError(t, err)
	logger.Debug("decoded", "path", "a.bmp")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=decoded path=a.bmp")

	logger, f, err = inspect.SetupLogger("", slog.LevelInfo)
	require.NoError(t, err)
	require.Nil(t, f)
	logger.Info("discarded")
}
