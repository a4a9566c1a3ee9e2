package inspect

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/ostafen/mediadecoder/internal/format"
)

// DefaultPreviewCols is the width of decoded previews.
const DefaultPreviewCols = 80

// Preview renders src as ASCII art. BMP sources are rendered straight from
// their pixel array unless decode is set; everything else goes through the
// image decoder for its format and is scaled to cols columns.
func Preview(p format.Parser, decode bool, cols int, logger *slog.Logger) (string, error) {
	if bp, ok := p.(*format.BMPParser); ok && !decode {
		art, stats, err := bp.Preview()
		if err != nil {
			return "", err
		}
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("pixel array rendered", "rows", stats.Rows, "pixels", stats.Pixels, "skipped_bytes", stats.SkippedBytes)
		return art, nil
	}

	img, err := DecodeImage(p)
	if err != nil {
		return "", err
	}
	return RenderImage(img, cols), nil
}

// DecodeImage decodes the body of p into pixels.
func DecodeImage(p format.Parser) (image.Image, error) {
	body, err := p.Body()
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch p.Format() {
	case format.BMP:
		img, err = bmp.Decode(bytes.NewReader(body))
	case format.JPEG:
		img, err = jpeg.Decode(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("%w: %s", format.ErrUnknownFormat, p.Format())
	}
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s pixels: %w", p.Format(), err)
	}
	return img, nil
}

// RenderImage samples img on a grid cols wide and maps every sample to the
// glyph ramp used for raw BMP previews. Rows are sampled at half the column
// rate to compensate for the aspect ratio of terminal cells.
func RenderImage(img image.Image, cols int) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}
	if cols <= 0 || cols > w {
		cols = w
	}
	rows := max(1, h*cols/w/2)

	var sb strings.Builder
	sb.Grow((cols + 1) * rows)

	for y := 0; y < rows; y++ {
		py := b.Min.Y + y*h/rows
		for x := 0; x < cols; x++ {
			px := b.Min.X + x*w/cols

			r, g, bl, _ := img.At(px, py).RGBA()
			grey := (r>>8 + g>>8 + bl>>8) / 3
			sb.WriteByte(format.GlyphFor(uint8(grey)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
