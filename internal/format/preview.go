package format

import (
	"fmt"
	"strings"
)

// Glyphs is the luminance ramp used by the ASCII previews, indexed by
// grey*len(Glyphs)/256.
const Glyphs = "##@%=*+:-.."

// PreviewStats describes how much of a pixel array a preview consumed.
type PreviewStats struct {
	Rows         int // rows emitted, including a trailing partial row
	Pixels       int // glyphs emitted
	SkippedBytes int // trailing bytes that did not form a whole pixel
}

// check compares the rendered geometry with the one declared by the header.
func (s PreviewStats) check(ih *BitmapInfoHeader) error {
	height := int(ih.Height)
	if height < 0 {
		height = -height
	}

	want := int(ih.Width) * height
	if s.Pixels < want {
		return fmt.Errorf("%w: %d of %d pixels present", ErrTruncatedPixelData, s.Pixels, want)
	}
	return nil
}

// GlyphFor maps an 8-bit grey level onto the glyph ramp.
func GlyphFor(grey uint8) byte {
	return Glyphs[int(grey)*len(Glyphs)/256]
}

// RenderASCII renders the 24-bit pixel array starting at pixelArrayOffset as
// rows of width glyphs. Pixels missing from a trailing partial row are
// omitted; the render never fails.
func RenderASCII(buf []byte, pixelArrayOffset, width int) string {
	s, _ := renderASCII(buf, pixelArrayOffset, width)
	return s
}

func renderASCII(buf []byte, pixelArrayOffset, width int) (string, PreviewStats) {
	var stats PreviewStats
	if width <= 0 || pixelArrayOffset < 0 || pixelArrayOffset >= len(buf) {
		return "", stats
	}

	data := buf[pixelArrayOffset:]
	rowSize := width * 3

	var sb strings.Builder
	sb.Grow(len(data)/3 + len(data)/rowSize + 1)

	for rowStart := 0; rowStart < len(data); rowStart += rowSize {
		row := data[rowStart:min(rowStart+rowSize, len(data))]

		n := len(row) / 3
		if n == 0 {
			stats.SkippedBytes += len(row)
			break
		}

		for i := 0; i < n; i++ {
			px := row[i*3 : i*3+3]
			grey := (int(px[0]) + int(px[1]) + int(px[2])) / 3
			sb.WriteByte(GlyphFor(uint8(grey)))
		}
		sb.WriteByte('\n')

		stats.Rows++
		stats.Pixels += n
		stats.SkippedBytes += len(row) - n*3
	}
	return sb.String(), stats
}
