package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlyphFor(t *testing.T) {
	require.Equal(t, byte('#'), GlyphFor(0))
	require.Equal(t, byte('#'), GlyphFor(23))
	require.Equal(t, byte('@'), GlyphFor(47))
	require.Equal(t, byte('*'), GlyphFor(128))
	require.Equal(t, byte('.'), GlyphFor(255))

	for g := 0; g < 256; g++ {
		require.Contains(t, Glyphs, string(GlyphFor(uint8(g))))
	}
}

func TestRenderASCII_Deterministic(t *testing.T) {
	buf := make([]byte, 0, 4+3*4*3)
	buf = append(buf, 0xAA, 0xBB, 0xCC, 0xDD)
	for i := 0; i < 12; i++ {
		v := byte(i * 21)
		buf = append(buf, v, v, v)
	}

	first := RenderASCII(buf, 4, 4)
	require.Equal(t, first, RenderASCII(buf, 4, 4))
	require.Equal(t, "###@\n%=*+\n:-..\n", first)
}

func TestRenderASCII_PartialRow(t *testing.T) {
	buf := []byte{
		255, 255, 255, 255, 255, 255,
		0, 0, 0,
	}

	s, stats := renderASCII(buf, 0, 2)
	require.Equal(t, "..\n#\n", s)
	require.Equal(t, PreviewStats{Rows: 2, Pixels: 3}, stats)

	s, stats = renderASCII(buf[:8], 0, 2)
	require.Equal(t, "..\n", s)
	require.Equal(t, PreviewStats{Rows: 1, Pixels: 2, SkippedBytes: 2}, stats)
}

func TestRenderASCII_OutOfRange(t *testing.T) {
	buf := []byte{1, 2, 3}

	require.Empty(t, RenderASCII(buf, 3, 1))
	require.Empty(t, RenderASCII(buf, -1, 1))
	require.Empty(t, RenderASCII(buf, 0, 0))
}

func TestPreviewStats_Check(t *testing.T) {
	ih := &BitmapInfoHeader{Width: 2, Height: -2}

	require.NoError(t, PreviewStats{Rows: 2, Pixels: 4}.check(ih))
	require.ErrorIs(t, PreviewStats{Rows: 2, Pixels: 3}.check(ih), ErrTruncatedPixelData)
}
