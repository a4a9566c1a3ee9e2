package format_test

import (
	"bytes"
	"testing"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/stretchr/testify/require"
)

func TestScanSegments_JFIF(t *testing.T) {
	buf := jpegStream(jfifApp0(), eoi)

	table := format.ScanSegments(buf)
	require.Nil(t, table.Unterminated)
	require.Equal(t, []format.Segment{
		{Kind: format.SOI, Start: 0, End: 1},
		{Kind: format.APP0, Start: 2, End: 19},
		{Kind: format.EOI, Start: 20, End: 21},
	}, table.Segments)

	app0 := table.Segments[1]
	n, ok := app0.DeclaredLength(buf)
	require.True(t, ok)
	require.Equal(t, app0.End-app0.Start-1, int(n))

	_, ok = table.Segments[0].DeclaredLength(buf)
	require.False(t, ok)
}

func TestScanSegments_SkipsNonMarkers(t *testing.T) {
	buf := jpegStream(
		[]byte{0xFF, 0xDA, 0x00, 0x02, 0x11, 0xFF, 0x00, 0x22, 0xFF, 0x01, 0xFF},
		eoi,
		[]byte{0xFF, 0xDB, 0x00, 0x02},
	)

	table := format.ScanSegments(buf)
	require.Nil(t, table.Unterminated)
	require.Equal(t, []format.Segment{
		{Kind: format.SOI, Start: 0, End: 1},
		{Kind: format.SOS, Start: 2, End: 12},
		{Kind: format.EOI, Start: 13, End: 14},
	}, table.Segments)
}

func TestScanSegments_Unterminated(t *testing.T) {
	buf := jpegStream([]byte{0xFF, 0xDB, 0x00, 0x04, 0x01, 0x02})

	table := format.ScanSegments(buf)
	require.Equal(t, []format.Segment{{Kind: format.SOI, Start: 0, End: 1}}, table.Segments)
	require.Equal(t, &format.Segment{Kind: format.DQT, Start: 2, End: 7}, table.Unterminated)

	_, ok := table.EOI()
	require.False(t, ok)
}

func TestScanSegments_Ordered(t *testing.T) {
	buf := jpegStream(
		jfifApp0(),
		[]byte{0xFF, 0xDB, 0x00, 0x03, 0x00},
		[]byte{0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x10, 0x00, 0x20, 0x03, 0x01, 0x22, 0x00},
		[]byte{0xFF, 0xD3},
		eoi,
	)

	table := format.ScanSegments(buf)
	require.Len(t, table.Segments, 6)

	for i := 1; i < len(table.Segments); i++ {
		prev, cur := table.Segments[i-1], table.Segments[i]
		require.Equal(t, prev.End+1, cur.Start)
	}
	require.Equal(t, format.RST0+3, table.Segments[4].Kind)
}

func TestMarkerKind_String(t *testing.T) {
	require.Equal(t, "SOI", format.SOI.String())
	require.Equal(t, "RST5", format.MarkerKind(0xD5).String())
	require.Equal(t, "APP1", format.APP1.String())
	require.Equal(t, "UNKNOWN(FF01)", format.MarkerKind(0x01).String())
	require.Equal(t, "Define Quantization Tables", format.DQT.Description())

	require.True(t, format.MarkerKind(0xE9).Known())
	require.False(t, format.MarkerKind(0xEA).Known())
	require.False(t, format.MarkerKind(0x00).Known())
}

func TestJPEGParser_Header(t *testing.T) {
	data := jpegStream(jfifApp0(), eoi)

	hdr, err := format.NewJPEGParser(bytes.NewReader(data)).Header()
	require.NoError(t, err)

	require.Contains(t, hdr, "JPG Information\n\n")
	require.Contains(t, hdr, "size : 22 (22B)\n")
	require.Contains(t, hdr, "SOI : FF D8 \n")
	require.Contains(t, hdr, "app0 marker : FF E0 \n")
	require.Contains(t, hdr, "length : 16\n")
	require.Contains(t, hdr, "identifier : 4A 46 49 46 00 \n")
	require.Contains(t, hdr, "jfif version : 1.2\n")
	require.Contains(t, hdr, "x density : 72\n")
	require.Contains(t, hdr, "marker 2: APP0 (Application-specific) / marker index : 2, end : 19, length : 16\n")
	require.Contains(t, hdr, "EOI : FF D9 \n")
}

func TestJPEGParser_HeaderUnterminated(t *testing.T) {
	data := jpegStream(jfifApp0())

	hdr, err := format.NewJPEGParser(bytes.NewReader(data)).Header()
	require.NoError(t, err)
	require.Contains(t, hdr, "unterminated APP0 at marker index : 2\n")
	require.Contains(t, hdr, "EOI : missing\n")
}
