package inspect_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/inspect"
	"github.com/ostafen/mediadecoder/internal/logger"
	"github.com/ostafen/mediadecoder/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

var testSegments = []format.SegmentInfo{
	{Kind: "SOI", Start: 0, End: 1},
	{Kind: "APP0", Start: 2, End: 19, Length: 16},
	{Kind: "DQT", Start: 20, End: 88, Length: 67},
	{Kind: "SOF0", Start: 89, End: 107, Length: 17},
	{Kind: "RST0", Start: 108, End: 200},
	{Kind: "EOI", Start: 201, End: 202},
}

func kinds(segs []format.SegmentInfo) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Kind
	}
	return out
}

func TestSegmentFilter(t *testing.T) {
	cases := []struct {
		expr string
		want []string
	}{
		{"", []string{"SOI", "APP0", "DQT", "SOF0", "RST0", "EOI"}},
		{`kind == "DQT" && length > 64`, []string{"DQT"}},
		{`isAPP(kind) || isSOF(kind)`, []string{"APP0", "SOF0"}},
		{`isRST(kind)`, []string{"RST0"}},
		{`size == 2`, []string{"SOI", "EOI"}},
		{`start >= 89 && end < 201`, []string{"SOF0", "RST0"}},
	}

	for _, c := range cases {
		f, err := inspect.NewSegmentFilter(c.expr)
		require.NoError(t, err, c.expr)

		got, err := f.Apply(testSegments)
		require.NoError(t, err, c.expr)
		require.Equal(t, c.want, kinds(got), c.expr)
	}
}

func TestSegmentFilter_Errors(t *testing.T) {
	_, err := inspect.NewSegmentFilter(`kind ==`)
	require.Error(t, err)

	f, err := inspect.NewSegmentFilter(`start + 1`)
	require.NoError(t, err)
	_, err = f.Apply(testSegments)
	require.Error(t, err)
}

func TestSegmentName(t *testing.T) {
	require.Equal(t, "03_SOF0", inspect.SegmentName(3, testSegments[3]))
	require.Equal(t, "12_EOI", inspect.SegmentName(12, testSegments[5]))
}

func TestSegments(t *testing.T) {
	data := encodeJPEG(t, gradient(8, 8))

	src, err := format.NewDetect(bytes.NewReader(data))
	require.NoError(t, err)

	segs, err := inspect.Segments(src)
	require.NoError(t, err)
	require.Equal(t, "SOI", segs[0].Kind)
	require.Equal(t, "EOI", segs[len(segs)-1].Kind)
	require.Contains(t, kinds(segs), "DQT")
	require.Contains(t, kinds(segs), "DHT")
	require.Contains(t, kinds(segs), "SOS")

	bmpSrc, err := format.NewDetect(bytes.NewReader(encodeBMP(t, gradient(2, 2))))
	require.NoError(t, err)
	_, err = inspect.Segments(bmpSrc)
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestSegmentReport_Extract(t *testing.T) {
	dir := t.TempDir()
	data := encodeJPEG(t, gradient(8, 8))
	path := writeFile(t, dir, "photo.jpg", data)

	src, err := inspect.Open(path, inspect.Options{})
	require.NoError(t, err)
	defer src.Close()

	segs, err := inspect.Segments(src.Parser)
	require.NoError(t, err)

	var report bytes.Buffer
	require.NoError(t, inspect.WriteSegmentReport(&report, path, format.JPEG, int64(len(data)), segs))
	require.Contains(t, report.String(), "<image_format>jpeg</image_format>")

	objs, err := dfxml.ReadFileObjects(&report)
	require.NoError(t, err)
	require.Len(t, objs, len(segs))

	var log bytes.Buffer
	out := filepath.Join(dir, "extracted")
	n, err := inspect.Extract(src.File, objs, out, logger.New(&log, logger.InfoLevel))
	require.NoError(t, err)
	require.Equal(t, len(segs), n)

	var joined []byte
	for _, obj := range objs {
		b, err := os.ReadFile(filepath.Join(out, obj.Filename))
		require.NoError(t, err)
		joined = append(joined, b...)
	}
	require.Equal(t, data[:segs[len(segs)-1].End+1], joined)
	require.Contains(t, log.String(), "[INFO] extracting ")
}
