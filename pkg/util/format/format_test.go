package format_test

import (
	"testing"

	"github.com/ostafen/mediadecoder/pkg/util/format"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "70B", format.FormatBytes(70))
	require.Equal(t, "1KB", format.FormatBytes(1024))
	require.Equal(t, "1.50KB", format.FormatBytes(1536))
	require.Equal(t, "4MB", format.FormatBytes(4*format.MB))
}

func TestParseBytes(t *testing.T) {
	cases := map[string]uint64{
		"":      0,
		"512":   512,
		"512B":  512,
		"4kb":   4 * format.KB,
		"1.5MB": 3 * format.MB / 2,
		" 2GB ": 2 * format.GB,
	}
	for in, want := range cases {
		got, err := format.ParseBytes(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := format.ParseBytes("lots")
	require.Error(t, err)

	_, err = format.ParseBytes("-1MB")
	require.Error(t, err)
}

func TestParseBytes_RoundTrip(t *testing.T) {
	for _, n := range []int64{1, 1023, 1024, 64 * format.MB} {
		v, err := format.ParseBytes(format.FormatBytes(n))
		require.NoError(t, err)
		require.Equal(t, uint64(n), v)
	}
}
