package format_test

import (
	"bytes"
	"testing"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	f, err := format.Detect([]byte("BM\x46\x00"))
	require.NoError(t, err)
	require.Equal(t, format.BMP, f)

	f, err = format.Detect([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.Equal(t, format.JPEG, f)

	_, err = format.Detect([]byte{0xFF, 0xD8})
	require.ErrorIs(t, err, format.ErrUnknownFormat)

	_, err = format.Detect([]byte("GIF89a"))
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"bmp", ".BMP", "dib"} {
		f, err := format.ParseFormat(s)
		require.NoError(t, err)
		require.Equal(t, format.BMP, f)
	}
	for _, s := range []string{"jpeg", "jpg", ".JPG", "jfif"} {
		f, err := format.ParseFormat(s)
		require.NoError(t, err)
		require.Equal(t, format.JPEG, f)
	}

	_, err := format.ParseFormat("png")
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestFileHeaders(t *testing.T) {
	all, err := format.FileHeaders()
	require.NoError(t, err)
	require.Len(t, all, 2)

	hdrs, err := format.FileHeaders("jpg")
	require.NoError(t, err)
	require.Len(t, hdrs, 1)
	require.Equal(t, "jpeg", hdrs[0].Ext)

	reg := format.BuildFileRegistry(all...)
	require.Equal(t, 2, reg.Signatures())
}

func TestNewDetect_BodyRoundTrip(t *testing.T) {
	inputs := [][]byte{
		newBMPFixture(2, 2).bytes(),
		jpegStream(jfifApp0(), eoi),
	}

	for _, data := range inputs {
		p, err := format.NewDetect(bytes.NewReader(data))
		require.NoError(t, err)

		body, err := p.Body()
		require.NoError(t, err)
		require.Equal(t, data, body)

		_, err = p.Header()
		require.NoError(t, err)

		body, err = p.Body()
		require.NoError(t, err)
		require.Equal(t, data, body)
	}
}

func TestNewDetect_Unknown(t *testing.T) {
	_, err := format.NewDetect(bytes.NewReader([]byte("hello")))
	require.ErrorIs(t, err, format.ErrUnknownFormat)

	_, err = format.New(format.Unknown, bytes.NewReader(nil))
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestNew_SignatureMismatch(t *testing.T) {
	p, err := format.New(format.BMP, bytes.NewReader(jpegStream(jfifApp0(), make([]byte, 64), eoi)))
	require.NoError(t, err)

	_, err = p.Header()
	require.ErrorIs(t, err, format.ErrInvalidSignature)
}

func TestFileRegistry_DetectLongestSignature(t *testing.T) {
	reg := format.BuildFileRegistry(
		format.FileHeader{Format: format.JPEG, Ext: "jpeg", Signatures: [][]byte{{0xFF, 0xD8}}},
		format.FileHeader{Format: format.BMP, Ext: "bmp", Signatures: [][]byte{{0xFF, 0xD8, 0xFF}}},
	)

	hdr, ok := reg.Detect([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.True(t, ok)
	require.Equal(t, "bmp", hdr.Ext)

	hdr, ok = reg.Detect([]byte{0xFF, 0xD8, 0x00})
	require.True(t, ok)
	require.Equal(t, "jpeg", hdr.Ext)

	_, ok = reg.Detect([]byte{0x00})
	require.False(t, ok)
}
