package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestField_Signedness(t *testing.T) {
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr, 0xFFFFFFFE)
	hdr[4], hdr[5] = 0xFF, 0xFF

	wide := field{name: "height", off: 0, size: 4, order: binary.LittleEndian}
	require.Equal(t, int32(-2), wide.int(hdr))
	require.Equal(t, uint32(0xFFFFFFFE), wide.uint(hdr))

	narrow := field{name: "planes", off: 4, size: 2, order: binary.LittleEndian}
	require.Equal(t, uint32(0xFFFF), narrow.uint(hdr))
	require.Equal(t, int32(0xFFFF), narrow.int(hdr))

	be := field{name: "length", off: 4, size: 2, order: binary.BigEndian}
	hdr[4], hdr[5] = 0x01, 0x02
	require.Equal(t, uint32(0x0102), be.uint(hdr))
}
