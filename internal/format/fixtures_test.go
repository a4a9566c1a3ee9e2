package format_test

import (
	"encoding/binary"
)

type bmpFixture struct {
	width, height int32
	planes        uint16
	bpp           uint16
	compression   uint32
	headerSize    uint32
	pixels        []byte
}

func newBMPFixture(width, height int32) bmpFixture {
	return bmpFixture{
		width:      width,
		height:     height,
		planes:     1,
		bpp:        24,
		headerSize: 40,
		pixels:     make([]byte, int(width*abs(height))*3),
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func (f bmpFixture) bytes() []byte {
	const offset = 54

	buf := make([]byte, offset, offset+len(f.pixels))
	copy(buf, "BM")
	binary.LittleEndian.PutUint32(buf[2:], uint32(offset+len(f.pixels)))
	binary.LittleEndian.PutUint32(buf[10:], offset)

	ih := buf[14:]
	binary.LittleEndian.PutUint32(ih[0:], f.headerSize)
	binary.LittleEndian.PutUint32(ih[4:], uint32(f.width))
	binary.LittleEndian.PutUint32(ih[8:], uint32(f.height))
	binary.LittleEndian.PutUint16(ih[12:], f.planes)
	binary.LittleEndian.PutUint16(ih[14:], f.bpp)
	binary.LittleEndian.PutUint32(ih[16:], f.compression)
	binary.LittleEndian.PutUint32(ih[20:], uint32(len(f.pixels)))
	binary.LittleEndian.PutUint32(ih[24:], 2835)
	binary.LittleEndian.PutUint32(ih[28:], 2835)

	return append(buf, f.pixels...)
}

// jfifApp0 returns a well formed 18-byte JFIF APP0 segment.
func jfifApp0() []byte {
	return []byte{
		0xFF, 0xE0, 0x00, 0x10,
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x02,
		0x01,
		0x00, 0x48, 0x00, 0x48,
		0x00, 0x00,
	}
}

func jpegStream(parts ...[]byte) []byte {
	out := []byte{0xFF, 0xD8}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var eoi = []byte{0xFF, 0xD9}
