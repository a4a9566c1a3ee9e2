package format

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// field describes a fixed-width integer stored at a fixed offset of a
// header. Offsets are relative to the start of the header slice.
// Signedness is chosen by the reader: uint or int.
type field struct {
	name  string
	off   int
	size  int
	order binary.ByteOrder
}

func (f field) end() int {
	return f.off + f.size
}

// bytes returns the raw bytes of f within hdr.
func (f field) bytes(hdr []byte) []byte {
	return hdr[f.off:f.end()]
}

// uint reads f as an unsigned value.
//
// Fields narrower than 4 bytes are accumulated byte by byte in the field's
// order, with no sign extension. 4-byte fields go through the byte order.
func (f field) uint(hdr []byte) uint32 {
	b := f.bytes(hdr)
	switch f.size {
	case 4:
		return f.order.Uint32(b)
	default:
		var v uint32
		if f.order == binary.BigEndian {
			for _, c := range b {
				v = v<<8 | uint32(c)
			}
			return v
		}
		for i, c := range b {
			v |= uint32(c) << (8 * i)
		}
		return v
	}
}

// int reads f as a signed 32-bit value. Narrow fields are never sign extended.
func (f field) int(hdr []byte) int32 {
	return int32(f.uint(hdr))
}

// layout is the ordered field table of a single header.
type layout []field

func (l layout) size() int {
	n := 0
	for _, f := range l {
		n = max(n, f.end())
	}
	return n
}

func (l layout) lookup(name string) field {
	for _, f := range l {
		if f.name == name {
			return f
		}
	}
	panic("format: unknown field " + name)
}

// toHex renders b the way the reports print raw bytes: upper-case pairs,
// each followed by a space.
func toHex(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i := range b {
		sb.WriteString(strings.ToUpper(hex.EncodeToString(b[i : i+1])))
		sb.WriteByte(' ')
	}
	return sb.String()
}
