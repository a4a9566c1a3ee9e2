package format

import "fmt"

var jpegFileHeader = FileHeader{
	Format:      JPEG,
	Ext:         "jpeg",
	Description: "JPEG File Interchange Format",
	Signatures: [][]byte{
		{0xFF, 0xD8, 0xFF},
	},
}

// MarkerKind is the second byte of a two-byte JPEG marker.
type MarkerKind uint8

const (
	SOF0 MarkerKind = 0xc0 // Start Of Frame (Baseline Sequential).
	SOF2 MarkerKind = 0xc2 // Start Of Frame (Progressive).
	DHT  MarkerKind = 0xc4 // Define Huffman Table.
	RST0 MarkerKind = 0xd0 // ReSTart (0).
	RST7 MarkerKind = 0xd7 // ReSTart (7).
	SOI  MarkerKind = 0xd8 // Start Of Image.
	EOI  MarkerKind = 0xd9 // End Of Image.
	SOS  MarkerKind = 0xda // Start Of Scan.
	DQT  MarkerKind = 0xdb // Define Quantization Table.
	DRI  MarkerKind = 0xdd // Define Restart Interval.
	COM  MarkerKind = 0xfe // COMment.
	APP0 MarkerKind = 0xe0
	APP1 MarkerKind = 0xe1
	APP9 MarkerKind = 0xe9
)

const markerPrefix = 0xff

func (k MarkerKind) IsRST() bool {
	return RST0 <= k && k <= RST7
}

func (k MarkerKind) IsAPP() bool {
	return APP0 <= k && k <= APP9
}

// Known reports whether k is one of the marker codes the scanner recognizes.
func (k MarkerKind) Known() bool {
	switch k {
	case SOI, SOF0, SOF2, DHT, DQT, DRI, SOS, COM, EOI:
		return true
	}
	return k.IsRST() || k.IsAPP()
}

// Standalone reports whether the marker is not followed by a length field.
func (k MarkerKind) Standalone() bool {
	return k == SOI || k == EOI || k.IsRST()
}

func (k MarkerKind) String() string {
	switch {
	case k.IsRST():
		return fmt.Sprintf("RST%d", k-RST0)
	case k.IsAPP():
		return fmt.Sprintf("APP%d", k-APP0)
	}

	switch k {
	case SOI:
		return "SOI"
	case SOF0:
		return "SOF0"
	case SOF2:
		return "SOF2"
	case DHT:
		return "DHT"
	case DQT:
		return "DQT"
	case DRI:
		return "DRI"
	case SOS:
		return "SOS"
	case COM:
		return "COM"
	case EOI:
		return "EOI"
	}
	return fmt.Sprintf("UNKNOWN(FF%02X)", uint8(k))
}

func (k MarkerKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Description returns the long, human readable marker name.
func (k MarkerKind) Description() string {
	switch {
	case k.IsRST():
		return "Restart"
	case k.IsAPP():
		return "Application-specific"
	}

	switch k {
	case SOI:
		return "Start Of Image"
	case SOF0, SOF2:
		return "Start Of Frame"
	case DHT:
		return "Define Huffman Tables"
	case DQT:
		return "Define Quantization Tables"
	case DRI:
		return "Define Restart Interval"
	case SOS:
		return "Start of Scan"
	case COM:
		return "Comment"
	case EOI:
		return "End Of Image"
	}
	return "Unknown"
}

// Segment is the byte range [Start, End] (both inclusive) of a marker and
// everything that follows it up to the next marker.
type Segment struct {
	Kind  MarkerKind
	Start int
	End   int
}

func (s Segment) Len() int {
	return s.End - s.Start + 1
}

func (s Segment) Bytes(buf []byte) []byte {
	return buf[s.Start : s.End+1]
}

// DeclaredLength returns the big-endian length field that follows the marker.
// It returns false for standalone markers and for segments too short to
// carry the field.
func (s Segment) DeclaredLength(buf []byte) (uint16, bool) {
	if s.Kind.Standalone() || s.Len() < 4 || s.Start+4 > len(buf) {
		return 0, false
	}
	return uint16(buf[s.Start+2])<<8 | uint16(buf[s.Start+3]), true
}

// SegmentTable is the result of a marker scan.
type SegmentTable struct {
	Segments []Segment

	// Unterminated is the marker still open when the buffer ended without
	// an EOI marker. Its End is the last byte of the buffer.
	Unterminated *Segment
}

// EOI returns the terminal EOI segment, if the scan reached one.
func (t SegmentTable) EOI() (Segment, bool) {
	if n := len(t.Segments); n > 0 && t.Segments[n-1].Kind == EOI {
		return t.Segments[n-1], true
	}
	return Segment{}, false
}

// First returns the first segment of the given kind.
func (t SegmentTable) First(kind MarkerKind) (Segment, bool) {
	for _, s := range t.Segments {
		if s.Kind == kind {
			return s, true
		}
	}
	return Segment{}, false
}

// ScanSegments walks buf looking for 0xFF-prefixed marker codes. Each marker
// found closes the previous one at the byte before it. An EOI marker closes
// the pending segment, is emitted itself and ends the scan. Byte pairs whose
// second byte is not a recognized code, such as stuffed 0xFF00 or fill bytes,
// are skipped.
func ScanSegments(buf []byte) SegmentTable {
	var t SegmentTable

	pending := -1
	var pendingKind MarkerKind

	for i := 0; i+1 < len(buf); {
		if buf[i] != markerPrefix {
			i++
			continue
		}

		kind := MarkerKind(buf[i+1])
		if !kind.Known() {
			i++
			continue
		}

		if pending >= 0 {
			t.Segments = append(t.Segments, Segment{Kind: pendingKind, Start: pending, End: i - 1})
		}

		if kind == EOI {
			t.Segments = append(t.Segments, Segment{Kind: EOI, Start: i, End: i + 1})
			return t
		}

		pending, pendingKind = i, kind
		i += 2
	}

	if pending >= 0 {
		t.Unterminated = &Segment{Kind: pendingKind, Start: pending, End: len(buf) - 1}
	}
	return t
}
