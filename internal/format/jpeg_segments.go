package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

var jfifLayout = layout{
	{name: "marker", off: 0, size: 2, order: binary.BigEndian},
	{name: "length", off: 2, size: 2, order: binary.BigEndian},
	{name: "identifier", off: 4, size: 5, order: binary.BigEndian},
	{name: "versionMajor", off: 9, size: 1, order: binary.BigEndian},
	{name: "versionMinor", off: 10, size: 1, order: binary.BigEndian},
	{name: "densityUnit", off: 11, size: 1, order: binary.BigEndian},
	{name: "xDensity", off: 12, size: 2, order: binary.BigEndian},
	{name: "yDensity", off: 14, size: 2, order: binary.BigEndian},
	{name: "xThumbnail", off: 16, size: 1, order: binary.BigEndian},
	{name: "yThumbnail", off: 17, size: 1, order: binary.BigEndian},
}

var sofLayout = layout{
	{name: "length", off: 2, size: 2, order: binary.BigEndian},
	{name: "precision", off: 4, size: 1, order: binary.BigEndian},
	{name: "height", off: 5, size: 2, order: binary.BigEndian},
	{name: "width", off: 7, size: 2, order: binary.BigEndian},
	{name: "components", off: 9, size: 1, order: binary.BigEndian},
}

var driLayout = layout{
	{name: "length", off: 2, size: 2, order: binary.BigEndian},
	{name: "interval", off: 4, size: 2, order: binary.BigEndian},
}

const jfifIdentifier = "JFIF\x00"

// JFIFSegment is the APP0 segment of a JFIF file.
type JFIFSegment struct {
	Marker       [2]byte `yaml:"-"`
	Length       uint16  `yaml:"length"`
	Identifier   [5]byte `yaml:"-"`
	VersionMajor uint8   `yaml:"version_major"`
	VersionMinor uint8   `yaml:"version_minor"`
	DensityUnit  uint8   `yaml:"density_unit"`
	XDensity     uint16  `yaml:"x_density"`
	YDensity     uint16  `yaml:"y_density"`
	XThumbnail   uint8   `yaml:"x_thumbnail"`
	YThumbnail   uint8   `yaml:"y_thumbnail"`

	raw []byte
}

func (s *JFIFSegment) IsJFIF() bool {
	return string(s.Identifier[:]) == jfifIdentifier
}

func (s *JFIFSegment) Version() string {
	return fmt.Sprintf("%d.%d", s.VersionMajor, s.VersionMinor)
}

// FrameHeader holds the leading fields of a SOF0 or SOF2 segment.
type FrameHeader struct {
	Kind       MarkerKind `yaml:"kind"`
	Precision  uint8      `yaml:"precision"`
	Height     uint16     `yaml:"height"`
	Width      uint16     `yaml:"width"`
	Components uint8      `yaml:"components"`
}

// segmentBytes returns the bytes of seg, failing if they are fewer than need.
func segmentBytes(seg Segment, buf []byte, need int) ([]byte, error) {
	end := min(seg.End+1, len(buf))
	if seg.Start >= end || end-seg.Start < need {
		return nil, &SegmentError{
			Kind:   seg.Kind,
			Offset: seg.Start,
			Need:   need,
			Have:   max(0, end-seg.Start),
		}
	}
	return buf[seg.Start:end], nil
}

// MarkerHex returns the two marker bytes of seg in hex. It is the whole
// decoded form of SOI and EOI.
func MarkerHex(seg Segment, buf []byte) (string, error) {
	b, err := segmentBytes(seg, buf, 2)
	if err != nil {
		return "", err
	}
	return toHex(b[:2]), nil
}

func DecodeSOI(seg Segment, buf []byte) (string, error) {
	return MarkerHex(seg, buf)
}

func DecodeEOI(seg Segment, buf []byte) (string, error) {
	return MarkerHex(seg, buf)
}

// DecodeJFIF decodes an APP0 segment using the JFIF layout.
func DecodeJFIF(seg Segment, buf []byte) (*JFIFSegment, error) {
	b, err := segmentBytes(seg, buf, jfifLayout.size())
	if err != nil {
		return nil, err
	}
	l := jfifLayout

	var s JFIFSegment
	copy(s.Marker[:], l.lookup("marker").bytes(b))
	copy(s.Identifier[:], l.lookup("identifier").bytes(b))
	s.Length = uint16(l.lookup("length").uint(b))
	s.VersionMajor = uint8(l.lookup("versionMajor").uint(b))
	s.VersionMinor = uint8(l.lookup("versionMinor").uint(b))
	s.DensityUnit = uint8(l.lookup("densityUnit").uint(b))
	s.XDensity = uint16(l.lookup("xDensity").uint(b))
	s.YDensity = uint16(l.lookup("yDensity").uint(b))
	s.XThumbnail = uint8(l.lookup("xThumbnail").uint(b))
	s.YThumbnail = uint8(l.lookup("yThumbnail").uint(b))
	s.raw = b[:l.size()]
	return &s, nil
}

// DecodeFrameHeader decodes the precision, dimensions and component count of
// a SOF0 or SOF2 segment.
func DecodeFrameHeader(seg Segment, buf []byte) (*FrameHeader, error) {
	b, err := segmentBytes(seg, buf, sofLayout.size())
	if err != nil {
		return nil, err
	}
	l := sofLayout

	return &FrameHeader{
		Kind:       seg.Kind,
		Precision:  uint8(l.lookup("precision").uint(b)),
		Height:     uint16(l.lookup("height").uint(b)),
		Width:      uint16(l.lookup("width").uint(b)),
		Components: uint8(l.lookup("components").uint(b)),
	}, nil
}

// DecodeRestartInterval decodes the interval carried by a DRI segment.
func DecodeRestartInterval(seg Segment, buf []byte) (uint16, error) {
	b, err := segmentBytes(seg, buf, driLayout.size())
	if err != nil {
		return 0, err
	}
	return uint16(driLayout.lookup("interval").uint(b)), nil
}

// segmentPayload returns the bytes after the length field, bounded by both
// the declared length and the scanned segment range.
func segmentPayload(seg Segment, buf []byte) ([]byte, error) {
	b, err := segmentBytes(seg, buf, 4)
	if err != nil {
		return nil, err
	}
	n, _ := seg.DeclaredLength(buf)
	end := min(len(b), int(n)+2)
	if end < 4 {
		return nil, nil
	}
	return b[4:end], nil
}

// DecodeComment returns the text of a COM segment.
func DecodeComment(seg Segment, buf []byte) (string, error) {
	p, err := segmentPayload(seg, buf)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(p), "\x00"), nil
}

// AppInfo identifies the content of an APPn segment.
type AppInfo struct {
	Kind       MarkerKind `yaml:"kind"`
	Offset     int        `yaml:"offset"`
	Identifier string     `yaml:"identifier"`
	ByteOrder  string     `yaml:"byte_order,omitempty"`
}

// DecodeAppIdentifier reads the NUL-terminated identifier that opens an APPn
// payload. For Exif APP1 segments it also reports the TIFF byte order.
func DecodeAppIdentifier(seg Segment, buf []byte) (*AppInfo, error) {
	p, err := segmentPayload(seg, buf)
	if err != nil {
		return nil, err
	}

	info := &AppInfo{Kind: seg.Kind, Offset: seg.Start}

	id := p
	if i := bytes.IndexByte(p, 0); i >= 0 {
		id = p[:i]
	}
	info.Identifier = string(id[:min(len(id), 32)])

	if seg.Kind == APP1 && bytes.HasPrefix(p, []byte("Exif\x00\x00")) && len(p) >= 10 {
		switch string(p[6:8]) {
		case "II":
			info.ByteOrder = "little-endian"
		case "MM":
			info.ByteOrder = "big-endian"
		}
	}
	return info, nil
}
