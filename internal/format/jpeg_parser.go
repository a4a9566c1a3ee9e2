// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	fmtutil "github.com/ostafen/mediadecoder/pkg/util/format"
)

// headDumpSize is the number of leading bytes echoed in the JPEG report.
const headDumpSize = 40

// SegmentInfo is the reported form of a Segment.
type SegmentInfo struct {
	Kind   string `yaml:"kind"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
	Length int    `yaml:"length,omitempty"`
}

// JPEGReport is the structured form of the JPEG header report.
type JPEGReport struct {
	Size            int           `yaml:"size"`
	SOI             string        `yaml:"soi"`
	JFIF            *JFIFSegment  `yaml:"jfif,omitempty"`
	Frame           *FrameHeader  `yaml:"frame,omitempty"`
	RestartInterval uint16        `yaml:"restart_interval,omitempty"`
	Comments        []string      `yaml:"comments,omitempty"`
	Applications    []AppInfo     `yaml:"applications,omitempty"`
	Segments        []SegmentInfo `yaml:"segments"`
	EOI             string        `yaml:"eoi,omitempty"`
	Unterminated    *SegmentInfo  `yaml:"unterminated,omitempty"`

	head []byte
	segs []Segment

	// undecoded holds the errors of segments that were too short for
	// their decoder. They stay in Segments as opaque ranges.
	undecoded []error
}

func newSegmentInfo(s Segment, buf []byte) SegmentInfo {
	info := SegmentInfo{Kind: s.Kind.String(), Start: s.Start, End: s.End}
	if n, ok := s.DeclaredLength(buf); ok {
		info.Length = int(n)
	}
	return info
}

// DecodeJPEG scans buf and decodes every segment kind it has a decoder for.
// Only an APP0 segment shorter than the JFIF layout fails the decode. Other
// segments too short for their decoder are kept as opaque ranges.
func DecodeJPEG(buf []byte) (*JPEGReport, error) {
	if len(buf) < 2 || buf[0] != markerPrefix || MarkerKind(buf[1]) != SOI {
		return nil, fmt.Errorf("%w: missing SOI marker", ErrInvalidSignature)
	}

	table := ScanSegments(buf)

	r := &JPEGReport{
		Size: len(buf),
		head: buf[:min(len(buf), headDumpSize)],
		segs: table.Segments,
	}

	for _, seg := range table.Segments {
		if err := r.decodeSegment(seg, buf); err != nil {
			return nil, err
		}
		r.Segments = append(r.Segments, newSegmentInfo(seg, buf))
	}

	if table.Unterminated != nil {
		info := newSegmentInfo(*table.Unterminated, buf)
		r.Unterminated = &info
	}
	return r, nil
}

func (r *JPEGReport) decodeSegment(seg Segment, buf []byte) error {
	if seg.Kind == APP0 && r.JFIF == nil {
		jfif, err := DecodeJFIF(seg, buf)
		if err != nil {
			return err
		}
		r.JFIF = jfif
		r.Applications = append(r.Applications, AppInfo{
			Kind:       seg.Kind,
			Offset:     seg.Start,
			Identifier: strings.TrimRight(string(jfif.Identifier[:]), "\x00"),
		})
		return nil
	}

	var err error

	switch {
	case seg.Kind == SOI && r.SOI == "":
		r.SOI, err = DecodeSOI(seg, buf)
	case seg.Kind == EOI:
		r.EOI, err = DecodeEOI(seg, buf)
	case seg.Kind.IsAPP():
		var info *AppInfo
		if info, err = DecodeAppIdentifier(seg, buf); err == nil {
			r.Applications = append(r.Applications, *info)
		}
	case (seg.Kind == SOF0 || seg.Kind == SOF2) && r.Frame == nil:
		r.Frame, err = DecodeFrameHeader(seg, buf)
	case seg.Kind == DRI:
		r.RestartInterval, err = DecodeRestartInterval(seg, buf)
	case seg.Kind == COM:
		var text string
		if text, err = DecodeComment(seg, buf); err == nil {
			r.Comments = append(r.Comments, text)
		}
	}

	if err != nil {
		r.undecoded = append(r.undecoded, err)
	}
	return nil
}

func (r *JPEGReport) String() string {
	var sb strings.Builder

	sb.WriteString("JPG Information\n\n")
	fmt.Fprintf(&sb, "size : %d (%s)\n", r.Size, fmtutil.FormatBytes(int64(r.Size)))
	fmt.Fprintf(&sb, "%d : %s\n", len(r.head), toHex(r.head))

	sb.WriteString("JPG SOI\n")
	fmt.Fprintf(&sb, "SOI : %s\n\n", r.SOI)

	if r.JFIF != nil {
		writeJFIF(&sb, r.JFIF)
		sb.WriteString("\n")
	}

	for i, seg := range r.segs {
		fmt.Fprintf(&sb, "marker %d: %s (%s) / marker index : %d, end : %d", i+1, seg.Kind, seg.Kind.Description(), seg.Start, seg.End)
		if n := r.Segments[i].Length; n > 0 {
			fmt.Fprintf(&sb, ", length : %d", n)
		}
		sb.WriteString("\n")
	}
	if u := r.Unterminated; u != nil {
		fmt.Fprintf(&sb, "unterminated %s at marker index : %d\n", u.Kind, u.Start)
	}

	if f := r.Frame; f != nil {
		fmt.Fprintf(&sb, "\nframe (%s) : %dx%d, precision %d, %d components\n", f.Kind, f.Width, f.Height, f.Precision, f.Components)
	}
	if r.RestartInterval > 0 {
		fmt.Fprintf(&sb, "restart interval : %d\n", r.RestartInterval)
	}
	for _, app := range r.Applications {
		fmt.Fprintf(&sb, "%s at %d : %q", app.Kind, app.Offset, app.Identifier)
		if app.ByteOrder != "" {
			fmt.Fprintf(&sb, " (%s)", app.ByteOrder)
		}
		sb.WriteString("\n")
	}
	for _, c := range r.Comments {
		fmt.Fprintf(&sb, "comment : %q\n", c)
	}

	if r.EOI != "" {
		fmt.Fprintf(&sb, "EOI : %s\n", r.EOI)
	} else {
		sb.WriteString("EOI : missing\n")
	}
	return sb.String()
}

func writeJFIF(sb *strings.Builder, s *JFIFSegment) {
	sb.WriteString("JFIF APP0\n")
	fmt.Fprintf(sb, "Hex : %s\n", toHex(s.raw))
	fmt.Fprintf(sb, "app0 marker : %s\n", toHex(s.Marker[:]))
	fmt.Fprintf(sb, "length : %d\n", s.Length)
	fmt.Fprintf(sb, "identifier : %s\n", toHex(s.Identifier[:]))
	fmt.Fprintf(sb, "jfif version : %s\n", s.Version())
	fmt.Fprintf(sb, "density unit : %d\n", s.DensityUnit)
	fmt.Fprintf(sb, "x density : %d\n", s.XDensity)
	fmt.Fprintf(sb, "y density : %d\n", s.YDensity)
	fmt.Fprintf(sb, "x thumbnail : %d\n", s.XThumbnail)
	fmt.Fprintf(sb, "y thumbnail : %d\n", s.YThumbnail)
}

// JPEGParser decodes a JPEG stream. The stream is read at most once, on the
// first call to any of its methods.
type JPEGParser struct {
	loader *Loader
	logger *slog.Logger
}

func NewJPEGParser(r io.Reader, opts ...Option) *JPEGParser {
	o := newOptions(opts)
	return &JPEGParser{
		loader: NewLoader(r).Limit(o.maxSize),
		logger: o.logger,
	}
}

func (p *JPEGParser) Format() Format {
	return JPEG
}

func (p *JPEGParser) Body() ([]byte, error) {
	return p.loader.Load()
}

// Segments returns the marker table of the underlying stream.
func (p *JPEGParser) Segments() (SegmentTable, error) {
	buf, err := p.loader.Load()
	if err != nil {
		return SegmentTable{}, err
	}
	return ScanSegments(buf), nil
}

func (p *JPEGParser) Report() (*JPEGReport, error) {
	buf, err := p.loader.Load()
	if err != nil {
		return nil, err
	}
	p.logger.Debug("jpeg buffer loaded", "size", len(buf), "reads", p.loader.Reads())

	r, err := DecodeJPEG(buf)
	if err != nil {
		return nil, err
	}

	for _, err := range r.undecoded {
		p.logger.Debug("segment kept undecoded", "err", err)
	}
	if r.Unterminated != nil {
		p.logger.Warn("jpeg stream ended without EOI marker", "pending", r.Unterminated.Kind, "offset", r.Unterminated.Start)
	}
	if r.JFIF != nil && !r.JFIF.IsJFIF() {
		p.logger.Debug("APP0 segment without JFIF identifier", "identifier", fmt.Sprintf("%q", r.JFIF.Identifier[:]))
	}
	return r, nil
}

func (p *JPEGParser) Header() (string, error) {
	r, err := p.Report()
	if err != nil {
		return "", err
	}
	return r.String(), nil
}
