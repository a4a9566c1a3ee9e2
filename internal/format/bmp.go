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
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var bmpFileHeader = FileHeader{
	Format:      BMP,
	Ext:         "bmp",
	Description: "Bitmap Image File Format",
	Signatures: [][]byte{
		[]byte("BM"),
	},
}

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpHeaderSize     = bmpFileHeaderSize + bmpInfoHeaderSize
)

var bmpFileLayout = layout{
	{name: "signature", off: 0, size: 2, order: binary.LittleEndian},
	{name: "fileSize", off: 2, size: 4, order: binary.LittleEndian},
	{name: "reserved1", off: 6, size: 2, order: binary.LittleEndian},
	{name: "reserved2", off: 8, size: 2, order: binary.LittleEndian},
	{name: "offset", off: 10, size: 4, order: binary.LittleEndian},
}

var bmpInfoLayout = layout{
	{name: "headerSize", off: 0, size: 4, order: binary.LittleEndian},
	{name: "width", off: 4, size: 4, order: binary.LittleEndian},
	{name: "height", off: 8, size: 4, order: binary.LittleEndian},
	{name: "colorPlanes", off: 12, size: 2, order: binary.LittleEndian},
	{name: "bitsPerPixel", off: 14, size: 2, order: binary.LittleEndian},
	{name: "compression", off: 16, size: 4, order: binary.LittleEndian},
	{name: "imageSize", off: 20, size: 4, order: binary.LittleEndian},
	{name: "hRes", off: 24, size: 4, order: binary.LittleEndian},
	{name: "vRes", off: 28, size: 4, order: binary.LittleEndian},
	{name: "paletteColors", off: 32, size: 4, order: binary.LittleEndian},
	{name: "importantColors", off: 36, size: 4, order: binary.LittleEndian},
}

// BMP Compression Types
const (
	BI_RGB            CompressionMethod = 0  // No compression
	BI_RLE8           CompressionMethod = 1  // RLE 8-bit/pixel
	BI_RLE4           CompressionMethod = 2  // RLE 4-bit/pixel
	BI_BITFIELDS      CompressionMethod = 3  // RGB bit field masks (for 16bpp and 32bpp)
	BI_JPEG           CompressionMethod = 4  // JPEG compression
	BI_PNG            CompressionMethod = 5  // PNG compression
	BI_ALPHABITFIELDS CompressionMethod = 6  // Alpha bit field masks
	BI_CMYK           CompressionMethod = 11 // CMYK uncompressed
	BI_CMYKRLE8       CompressionMethod = 12 // CMYK RLE 8-bit/pixel
	BI_CMYKRLE4       CompressionMethod = 13 // CMYK RLE 4-bit/pixel
)

// CompressionMethod is the biCompression field of a BITMAPINFOHEADER.
type CompressionMethod uint32

var compressionMethods = map[CompressionMethod][2]string{
	BI_RGB:            {"BI_RGB", "none"},
	BI_RLE8:           {"BI_RLE8", "RLE 8-bit/pixel"},
	BI_RLE4:           {"BI_RLE4", "RLE 4-bit/pixel"},
	BI_BITFIELDS:      {"BI_BITFIELDS", "OS22XBITMAPHEADER: Huffman 1D"},
	BI_JPEG:           {"BI_JPEG", "OS22XBITMAPHEADER: RLE-24"},
	BI_PNG:            {"BI_PNG", ""},
	BI_ALPHABITFIELDS: {"BI_ALPHABITFIELDS", "RGBA bit field masks"},
	BI_CMYK:           {"BI_CMYK", "none"},
	BI_CMYKRLE8:       {"BI_CMYKRLE8", "RLE-8"},
	BI_CMYKRLE4:       {"BI_CMYKRLE4", "RLE-4"},
}

// ParseCompressionMethod resolves a raw biCompression code.
func ParseCompressionMethod(code uint32) (CompressionMethod, error) {
	m := CompressionMethod(code)
	if _, ok := compressionMethods[m]; !ok {
		return 0, &CompressionError{Code: code}
	}
	return m, nil
}

func (m CompressionMethod) Name() string {
	return compressionMethods[m][0]
}

func (m CompressionMethod) Description() string {
	return compressionMethods[m][1]
}

func (m CompressionMethod) String() string {
	if _, ok := compressionMethods[m]; !ok {
		return fmt.Sprintf("UNKNOWN(%d)", uint32(m))
	}
	return m.Name() + " / " + m.Description()
}

func (m CompressionMethod) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// BitmapFileHeader represents the BITMAPFILEHEADER structure of a BMP file.
type BitmapFileHeader struct {
	Signature        [2]byte `yaml:"-"`
	FileSize         uint32  `yaml:"file_size"`
	Reserved1        uint16  `yaml:"reserved1"`
	Reserved2        uint16  `yaml:"reserved2"`
	PixelArrayOffset uint32  `yaml:"pixel_array_offset"`
}

// BitmapInfoHeader is the 40-byte BITMAPINFOHEADER. Larger DIB header
// variants share this prefix and are decoded through it.
type BitmapInfoHeader struct {
	HeaderSize      uint32            `yaml:"header_size"`
	Width           int32             `yaml:"width"`
	Height          int32             `yaml:"height"`
	ColorPlanes     uint16            `yaml:"color_planes"`
	BitsPerPixel    uint16            `yaml:"bits_per_pixel"`
	Compression     CompressionMethod `yaml:"compression"`
	ImageSize       uint32            `yaml:"image_size"`
	HRes            int32             `yaml:"h_res"`
	VRes            int32             `yaml:"v_res"`
	PaletteColors   uint32            `yaml:"palette_colors"`
	ImportantColors uint32            `yaml:"important_colors"`
}

// DecodeBMPHeader decodes the file header and info header found in the
// first 54 bytes of buf.
func DecodeBMPHeader(buf []byte) (*BitmapFileHeader, *BitmapInfoHeader, error) {
	if len(buf) < bmpHeaderSize {
		return nil, nil, fmt.Errorf("%w: BMP needs %d bytes, got %d", ErrTruncatedHeader, bmpHeaderSize, len(buf))
	}

	fh := decodeBitmapFileHeader(buf[:bmpFileHeaderSize])
	if string(fh.Signature[:]) != "BM" {
		return nil, nil, fmt.Errorf("%w: expected 'BM', found %q", ErrInvalidSignature, fh.Signature[:])
	}

	ih, err := decodeBitmapInfoHeader(buf[bmpFileHeaderSize:bmpHeaderSize])
	if err != nil {
		return nil, nil, err
	}
	return fh, ih, nil
}

func decodeBitmapFileHeader(b []byte) *BitmapFileHeader {
	var fh BitmapFileHeader
	copy(fh.Signature[:], bmpFileLayout.lookup("signature").bytes(b))

	fh.FileSize = bmpFileLayout.lookup("fileSize").uint(b)
	fh.Reserved1 = uint16(bmpFileLayout.lookup("reserved1").uint(b))
	fh.Reserved2 = uint16(bmpFileLayout.lookup("reserved2").uint(b))
	fh.PixelArrayOffset = bmpFileLayout.lookup("offset").uint(b)
	return &fh
}

func decodeBitmapInfoHeader(b []byte) (*BitmapInfoHeader, error) {
	l := bmpInfoLayout

	compression, err := ParseCompressionMethod(l.lookup("compression").uint(b))
	if err != nil {
		return nil, err
	}

	return &BitmapInfoHeader{
		HeaderSize:      l.lookup("headerSize").uint(b),
		Width:           l.lookup("width").int(b),
		Height:          l.lookup("height").int(b),
		ColorPlanes:     uint16(l.lookup("colorPlanes").uint(b)),
		BitsPerPixel:    uint16(l.lookup("bitsPerPixel").uint(b)),
		Compression:     compression,
		ImageSize:       l.lookup("imageSize").uint(b),
		HRes:            l.lookup("hRes").int(b),
		VRes:            l.lookup("vRes").int(b),
		PaletteColors:   l.lookup("paletteColors").uint(b),
		ImportantColors: l.lookup("importantColors").uint(b),
	}, nil
}

// BMPReport is the structured form of the BMP header report.
type BMPReport struct {
	FileHeader *BitmapFileHeader `yaml:"file_header"`
	InfoHeader *BitmapInfoHeader `yaml:"info_header"`

	fileHeaderBytes []byte
	infoHeaderBytes []byte
}

func (r *BMPReport) String() string {
	var sb strings.Builder
	writeBitmapFileHeader(&sb, r.FileHeader, r.fileHeaderBytes)
	writeBitmapInfoHeader(&sb, r.InfoHeader, r.infoHeaderBytes)
	return sb.String()
}

func writeBitmapFileHeader(sb *strings.Builder, fh *BitmapFileHeader, raw []byte) {
	offset := bmpFileLayout.lookup("offset")

	sb.WriteString("BitmapFileHeader\n\n")
	fmt.Fprintf(sb, "total hex : %s\n", toHex(raw))
	fmt.Fprintf(sb, "identify: %s\n", fh.Signature[:])
	fmt.Fprintf(sb, "fileSize: %d\n", fh.FileSize)
	fmt.Fprintf(sb, "reserved1: %d\n", fh.Reserved1)
	fmt.Fprintf(sb, "reserved2: %d\n", fh.Reserved2)
	fmt.Fprintf(sb, "offset: %d (%s)\n", fh.PixelArrayOffset, strings.TrimSpace(toHex(offset.bytes(raw))))
}

func writeBitmapInfoHeader(sb *strings.Builder, ih *BitmapInfoHeader, raw []byte) {
	sb.WriteString("\nBitmap Info Header\n\n")
	fmt.Fprintf(sb, "total hex : %s\n", toHex(raw))
	fmt.Fprintf(sb, "header size: %d\n", ih.HeaderSize)
	fmt.Fprintf(sb, "width: %d\n", ih.Width)
	fmt.Fprintf(sb, "height: %d\n", ih.Height)
	fmt.Fprintf(sb, "color plane: %d\n", ih.ColorPlanes)
	fmt.Fprintf(sb, "bit per pixel: %d\n", ih.BitsPerPixel)
	fmt.Fprintf(sb, "compression method: %s\n", ih.Compression)
	fmt.Fprintf(sb, "image size: %d\n", ih.ImageSize)
	fmt.Fprintf(sb, "horizontal resolution: %d\n", ih.HRes)
	fmt.Fprintf(sb, "vertical resolution: %d\n", ih.VRes)
	fmt.Fprintf(sb, "number of color: %d\n", ih.PaletteColors)
	fmt.Fprintf(sb, "number of important color: %d\n", ih.ImportantColors)
}

// BMPParser decodes a BMP stream. The stream is read at most once, on the
// first call to any of its methods.
type BMPParser struct {
	loader *Loader
	logger *slog.Logger
}

func NewBMPParser(r io.Reader, opts ...Option) *BMPParser {
	o := newOptions(opts)
	return &BMPParser{
		loader: NewLoader(r).Limit(o.maxSize),
		logger: o.logger,
	}
}

func (p *BMPParser) Format() Format {
	return BMP
}

func (p *BMPParser) Body() ([]byte, error) {
	return p.loader.Load()
}

func (p *BMPParser) Report() (*BMPReport, error) {
	buf, err := p.loader.Load()
	if err != nil {
		return nil, err
	}
	p.logger.Debug("bmp buffer loaded", "size", len(buf), "reads", p.loader.Reads())

	fh, ih, err := DecodeBMPHeader(buf)
	if err != nil {
		return nil, err
	}

	if ih.HeaderSize != bmpInfoHeaderSize {
		p.logger.Warn("non-standard DIB header size, decoding BITMAPINFOHEADER prefix only", "header_size", ih.HeaderSize)
	}
	if ih.ColorPlanes != 1 {
		p.logger.Warn("unexpected number of color planes", "planes", ih.ColorPlanes)
	}

	return &BMPReport{
		FileHeader:      fh,
		InfoHeader:      ih,
		fileHeaderBytes: buf[:bmpFileHeaderSize],
		infoHeaderBytes: buf[bmpFileHeaderSize:bmpHeaderSize],
	}, nil
}

func (p *BMPParser) Header() (string, error) {
	r, err := p.Report()
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Preview renders the pixel array as ASCII art.
func (p *BMPParser) Preview() (string, PreviewStats, error) {
	buf, err := p.loader.Load()
	if err != nil {
		return "", PreviewStats{}, err
	}

	fh, ih, err := DecodeBMPHeader(buf)
	if err != nil {
		return "", PreviewStats{}, err
	}

	art, stats := renderASCII(buf, int(fh.PixelArrayOffset), int(ih.Width))
	if err := stats.check(ih); err != nil {
		p.logger.Debug("pixel preview degraded", "err", err, "rows", stats.Rows, "skipped_bytes", stats.SkippedBytes)
	}
	return art, stats, nil
}
