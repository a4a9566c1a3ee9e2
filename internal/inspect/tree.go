package inspect

import (
	"bytes"
	"log/slog"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/fuse"
)

// BuildTree lays out the decoded views of src as a mountable file tree:
//
//	header.txt      the header report
//	body.<ext>      the original bytes
//	preview.txt     ASCII preview of a BMP pixel array
//	segments/NN_K   one file per JPEG segment
func BuildTree(src *Source, logger *slog.Logger) (*fuse.Tree, error) {
	p := src.Parser

	body, err := p.Body()
	if err != nil {
		return nil, err
	}
	hdr, err := p.Header()
	if err != nil {
		return nil, err
	}

	tree := fuse.NewTree()
	if err := tree.AddBytes("header.txt", []byte(hdr)); err != nil {
		return nil, err
	}

	r := bytes.NewReader(body)
	if err := tree.AddFile("body."+p.Format().String(), r, 0, int64(len(body))); err != nil {
		return nil, err
	}

	switch p.Format() {
	case format.BMP:
		art, err := Preview(p, false, 0, logger)
		if err != nil {
			return nil, err
		}
		if err := tree.AddBytes("preview.txt", []byte(art)); err != nil {
			return nil, err
		}
	case format.JPEG:
		segs, err := Segments(p)
		if err != nil {
			return nil, err
		}
		for i, s := range segs {
			if err := tree.AddFile("segments/"+SegmentName(i, s), r, int64(s.Start), int64(s.End-s.Start+1)); err != nil {
				return nil, err
			}
		}
	}
	return tree, nil
}
