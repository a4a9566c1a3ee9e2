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
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/knetic/govaluate"

	"github.com/ostafen/mediadecoder/internal/env"
	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/pkg/dfxml"
)

// filterFunctions are the helpers available to segment filter expressions.
func filterFunctions() map[string]govaluate.ExpressionFunction {
	prefix := func(p string) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
			}
			kind, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("argument must be a marker name")
			}
			return strings.HasPrefix(kind, p), nil
		}
	}

	return map[string]govaluate.ExpressionFunction{
		"isAPP": prefix("APP"),
		"isRST": prefix("RST"),
		"isSOF": prefix("SOF"),
	}
}

// SegmentFilter selects segments with a boolean expression over the
// variables kind, start, end, length and size. For example:
//
//	kind == "DQT" && length > 64
//	isAPP(kind) || size >= 1024
type SegmentFilter struct {
	expr *govaluate.EvaluableExpression
}

// NewSegmentFilter compiles expr. An empty expr matches every segment.
func NewSegmentFilter(expr string) (*SegmentFilter, error) {
	if strings.TrimSpace(expr) == "" {
		return &SegmentFilter{}, nil
	}

	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, filterFunctions())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &SegmentFilter{expr: e}, nil
}

func (f *SegmentFilter) Match(s format.SegmentInfo) (bool, error) {
	if f.expr == nil {
		return true, nil
	}

	v, err := f.expr.Evaluate(map[string]interface{}{
		"kind":   s.Kind,
		"start":  float64(s.Start),
		"end":    float64(s.End),
		"length": float64(s.Length),
		"size":   float64(s.End - s.Start + 1),
	})
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}

	ok, isBool := v.(bool)
	if !isBool {
		return false, fmt.Errorf("filter must evaluate to a boolean, got %v", v)
	}
	return ok, nil
}

func (f *SegmentFilter) Apply(segs []format.SegmentInfo) ([]format.SegmentInfo, error) {
	out := make([]format.SegmentInfo, 0, len(segs))
	for _, s := range segs {
		ok, err := f.Match(s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// SegmentName is the file name given to the i-th segment of a stream by
// reports, dumps and mounts.
func SegmentName(i int, s format.SegmentInfo) string {
	return fmt.Sprintf("%02d_%s", i, s.Kind)
}

// Segments returns the segment table of a JPEG source, including the trailing
// unterminated segment, if any.
func Segments(p format.Parser) ([]format.SegmentInfo, error) {
	jp, ok := p.(*format.JPEGParser)
	if !ok {
		return nil, fmt.Errorf("%w: segments are only defined for jpeg, got %s", format.ErrUnknownFormat, p.Format())
	}

	r, err := jp.Report()
	if err != nil {
		return nil, err
	}

	segs := r.Segments
	if r.Unterminated != nil {
		segs = append(segs, *r.Unterminated)
	}
	return segs, nil
}

func SegmentObjects(segs []format.SegmentInfo) []dfxml.FileObject {
	objs := make([]dfxml.FileObject, len(segs))
	for i, s := range segs {
		objs[i] = dfxml.SingleRun(SegmentName(i, s), uint64(s.Start), uint64(s.End-s.Start+1))
	}
	return objs
}

// WriteSegmentReport writes segs as a DFXML report over the image at path.
func WriteSegmentReport(w io.Writer, path string, f format.Format, size int64, segs []format.SegmentInfo) error {
	hdr := dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: absPath(path),
			ImageFormat:   f.String(),
			ImageSize:     uint64(size),
		},
	}
	return dfxml.WriteReport(w, hdr, SegmentObjects(segs))
}
