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
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ostafen/mediadecoder/internal/config"
	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/inspect"
)

func DefineSegmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments <file.jpg>",
		Short: "List the marker segments of a JPEG file",
		Long: `The 'segments' command scans a JPEG file for marker segments and prints their kind and byte range.
Segments can be selected with a filter expression over kind, start, end, length and size, for example:

  mediadecoder segments --filter 'kind == "DQT" && length > 64' photo.jpg
  mediadecoder segments --filter 'isAPP(kind)' photo.jpg

The selected segments can also be written as a DFXML report, which the 'dump' command accepts.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunSegments,
	}

	cmd.Flags().String("filter", "", "boolean expression selecting the segments to list")
	cmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	cmd.Flags().String("dfxml", "", "also write the selected segments as a DFXML report to this path")
	return cmd
}

func RunSegments(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	expr, _ := cmd.Flags().GetString("filter")
	filter, err := inspect.NewSegmentFilter(expr)
	if err != nil {
		return err
	}

	src, err := s.open(cmd, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	all, err := inspect.Segments(src.Parser)
	if err != nil {
		return err
	}

	segs, err := filter.Apply(all)
	if err != nil {
		return err
	}
	s.console.Debugf("%d of %d segments selected", len(segs), len(all))

	if path, _ := cmd.Flags().GetString("dfxml"); path != "" {
		if err := writeSegmentReport(path, src, segs); err != nil {
			return err
		}
		s.console.Infof("report saved to %s", path)
	}

	if s.cfg.Output == config.OutputYAML {
		data, err := yaml.Marshal(segs)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tKIND\tSTART\tEND\tLENGTH")
	for i, seg := range segs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", i, seg.Kind, seg.Start, seg.End, seg.Length)
	}
	return w.Flush()
}

func writeSegmentReport(path string, src *inspect.Source, segs []format.SegmentInfo) error {
	body, err := src.Parser.Body()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := inspect.WriteSegmentReport(f, src.Path, src.Parser.Format(), int64(len(body)), segs); err != nil {
		return err
	}
	return f.Close()
}
