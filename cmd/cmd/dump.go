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
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/mediadecoder/internal/fs"
	"github.com/ostafen/mediadecoder/internal/inspect"
	"github.com/ostafen/mediadecoder/pkg/dfxml"
)

func DefineDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Write the body and segments of an image to a directory",
		Long: `The 'dump' command writes the original bytes of an image to <dir>/body.<ext> and, for JPEG files,
each marker segment to <dir>/segments/NN_KIND.
With --report, the byte runs listed in a DFXML report (see 'segments --dfxml') are extracted instead.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunDump,
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory where the dumped files are placed (default <file>-dump)")
	cmd.Flags().String("report", "", "extract the byte runs listed in this DFXML report")
	cmd.Flags().StringP("format", "f", "", "force the input format (bmp or jpeg) instead of detecting it")
	return cmd
}

func RunDump(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	outDir, _ := cmd.Flags().GetString("output-dir")

	if report, _ := cmd.Flags().GetString("report"); report != "" {
		// each extraction gets its own directory, so that runs over
		// different reports do not overwrite each other.
		if outDir == "" {
			outDir = defaultDumpDir(args[0]) + "-" + inspect.GenSessionID()
		}
		return extractReport(s, args[0], report, outDir)
	}

	if outDir == "" {
		outDir = defaultDumpDir(args[0])
	}

	src, err := s.open(cmd, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	written, err := inspect.Dump(src, outDir)
	for _, p := range written {
		s.console.Infof("written %s", p)
	}
	return err
}

func extractReport(s *session, imagePath, reportPath, outDir string) error {
	f, err := fs.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	reportFile, err := os.Open(reportPath)
	if err != nil {
		return err
	}
	defer reportFile.Close()

	objects, err := dfxml.ReadFileObjects(bufio.NewReader(reportFile))
	if err != nil {
		return err
	}

	n, err := inspect.Extract(f, objects, outDir, s.console)
	if err != nil {
		return err
	}
	s.console.Infof("%d of %d objects extracted to %s", n, len(objects), outDir)
	return nil
}

// defaultDumpDir derives "<name>-dump" in the working directory from the
// input file name.
func defaultDumpDir(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	wdir, err := os.Getwd()
	if err != nil {
		return name + "-dump"
	}
	return filepath.Join(wdir, name+"-dump")
}
