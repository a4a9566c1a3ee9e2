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
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ostafen/mediadecoder/internal/inspect"
	osutils "github.com/ostafen/mediadecoder/pkg/util/os"
)

// imageExts are the extensions picked up when a directory is given.
var imageExts = []string{"bmp", "dib", "jpg", "jpeg", "jpe", "jfif"}

func DefineHeaderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header <file|dir>...",
		Short: "Print the decoded header of BMP and JPEG files",
		Long: `The 'header' command decodes the headers of the given files and prints a report of every field.
Directories are walked recursively for image files. Files are decoded concurrently; a file that cannot be
decoded is reported without stopping the others.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunHeader,
	}

	cmd.Flags().StringP("format", "f", "", "force the input format (bmp or jpeg) instead of detecting it")
	cmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	cmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of files decoded concurrently")
	return cmd
}

func RunHeader(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts, err := s.inspectOptions(cmd)
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		files, err := osutils.ListFiles(arg, imageExts...)
		if err != nil {
			return err
		}
		paths = append(paths, files...)
	}

	start := time.Now()
	results, err := inspect.Headers(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	if err := inspect.WriteResults(cmd.OutOrStdout(), results, s.cfg.Output); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err() != nil {
			failed++
		}
	}
	s.console.Debugf("decoded %d files in %s", len(results), inspect.FormatDurationHMS(time.Since(start)))

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be decoded", failed, len(results))
	}
	return nil
}
