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
	"io"

	"github.com/spf13/cobra"

	"github.com/ostafen/mediadecoder/internal/inspect"
)

func DefinePreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render an image as ASCII art",
		Long: `The 'preview' command renders an image as a grid of characters, darker pixels mapping to denser glyphs.
24-bit BMP files are rendered straight from their pixel array, one glyph per pixel. JPEG files, and BMP files
when --decode is given, are decoded first and scaled to --cols columns.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunPreview,
	}

	cmd.Flags().Bool("decode", false, "decode BMP pixels instead of reading the raw pixel array")
	cmd.Flags().Int("cols", inspect.DefaultPreviewCols, "width of decoded previews, in characters")
	cmd.Flags().StringP("format", "f", "", "force the input format (bmp or jpeg) instead of detecting it")
	return cmd
}

func RunPreview(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	src, err := s.open(cmd, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	decode, _ := cmd.Flags().GetBool("decode")
	cols, _ := cmd.Flags().GetInt("cols")

	art, err := inspect.Preview(src.Parser, decode, cols, s.logger)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), art)
	return err
}
