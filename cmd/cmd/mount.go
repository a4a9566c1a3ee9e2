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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/mediadecoder/internal/fuse"
	"github.com/ostafen/mediadecoder/internal/inspect"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <file>",
		Short: "Mount the decoded views of an image as a read-only filesystem",
		Long: `The 'mount' command exposes an image through FUSE (Linux only) as a directory holding header.txt,
body.<ext>, preview.txt for BMP files and one file per segment under segments/ for JPEG files.
The filesystem stays mounted until the process receives SIGINT or SIGTERM.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "directory where the filesystem will be mounted. If not specified, a default will be generated.")
	cmd.Flags().StringP("format", "f", "", "force the input format (bmp or jpeg) instead of detecting it")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
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

	tree, err := inspect.BuildTree(src, s.logger)
	if err != nil {
		return err
	}

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(args[0])
	}
	return fuse.Mount(mountpoint, tree, s.console)
}

// getMountpoint generates a mountpoint name from the image file name by
// stripping the extension. If the extension is empty, "_mnt" is added.
func getMountpoint(fileName string) string {
	baseName := filepath.Base(fileName)
	ext := filepath.Ext(baseName)
	mountpoint := strings.TrimSuffix(baseName, ext)
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}
