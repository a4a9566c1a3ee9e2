package inspect

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/logger"
	"github.com/ostafen/mediadecoder/pkg/dfxml"
	osutils "github.com/ostafen/mediadecoder/pkg/util/os"
)

// Dump writes the body of src to dir as body.<ext> and, for JPEG sources,
// one file per segment. It returns the paths of the written files.
func Dump(src *Source, dir string) ([]string, error) {
	body, err := src.Parser.Body()
	if err != nil {
		return nil, err
	}

	if _, err := osutils.EnsureDir(dir, false); err != nil {
		return nil, err
	}

	ext := src.Parser.Format().String()
	bodyName := "body." + ext
	if err := dumpFile(dir, bodyName, bytes.NewReader(body)); err != nil {
		return nil, err
	}
	written := []string{filepath.Join(dir, bodyName)}

	if src.Parser.Format() != format.JPEG {
		return written, nil
	}

	segs, err := Segments(src.Parser)
	if err != nil {
		return written, err
	}

	segDir := filepath.Join(dir, "segments")
	if _, err := osutils.EnsureDir(segDir, false); err != nil {
		return written, err
	}

	for i, s := range segs {
		name := SegmentName(i, s)
		if err := dumpFile(segDir, name, bytes.NewReader(body[s.Start:s.End+1])); err != nil {
			return written, err
		}
		written = append(written, filepath.Join(segDir, name))
	}
	return written, nil
}

// Extract writes the first byte run of every object in objs, read from r,
// to dir. Objects that cannot be extracted are logged and skipped; the
// number of extracted objects is returned.
func Extract(r io.ReaderAt, objs []dfxml.FileObject, dir string, log *logger.Logger) (int, error) {
	if _, err := osutils.EnsureDir(dir, false); err != nil {
		return 0, err
	}

	n := 0
	for _, obj := range objs {
		runs := obj.ByteRuns.Runs
		if len(runs) < 1 {
			log.Warnf("skipping %s: no byte runs", obj.Filename)
			continue
		}
		run := runs[0]

		log.Infof("extracting %s", filepath.Join(dir, obj.Filename))

		sr := io.NewSectionReader(r, int64(run.ImgOffset), int64(run.Length))
		if err := dumpFile(dir, filepath.Base(obj.Filename), sr); err != nil {
			log.Errorf("unable to extract %s: %s", obj.Filename, err)
			continue
		}
		n++
	}
	return n, nil
}

func dumpFile(dir string, fileName string, r io.Reader) error {
	f, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", fileName, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024)

	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	return w.Flush()
}
