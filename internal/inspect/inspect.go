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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ostafen/mediadecoder/internal/config"
	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/fs"
	"github.com/ostafen/mediadecoder/internal/task"
)

type Options struct {
	Format  format.Format // Unknown selects the parser from the file signature
	Workers int
	MaxSize int64
	Logger  *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) parserOptions() []format.Option {
	return []format.Option{
		format.WithLogger(o.logger()),
		format.WithMaxSize(o.MaxSize),
	}
}

// Source is an opened image file together with its parser.
type Source struct {
	Path   string
	File   fs.File
	Parser format.Parser
}

func (s *Source) Close() error {
	return s.File.Close()
}

// Open opens path and attaches the parser selected by opts.Format.
func Open(path string, opts Options) (*Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	var p format.Parser
	if opts.Format == format.Unknown {
		p, err = format.NewDetect(f, opts.parserOptions()...)
	} else {
		p, err = format.New(opts.Format, f, opts.parserOptions()...)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{Path: path, File: f, Parser: p}, nil
}

// Result is the decoded header of one file.
type Result struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"`
	Report any    `yaml:"report,omitempty"`
	Error  string `yaml:"error,omitempty"`

	text string
	err  error
}

func (r *Result) Err() error {
	return r.err
}

// Report returns the structured report of p alongside its text form.
func Report(p format.Parser) (any, string, error) {
	switch p := p.(type) {
	case *format.BMPParser:
		r, err := p.Report()
		if err != nil {
			return nil, "", err
		}
		return r, r.String(), nil
	case *format.JPEGParser:
		r, err := p.Report()
		if err != nil {
			return nil, "", err
		}
		return r, r.String(), nil
	}

	text, err := p.Header()
	return nil, text, err
}

func decodeFile(path string, opts Options) (Result, error) {
	res := Result{Path: path}

	src, err := Open(path, opts)
	if err != nil {
		return res, err
	}
	defer src.Close()

	res.Format = src.Parser.Format().String()
	res.Report, res.text, err = Report(src.Parser)
	return res, err
}

// Headers decodes the header of every path on a pool of opts.Workers
// goroutines. Results keep the order of paths; per-file failures are
// recorded in the corresponding Result.
func Headers(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	logger := opts.logger()
	pool := task.NewPool(opts.Workers)
	defer pool.Wait()

	futures := make([]*task.Future[Result], len(paths))
	for i, path := range paths {
		futures[i] = task.Submit(pool, func() (Result, error) {
			start := time.Now()
			res, err := decodeFile(path, opts)
			logger.Debug("file decoded", "path", path, "format", res.Format, "duration", time.Since(start), "err", err)
			return res, err
		})
	}

	results := make([]Result, len(paths))
	for i, f := range futures {
		res, err := f.Await(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			logger.Error("unable to decode file", "path", paths[i], "err", err)
			res.Path = paths[i]
			res.Error = err.Error()
			res.err = err
		}
		results[i] = res
	}
	return results, nil
}

// WriteResults renders results in the given output format.
func WriteResults(w io.Writer, results []Result, output string) error {
	switch output {
	case config.OutputYAML:
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case config.OutputText, "":
		for i, res := range results {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "==> %s <==\n", res.Path)
			}
			if res.err != nil {
				fmt.Fprintf(w, "error: %s\n", res.Error)
				continue
			}
			if _, err := io.WriteString(w, res.text); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported output %q", output)
}

// GenSessionID returns a name unique to the current second, formatted as
// YYYYMMDD_HHMMSS.
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats d as HH:MM:SS, or as fractional seconds when it
// is shorter than one second.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// SetupLogger returns a text slog.Logger appending to logFilePath, or
// discarding everything when the path is empty. The returned file, if not
// nil, must be closed by the caller.
func SetupLogger(logFilePath string, minLevel slog.Level) (*slog.Logger, *os.File, error) {
	var writer io.Writer = io.Discard
	var file *os.File

	if logFilePath != "" {
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
		}

		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
		}
		writer = f
		file = f
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:     minLevel,
		AddSource: true,
	})
	return slog.New(handler), file, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
