package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/mediadecoder/internal/config"
	"github.com/ostafen/mediadecoder/internal/env"
	"github.com/ostafen/mediadecoder/internal/format"
	"github.com/ostafen/mediadecoder/internal/inspect"
	"github.com/ostafen/mediadecoder/internal/logger"
	fmtutil "github.com/ostafen/mediadecoder/pkg/util/format"
)

func Execute(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - BMP and JPEG header decoder",
		Version: env.Version,
	}

	rootCmd.PersistentFlags().String("config", "", "path of a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	rootCmd.PersistentFlags().String("log-file", "", "write decoder diagnostics to this file instead of stderr")
	rootCmd.PersistentFlags().String("max-size", "", "refuse to load inputs larger than this size (e.g. 64MB)")

	rootCmd.AddCommand(
		DefineHeaderCommand(),
		DefineSegmentsCommand(),
		DefinePreviewCommand(),
		DefineDumpCommand(),
		DefineFormatsCommand(),
		DefineMountCommand(),
	)
	return rootCmd.ExecuteContext(ctx)
}

// session holds the settings shared by every command: the merged
// configuration and the loggers built from it.
type session struct {
	cfg     config.Config
	console *logger.Logger
	logger  *slog.Logger
	logFile *os.File
}

func (s *session) Close() error {
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}

// newSession loads the configuration file and applies the flags the user
// set explicitly on top of it.
func newSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flags().Lookup("max-size"); f != nil && f.Changed {
		cfg.MaxSize = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output = f.Value.String()
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.LogLevel)

	s := &session{
		cfg:     cfg,
		console: logger.New(os.Stderr, level),
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		s.logger = logger.NewSlog(os.Stderr, level)
		return s, nil
	}

	s.logger, s.logFile, err = inspect.SetupLogger(logFile, level.Slog())
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) inspectOptions(cmd *cobra.Command) (inspect.Options, error) {
	maxSize, err := fmtutil.ParseBytes(s.cfg.MaxSize)
	if err != nil {
		return inspect.Options{}, fmt.Errorf("invalid max size %q: %w", s.cfg.MaxSize, err)
	}

	f := format.Unknown
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		if f, err = format.ParseFormat(name); err != nil {
			return inspect.Options{}, err
		}
	}

	return inspect.Options{
		Format:  f,
		Workers: s.cfg.Workers,
		MaxSize: int64(maxSize),
		Logger:  s.logger,
	}, nil
}

// open opens a single input file for the commands that take one.
func (s *session) open(cmd *cobra.Command, path string) (*inspect.Source, error) {
	opts, err := s.inspectOptions(cmd)
	if err != nil {
		return nil, err
	}
	return inspect.Open(path, opts)
}
