package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/mediadecoder/internal/config"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mediadecoder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, "log_level: DEBUG\nworkers: 2\noutput: yaml\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, config.OutputYAML, cfg.Output)
	require.Equal(t, config.Default().MaxSize, cfg.MaxSize)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(writeConfig(t, "workers: 0\n"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "output: xml\n"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "unknown_key: 1\n"))
	require.Error(t, err)
}
