package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ostafen/mediadecoder/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, logger.DebugLevel, logger.ParseLevel("debug"))
	require.Equal(t, logger.WarnLevel, logger.ParseLevel("WARN"))
	require.Equal(t, logger.ErrorLevel, logger.ParseLevel("Error"))
	require.Equal(t, logger.InfoLevel, logger.ParseLevel("verbose"))
	require.Equal(t, slog.LevelWarn, logger.WarnLevel.Slog())
}

func TestLogger_Threshold(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, logger.WarnLevel)

	l.Infof("decoding %s", "a.bmp")
	l.Warnf("odd header size %d", 108)
	l.Error("boom")

	require.Equal(t, "[WARN] odd header size 108\n[ERROR] boom\n", buf.String())
}

func TestNewSlog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlog(&buf, logger.InfoLevel)

	log.Debug("hidden")
	log.Info("shown", "size", 70)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown size=70")
}
