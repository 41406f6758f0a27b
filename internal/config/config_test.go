package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.FFmpegPath)
	assert.Empty(t, cfg.FFprobePath)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FFPROBE_PATH", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("ARCHIVE_DIR", "/var/lib/audiokit")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", cfg.FFprobePath)
	assert.Equal(t, "/var/lib/audiokit", cfg.ArchiveDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestS3Enabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.S3Enabled())

	cfg.S3Bucket = "chunks"
	assert.False(t, cfg.S3Enabled(), "bucket without region is incomplete")

	cfg.S3Region = "eu-west-1"
	assert.True(t, cfg.S3Enabled())
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogFormat: "text", LogLevel: "warn"}
	logger := cfg.NewLogger()
	require.NotNil(t, logger)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestStringMasksSecrets(t *testing.T) {
	cfg := &Config{
		S3Bucket:           "chunks",
		AWSAccessKeyID:     "AKIA-TEST",
		AWSSecretAccessKey: "super-secret",
	}
	s := cfg.String()
	assert.Contains(t, s, "chunks")
	assert.NotContains(t, s, "AKIA-TEST")
	assert.NotContains(t, s, "super-secret")
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLogLevel(tc.in), tc.in)
	}
}
