package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNoFFmpeg skips the test if ffmpeg or ffprobe are not available.
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH, skipping test")
	}
}

// createTestAudio creates a short silent audio file using ffmpeg.
func createTestAudio(t *testing.T, path string, duration float64) {
	t.Helper()

	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=44100:cl=mono:d=%.1f", duration),
		path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test audio: %v\noutput: %s", err, output)
	}
}

func TestNewFFmpeg(t *testing.T) {
	t.Run("default paths", func(t *testing.T) {
		f := NewFFmpeg("", "")
		assert.Equal(t, "ffmpeg", f.ffmpegPath)
		assert.Equal(t, "ffprobe", f.ffprobePath)
	})

	t.Run("custom paths", func(t *testing.T) {
		f := NewFFmpeg("/opt/bin/ffmpeg", "/opt/bin/ffprobe")
		assert.Equal(t, "/opt/bin/ffmpeg", f.ffmpegPath)
		assert.Equal(t, "/opt/bin/ffprobe", f.ffprobePath)
	})
}

func TestEncodeArgs(t *testing.T) {
	t.Run("without filter", func(t *testing.T) {
		args := encodeArgs(EncodeJob{
			Input:       "book.m4b",
			Output:      "book_001.mp3",
			StartSec:    0,
			DurationSec: 600,
			Bitrate:     "192",
			SampleRate:  "44100",
		})
		assert.Equal(t, []string{
			"-y",
			"-ss", "0",
			"-i", "book.m4b",
			"-t", "600",
			"-b:a", "192k",
			"-map_metadata", "-1",
			"-map", "a",
			"-ar", "44100",
			"book_001.mp3",
		}, args)
	})

	t.Run("with filter", func(t *testing.T) {
		args := encodeArgs(EncodeJob{
			Input:       "book.m4b",
			Output:      "book_002.mp3",
			StartSec:    600,
			DurationSec: 300,
			Filter:      "atempo=2,atempo=1.5",
			Bitrate:     "128",
			SampleRate:  "22050",
		})
		assert.Contains(t, args, "-filter:a")
		idx := indexOf(args, "-filter:a")
		require.Less(t, idx+1, len(args))
		assert.Equal(t, "atempo=2,atempo=1.5", args[idx+1])
		// The filter must precede the output options.
		assert.Less(t, idx, indexOf(args, "-b:a"))
	})

	t.Run("fractional seconds", func(t *testing.T) {
		args := encodeArgs(EncodeJob{
			StartSec:    1200,
			DurationSec: 300.5,
			Bitrate:     "192",
			SampleRate:  "44100",
		})
		assert.Equal(t, "1200", args[2])
		assert.Equal(t, "300.5", args[4])
	})
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func TestDuration(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()
	f := NewFFmpeg("", "")
	ctx := context.Background()

	t.Run("reports duration of a real file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "tone.mp3")
		createTestAudio(t, path, 3.0)

		got, err := f.Duration(ctx, path)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, got, 0.5)
	})

	t.Run("unknown duration for a missing file", func(t *testing.T) {
		_, err := f.Duration(ctx, filepath.Join(tmpDir, "does-not-exist.m4b"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDurationUnknown)
	})
}

func TestEncode(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()
	f := NewFFmpeg("", "")
	ctx := context.Background()

	src := filepath.Join(tmpDir, "src.mp3")
	createTestAudio(t, src, 4.0)

	t.Run("extracts a segment", func(t *testing.T) {
		out := filepath.Join(tmpDir, "seg_001.mp3")
		err := f.Encode(ctx, EncodeJob{
			Input:       src,
			Output:      out,
			StartSec:    1,
			DurationSec: 2,
			Bitrate:     "192",
			SampleRate:  "44100",
		})
		require.NoError(t, err)

		got, err := f.Duration(ctx, out)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, got, 0.5)
	})

	t.Run("failed invocation carries stderr", func(t *testing.T) {
		err := f.Encode(ctx, EncodeJob{
			Input:       filepath.Join(tmpDir, "missing.m4b"),
			Output:      filepath.Join(tmpDir, "out.mp3"),
			DurationSec: 1,
			Bitrate:     "192",
			SampleRate:  "44100",
		})
		require.Error(t, err)

		var ffErr *FFmpegError
		require.ErrorAs(t, err, &ffErr)
		assert.NotEmpty(t, ffErr.Stderr)
	})
}
