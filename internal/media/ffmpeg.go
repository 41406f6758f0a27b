// Package media wraps the ffmpeg and ffprobe CLIs behind small interfaces
// so the chunking pipeline can be tested without the binaries installed.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Static errors for media operations.
var (
	// ErrDurationUnknown is returned when ffprobe produced no duration value.
	// Callers must treat this as fatal for the whole run: a chunk plan cannot
	// be built without a total duration.
	ErrDurationUnknown = errors.New("media: duration unknown")
)

// Prober reports the container-level duration of a media file.
type Prober interface {
	// Duration returns the total duration of the file in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}

// Encoder extracts and re-encodes one timed segment of a media file.
type Encoder interface {
	// Encode runs one extraction described by job, blocking until the
	// subprocess exits.
	Encode(ctx context.Context, job EncodeJob) error
}

// EncodeJob describes a single segment extraction.
type EncodeJob struct {
	// Input is the source media file path.
	Input string
	// Output is the destination file path. Existing files are overwritten.
	Output string
	// StartSec is the segment start offset in seconds.
	StartSec float64
	// DurationSec is the segment length in seconds.
	DurationSec float64
	// Filter is an optional ffmpeg audio filter expression. Empty means no
	// filter argument is passed at all.
	Filter string
	// Bitrate is the audio bitrate without the trailing "k", e.g. "192".
	Bitrate string
	// SampleRate is the output sample rate, e.g. "44100".
	SampleRate string
}

// FFmpeg implements Prober and Encoder using the ffmpeg and ffprobe CLIs.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates a new FFmpeg wrapper. Empty paths default to "ffmpeg"
// and "ffprobe" resolved via PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Duration returns the total duration of a media file in seconds using
// ffprobe's container-level duration field.
//
// ffprobe's exit status is deliberately ignored: the contract is driven by
// its stdout. Empty stdout means the duration could not be determined and
// yields ErrDurationUnknown wrapping whatever ffprobe wrote to stderr.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	_ = cmd.Run()
	if ctx.Err() != nil {
		return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		diag := strings.TrimSpace(stderr.String())
		if diag != "" {
			return 0, fmt.Errorf("%w: %s", ErrDurationUnknown, diag)
		}
		return 0, ErrDurationUnknown
	}

	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	return seconds, nil
}

// Encode implements Encoder by invoking ffmpeg once. The argument order is
// load-bearing: -ss before -i selects input seeking, and the output options
// must follow the filter.
func (f *FFmpeg) Encode(ctx context.Context, job EncodeJob) error {
	return f.runFFmpeg(ctx, encodeArgs(job))
}

// encodeArgs builds the ffmpeg argv for one segment extraction.
func encodeArgs(job EncodeJob) []string {
	args := []string{
		"-y",
		"-ss", formatSeconds(job.StartSec),
		"-i", job.Input,
		"-t", formatSeconds(job.DurationSec),
	}
	if job.Filter != "" {
		args = append(args, "-filter:a", job.Filter)
	}
	args = append(args,
		"-b:a", job.Bitrate+"k",
		"-map_metadata", "-1",
		"-map", "a",
		"-ar", job.SampleRate,
		job.Output,
	)
	return args
}

// runFFmpeg executes ffmpeg with the given arguments and returns an
// FFmpegError carrying the captured stderr if the command fails.
func (f *FFmpeg) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return nil
}

// formatSeconds renders a seconds value for ffmpeg argv without a trailing
// fractional part for whole values, keeping logged commands readable.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FFmpegError represents a failed ffmpeg invocation, including the stderr
// output needed to diagnose it.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Compile-time interface checks.
var (
	_ Prober  = (*FFmpeg)(nil)
	_ Encoder = (*FFmpeg)(nil)
)
