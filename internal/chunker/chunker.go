package chunker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"audiokit/internal/media"
	"audiokit/internal/storage"
)

// Options are the per-run parameters of a chunking run, validated at the
// command boundary before any subprocess work starts.
type Options struct {
	// Input is the source media file path.
	Input string `validate:"required"`
	// OutputDir is where chunk files are written. Created if missing.
	OutputDir string `validate:"required"`
	// ChunkMinutes is the nominal chunk length in minutes.
	ChunkMinutes int `validate:"required,gt=0"`
	// Speed is the playback speed factor. 1.0 means unchanged.
	Speed float64 `validate:"required,gt=0"`
	// StartChunk is the 1-based index of the first chunk to produce.
	StartChunk int `validate:"required,gte=1"`
	// MaxChunks limits how many chunks are produced. 0 means all.
	MaxChunks int `validate:"gte=0"`
	// Bitrate is the output audio bitrate without the trailing "k".
	Bitrate string `validate:"required,number"`
	// SampleRate is the output sample rate in Hz.
	SampleRate string `validate:"required,number"`
	// Upload pushes each successfully encoded chunk to S3.
	Upload bool
}

// Summary reports what a run produced. Per-chunk failures are counted here
// rather than aborting the batch.
type Summary struct {
	TotalSec float64
	Planned  int
	Encoded  int
	Failed   int
	Outputs  []string
}

// Service orchestrates one chunking run: probe, plan, compile the tempo
// chain, then encode each chunk in order.
type Service struct {
	prober   media.Prober
	encoder  media.Encoder
	store    storage.Storage
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStorage sets the storage backend used for chunk uploads. Without it,
// Options.Upload is a logged no-op.
func WithStorage(store storage.Storage) Option {
	return func(s *Service) {
		s.store = store
	}
}

// NewService creates a chunking Service.
func NewService(prober media.Prober, encoder media.Encoder, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		prober:   prober,
		encoder:  encoder,
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one chunking run.
//
// Precondition failures (bad options, unknown duration, invalid speed,
// unusable output directory) abort the run with an error before any chunk is
// encoded. A failing chunk encode is logged and counted; the loop moves on
// to the next chunk.
func (s *Service) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	if err := s.validate.Struct(opts); err != nil {
		return sum, fmt.Errorf("validate options: %w", err)
	}

	totalSec, err := s.prober.Duration(ctx, opts.Input)
	if err != nil {
		return sum, fmt.Errorf("probe %s: %w", opts.Input, err)
	}
	sum.TotalSec = totalSec
	s.logger.Info("probed input",
		slog.String("input", opts.Input),
		slog.Float64("total_seconds", totalSec),
	)

	chain, err := CompileTempoChain(opts.Speed)
	if err != nil {
		return sum, fmt.Errorf("speed %v: %w", opts.Speed, err)
	}
	filter := chain.FilterExpr()
	if filter != "" {
		s.logger.Info("compiled tempo chain",
			slog.Float64("speed", opts.Speed),
			slog.String("filter", filter),
			slog.Int("stages", len(chain)),
		)
	}

	if err := os.MkdirAll(opts.OutputDir, 0750); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}

	plan := BuildPlan(totalSec, opts.ChunkMinutes, opts.StartChunk, opts.MaxChunks)
	sum.Planned = len(plan)
	if len(plan) == 0 {
		s.logger.Info("nothing to do",
			slog.Int("start_chunk", opts.StartChunk),
			slog.Int("total_chunks", TotalChunks(totalSec, opts.ChunkMinutes*60)),
		)
		return sum, nil
	}

	s.logger.Info("processing chunks",
		slog.Int("first", plan[0].Index),
		slog.Int("last", plan[len(plan)-1].Index),
		slog.String("total_minutes", fmt.Sprintf("%.1f", totalSec/60)),
	)

	stem := inputStem(opts.Input)
	for _, c := range plan {
		output := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%03d.mp3", stem, c.Index))

		s.logger.Info("encoding chunk",
			slog.Int("chunk", c.Index),
			slog.Int("of", plan[len(plan)-1].Index),
			slog.String("output", output),
		)

		err := s.encoder.Encode(ctx, media.EncodeJob{
			Input:       opts.Input,
			Output:      output,
			StartSec:    c.StartSec,
			DurationSec: c.DurationSec,
			Filter:      filter,
			Bitrate:     opts.Bitrate,
			SampleRate:  opts.SampleRate,
		})
		if err != nil {
			if ctx.Err() != nil {
				return sum, fmt.Errorf("encode chunk %d: %w", c.Index, err)
			}
			sum.Failed++
			s.logger.Error("chunk failed",
				slog.Int("chunk", c.Index),
				slog.String("error", err.Error()),
			)
			continue
		}

		sum.Encoded++
		sum.Outputs = append(sum.Outputs, output)

		if opts.Upload {
			s.uploadChunk(ctx, output, &sum)
		}
	}

	return sum, nil
}

// uploadChunk pushes one encoded chunk to S3. Upload failures are per-item:
// logged, counted, and the batch continues.
func (s *Service) uploadChunk(ctx context.Context, path string, sum *Summary) {
	if s.store == nil {
		s.logger.Warn("upload requested but no storage configured",
			slog.String("output", path),
		)
		return
	}

	f, err := os.Open(path) // #nosec G304 - path was just written by this run
	if err != nil {
		sum.Failed++
		s.logger.Error("open chunk for upload",
			slog.String("output", path),
			slog.String("error", err.Error()),
		)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := s.store.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		sum.Failed++
		s.logger.Error("upload chunk",
			slog.String("output", path),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("chunk uploaded",
		slog.String("output", path),
		slog.String("url", url),
	)
}

// inputStem returns the input filename without directory or extension,
// used as the prefix of every chunk filename.
func inputStem(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
