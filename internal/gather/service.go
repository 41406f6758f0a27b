package gather

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"audiokit/internal/storage"
)

// Options are the per-run parameters of a gathering run.
type Options struct {
	// Root is the directory to scan.
	Root string `validate:"required"`
	// Output is the aggregate file path. Overwritten if it exists.
	Output string `validate:"required"`
	// Upload pushes the finished aggregate file to the configured storage.
	Upload bool
}

// Summary reports what a gathering run produced.
type Summary struct {
	Found   int
	Written int
	Skipped int
}

// Service orchestrates one gathering run: walk, classify, aggregate.
type Service struct {
	extensions map[string]struct{}
	store      storage.Storage
	validate   *validator.Validate
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStorage sets the storage backend used for uploading the aggregate.
func WithStorage(store storage.Storage) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithExtensions replaces the default extension allow-list.
func WithExtensions(exts map[string]struct{}) Option {
	return func(s *Service) {
		s.extensions = exts
	}
}

// NewService creates a gathering Service.
func NewService(logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		extensions: DefaultTextExtensions(),
		validate:   validator.New(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one gathering run. Unreadable files are skipped inside
// Aggregate; failures to walk the root or write the output abort the run.
func (s *Service) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	if err := s.validate.Struct(opts); err != nil {
		return sum, fmt.Errorf("validate options: %w", err)
	}

	s.logger.Info("scanning directory", slog.String("root", opts.Root))

	files, err := CollectFiles(opts.Root, s.extensions)
	if err != nil {
		return sum, err
	}
	sum.Found = len(files)
	s.logger.Info("found text files", slog.Int("count", len(files)))

	out, err := os.Create(opts.Output) // #nosec G304 - output path comes from the CLI flag
	if err != nil {
		return sum, fmt.Errorf("create output file: %w", err)
	}

	sum.Written, sum.Skipped, err = Aggregate(out, files, s.logger)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close output file: %w", closeErr)
	}
	if err != nil {
		return sum, err
	}

	s.logger.Info("created combined file",
		slog.String("output", opts.Output),
		slog.Int("written", sum.Written),
		slog.Int("skipped", sum.Skipped),
	)

	if opts.Upload {
		if err := s.upload(ctx, opts.Output); err != nil {
			return sum, err
		}
	}

	return sum, nil
}

// upload pushes the aggregate file to the configured storage backend.
func (s *Service) upload(ctx context.Context, path string) error {
	if s.store == nil {
		s.logger.Warn("upload requested but no storage configured",
			slog.String("output", path),
		)
		return nil
	}

	f, err := os.Open(path) // #nosec G304 - path was just written by this run
	if err != nil {
		return fmt.Errorf("open aggregate for upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	url, err := s.store.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("upload aggregate: %w", err)
	}

	s.logger.Info("aggregate uploaded",
		slog.String("output", path),
		slog.String("url", url),
	)
	return nil
}
