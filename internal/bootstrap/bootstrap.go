// Package bootstrap provides dependency initialization for the audiokit CLI.
package bootstrap

import (
	"fmt"
	"log/slog"

	"audiokit/internal/chunker"
	"audiokit/internal/config"
	"audiokit/internal/gather"
	"audiokit/internal/media"
	"audiokit/internal/storage"
)

// Dependencies holds all initialized dependencies for the CLI commands.
type Dependencies struct {
	Chunker  *chunker.Service
	Gatherer *gather.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	ffmpeg := media.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath)

	chunkSvc := chunker.NewService(ffmpeg, ffmpeg, logger,
		chunker.WithStorage(store),
	)
	gatherSvc := gather.NewService(logger,
		gather.WithStorage(store),
	)

	return &Dependencies{
		Chunker:  chunkSvc,
		Gatherer: gatherSvc,
	}, nil
}

// initStorage creates the appropriate archive backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			KeyPrefix:       cfg.S3KeyPrefix,
		}
		s3Store, err := storage.NewS3Storage(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Debug("S3 archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Debug("local archive configured",
		slog.String("archive_dir", localStore.ArchiveDir()),
	)
	return localStore, nil
}
