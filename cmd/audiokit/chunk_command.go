package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"audiokit/internal/chunker"
)

func newChunkCommand(ctx *commandContext) *cobra.Command {
	var (
		chunkDuration int
		speed         float64
		startChunk    int
		maxChunks     int
		quality       string
		sampleRate    string
		upload        bool
	)

	cmd := &cobra.Command{
		Use:   "chunk INPUT_FILE OUTPUT_DIR",
		Short: "Split an audiobook into timed mp3 chunks, optionally speed-adjusted",
		Long: `Split an M4B audiobook (or any media ffmpeg can read) into fixed-length
mp3 chunks. A speed factor outside ffmpeg's atempo range is realized by
chaining multiple tempo stages. One failing chunk does not stop the batch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}

			sum, err := deps.Chunker.Run(cmd.Context(), chunker.Options{
				Input:        args[0],
				OutputDir:    args[1],
				ChunkMinutes: chunkDuration,
				Speed:        speed,
				StartChunk:   startChunk,
				MaxChunks:    maxChunks,
				Bitrate:      quality,
				SampleRate:   sampleRate,
				Upload:       upload,
			})
			if err != nil {
				return err
			}

			ctx.logger.Info("run complete",
				slog.Int("planned", sum.Planned),
				slog.Int("encoded", sum.Encoded),
				slog.Int("failed", sum.Failed),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkDuration, "chunk-duration", 10, "Duration of each chunk in minutes")
	cmd.Flags().Float64Var(&speed, "speed", 1.00, "Playback speed factor")
	cmd.Flags().IntVar(&startChunk, "start-chunk", 1, "First chunk to process (1-based)")
	cmd.Flags().IntVar(&maxChunks, "max-chunks", 0, "Maximum number of chunks to process (0 = all)")
	cmd.Flags().StringVar(&quality, "quality", "192", "Output audio bitrate in kbit/s")
	cmd.Flags().StringVar(&sampleRate, "sample-rate", "44100", "Output audio sample rate in Hz")
	cmd.Flags().BoolVar(&upload, "upload", false, "Archive each encoded chunk to the configured storage")

	return cmd
}
