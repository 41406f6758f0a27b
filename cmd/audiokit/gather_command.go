package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"audiokit/internal/gather"
)

const defaultGatherOutput = "combined_source_code.txt"

func newGatherCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "gather [DIR]",
		Short: "Concatenate all text files under a directory into one file",
		Long: `Walk a directory tree, select files that look like text (by extension
allow-list or content-type guess), and write their contents into a single
delimited file in lexicographic path order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			sum, err := deps.Gatherer.Run(cmd.Context(), gather.Options{
				Root:   root,
				Output: output,
				Upload: upload,
			})
			if err != nil {
				return err
			}

			ctx.logger.Info("run complete",
				slog.Int("found", sum.Found),
				slog.Int("written", sum.Written),
				slog.Int("skipped", sum.Skipped),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultGatherOutput, "Output file path")
	cmd.Flags().BoolVar(&upload, "upload", false, "Archive the combined file to the configured storage")

	return cmd
}
