package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"audiokit/internal/bootstrap"
	"audiokit/internal/config"
)

// commandContext carries the lazily initialized dependencies shared by all
// subcommands.
type commandContext struct {
	cfg    *config.Config
	logger *slog.Logger
	deps   *bootstrap.Dependencies
}

// ensureDeps loads configuration and wires dependencies once per invocation.
func (c *commandContext) ensureDeps() (*bootstrap.Dependencies, error) {
	if c.deps != nil {
		return c.deps, nil
	}

	_ = godotenv.Load() // loads .env if present

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	// One run id per invocation keeps log lines correlatable when output is
	// collected centrally.
	c.logger = cfg.NewLogger().With(slog.String("run_id", uuid.New().String()))
	slog.SetDefault(c.logger)

	deps, err := bootstrap.NewDependencies(cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}
	c.deps = deps
	return deps, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "audiokit",
		Short:         "Audiobook chunking and source-tree gathering utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newChunkCommand(ctx))
	rootCmd.AddCommand(newGatherCommand(ctx))

	return rootCmd
}
