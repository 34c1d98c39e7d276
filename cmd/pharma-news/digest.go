package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikeboe/pharma-news/pkg/config"
	"github.com/mikeboe/pharma-news/pkg/research"
)

func newDigestCmd() *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "digest TOPIC",
		Short: "Summarize and tag this week's top news for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := cfg.NewLoggerTo(os.Stderr)
			ctx := context.Background()

			engine, err := research.NewEngine(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("error initializing engine: %w", err)
			}

			items, err := engine.Digest(ctx, topic, limit)
			if err != nil {
				return err
			}

			return writeDigest(cmd.OutOrStdout(), items, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, markdown or json")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of news items (default from DIGEST_LIMIT)")

	return cmd
}
