package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikeboe/pharma-news/pkg/config"
	"github.com/mikeboe/pharma-news/pkg/research"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		format      string
		withSources bool
		window      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "analyze [DRUG...]",
		Short: "Build a news report for each drug",
		Long:  `Without arguments the drug names are read interactively as a comma-separated list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			drugs := args
			if len(drugs) == 0 {
				// Interactive Mode
				var err error
				drugs, err = promptDrugs(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("window") {
				cfg.Pipeline.NewsWindow = window
			}
			if cmd.Flags().Changed("parallelism") {
				cfg.Pipeline.Parallelism = parallelism
			}

			logger := cfg.NewLoggerTo(os.Stderr)
			ctx := context.Background()

			engine, err := research.NewEngine(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("error initializing engine: %w", err)
			}

			reports, err := engine.Run(ctx, research.RunOptions{
				Compounds:      drugs,
				IncludeSources: withSources,
			})
			if err != nil {
				return err
			}

			return writeReports(cmd.OutOrStdout(), reports, format, withSources)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, markdown or json")
	cmd.Flags().BoolVarP(&withSources, "sources", "s", false, "Also list what happened to every news article")
	cmd.Flags().StringVarP(&window, "window", "w", "month", "News time window: day, week, month or year")
	cmd.Flags().IntVarP(&parallelism, "parallelism", "p", 1, "Number of drugs analyzed concurrently")

	return cmd
}

// promptDrugs reads a comma-separated list of drug names from in.
func promptDrugs(in io.Reader, out io.Writer) ([]string, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Enter drug names (comma separated): ")
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read drug names: %w", err)
	}

	var drugs []string
	for _, d := range strings.Split(input, ",") {
		if d = strings.TrimSpace(d); d != "" {
			drugs = append(drugs, d)
		}
	}
	if len(drugs) == 0 {
		return nil, research.ErrNoCompounds
	}
	return drugs, nil
}
