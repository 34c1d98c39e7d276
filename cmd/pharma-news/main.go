package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharma-news",
		Short: "A terminal dashboard for pharmaceutical news",
		Long: `pharma-news searches recent news for each drug, summarizes every article with an LLM,
classifies the summaries as Clinical, Regulatory or Commercial and prints one report row per drug.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd(), newDigestCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
