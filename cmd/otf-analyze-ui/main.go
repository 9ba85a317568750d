package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var backendURL string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "otf-analyze-ui",
		Short: "Presentation client for the otf-analyze service",
		Long: `otf-analyze-ui talks to an otf-analyze backend to analyze free-text
answers: semantic similarity to an ideal answer, misconception label with
confidence and risk, question difficulty, a blended answer score, guidance
text, and chart views of the result.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	defaultBackend := os.Getenv("OTF_ANALYZE_UI_BACKEND")
	if defaultBackend == "" {
		defaultBackend = "http://127.0.0.1:8090"
	}
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", defaultBackend,
		"base URL of the otf-analyze service (no trailing slash)")

	rootCmd.AddCommand(
		newHealthCmd(),
		newPredictCmd(),
		newDifficultyCmd(),
		newAnalyzeCmd(),
	)

	return rootCmd
}
