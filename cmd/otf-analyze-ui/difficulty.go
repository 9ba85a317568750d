package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	diffQuestion string
	diffQID      int
	diffSample   bool
	diffJSON     bool
)

func newDifficultyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "difficulty",
		Short: "Estimate the difficulty of a question",
		Long: `Estimate the normalized difficulty (0 easy – 1 hard) and bucket for a
question, using the backend's pre-trained item table where the question
id is known.`,
		RunE: runDifficulty,
	}

	cmd.Flags().StringVarP(&diffQuestion, "question", "q", "", "the question text")
	cmd.Flags().IntVar(&diffQID, "qid", -1, "known question id, if any")
	cmd.Flags().BoolVar(&diffSample, "sample", false, "use the built-in sample question")
	cmd.Flags().BoolVar(&diffJSON, "json", false, "print the raw JSON response")

	return cmd
}

func runDifficulty(cmd *cobra.Command, args []string) error {

	if diffSample {
		diffQuestion = sampleQuestion
	}
	if diffQuestion == "" {
		return fmt.Errorf("provide a question with --question, or use --sample")
	}

	payload := map[string]interface{}{"question_text": diffQuestion}
	if qid := optionalQID(diffQID); qid != nil {
		payload["qid"] = *qid
	}

	s := newSpinner("Estimating difficulty...")
	s.Start()
	raw, err := callAPI("POST", "/api/estimate_difficulty", payload)
	s.Stop()
	if err != nil {
		return fmt.Errorf("difficulty estimation failed: %w", err)
	}

	if diffJSON {
		return printJSON(raw)
	}

	doc := gjson.ParseBytes(raw)
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("📊 Difficulty")
	printDifficulty(doc)

	return nil
}

func printDifficulty(doc gjson.Result) {
	fmt.Printf("  normalized:  %.3f\n", doc.Get("difficulty_norm").Float())
	fmt.Printf("  bucket:      %s\n", doc.Get("bucket").String())
	if qid := doc.Get("qid"); qid.Exists() {
		fmt.Printf("  qid:         %d\n", qid.Int())
	}
}
