package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	analyzeQuestion string
	analyzeIdeal    string
	analyzeAnswer   string
	analyzeQID      int
	analyzeSample   bool
	analyzeJSON     bool
	analyzeOut      string
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the one-shot holistic answer analysis",
		Long: `Run holistic analysis: similarity to the ideal answer, misconception
prediction, question difficulty, blended answer score, guidance, and
chart views.

Examples:
  # Analyze the built-in sample
  otf-analyze-ui analyze --sample

  # Analyze your own inputs and save the raw result
  otf-analyze-ui analyze -q "Explain ..." -i "..." -a "..." --out analysis.json`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "the question text")
	cmd.Flags().StringVarP(&analyzeIdeal, "ideal", "i", "", "the ideal (reference) answer text")
	cmd.Flags().StringVarP(&analyzeAnswer, "answer", "a", "", "the user answer text")
	cmd.Flags().IntVar(&analyzeQID, "qid", -1, "known question id, if any")
	cmd.Flags().BoolVar(&analyzeSample, "sample", false, "use the built-in sample inputs")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON response")
	cmd.Flags().StringVar(&analyzeOut, "out", "", "write the raw JSON result to this file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {

	if analyzeSample {
		analyzeQuestion = sampleQuestion
		analyzeIdeal = sampleIdeal
		analyzeAnswer = sampleAnswer
	}
	if analyzeQuestion == "" || analyzeIdeal == "" || analyzeAnswer == "" {
		return fmt.Errorf("provide --question, --ideal and --answer, or use --sample")
	}

	payload := map[string]interface{}{
		"question_text":     analyzeQuestion,
		"ideal_answer_text": analyzeIdeal,
		"user_answer_text":  analyzeAnswer,
	}
	if qid := optionalQID(analyzeQID); qid != nil {
		payload["qid"] = *qid
	}

	s := newSpinner("Analyzing answer...")
	s.Start()
	raw, err := callAPI("POST", "/api/analyze/freeform", payload)
	s.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeOut != "" {
		if err := os.WriteFile(analyzeOut, raw, 0644); err != nil {
			return fmt.Errorf("cannot write result file: %w", err)
		}
		color.New(color.FgGreen).Printf("✔ raw result written to %s\n", analyzeOut)
	}

	if analyzeJSON {
		return printJSON(raw)
	}

	displayAnalysis(gjson.ParseBytes(raw))
	return nil
}

func displayAnalysis(doc gjson.Result) {

	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	fmt.Println()
	cyan.Println("🔍 Answer Analysis")
	fmt.Println()

	// headline metrics
	green.Println("Metrics")
	printMetricBar("User vs Ideal", doc.Get("similarity.user_vs_ideal").Float())
	printMetricBar("Question vs Ideal", doc.Get("similarity.question_vs_ideal").Float())
	printMetricBar("Answer Score", doc.Get("answer_score").Float())
	fmt.Println()

	cyan.Println("🧩 Misconception")
	printPrediction(doc.Get("misconception"))
	fmt.Println()

	cyan.Println("📊 Difficulty")
	printDifficulty(doc.Get("difficulty"))
	fmt.Println()

	cyan.Println("🧭 Guidance")
	fmt.Printf("  > %s\n", doc.Get("guidance").String())
	fmt.Println()

	cyan.Println("Composition: Match vs Gaps vs Misconception")
	doc.Get("charts.pie").ForEach(func(_, slice gjson.Result) bool {
		printMetricBar(slice.Get("name").String(), slice.Get("value").Float())
		return true
	})
	fmt.Println()

	cyan.Println("Similarity & Difficulty")
	doc.Get("charts.bars").ForEach(func(_, bar gjson.Result) bool {
		printMetricBar(bar.Get("metric").String(), bar.Get("value").Float())
		return true
	})
	fmt.Println()
}

// one text bar per metric, 30 cells for the [0,1] range
func printMetricBar(name string, v float64) {
	cells := int(v * 30)
	if cells < 0 {
		cells = 0
	}
	if cells > 30 {
		cells = 30
	}
	bar := ""
	for i := 0; i < cells; i++ {
		bar += "█"
	}
	fmt.Printf("  %-28s %-30s %.3f\n", name, bar, v)
}
