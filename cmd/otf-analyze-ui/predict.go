package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	predictAnswer string
	predictQID    int
	predictSample bool
	predictJSON   bool
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the misconception label for a user answer",
		Long: `Predict the misconception label (and confidence/risk) from the user
answer alone.

Examples:
  # Predict for an answer
  otf-analyze-ui predict --answer "A DFA can have epsilon transitions."

  # Predict with a known question id for out-of-distribution flagging
  otf-analyze-ui predict --answer "..." --qid 42`,
		RunE: runPredict,
	}

	cmd.Flags().StringVarP(&predictAnswer, "answer", "a", "", "the user answer text")
	cmd.Flags().IntVar(&predictQID, "qid", -1, "known question id, if any")
	cmd.Flags().BoolVar(&predictSample, "sample", false, "use the built-in sample answer")
	cmd.Flags().BoolVar(&predictJSON, "json", false, "print the raw JSON response")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {

	if predictSample {
		predictAnswer = sampleAnswer
	}
	if predictAnswer == "" {
		return fmt.Errorf("provide an answer with --answer, or use --sample")
	}

	payload := map[string]interface{}{"user_answer_text": predictAnswer}
	if qid := optionalQID(predictQID); qid != nil {
		payload["qid"] = *qid
	}

	s := newSpinner("Predicting misconception...")
	s.Start()
	raw, err := callAPI("POST", "/api/predict_misconception", payload)
	s.Stop()
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	if predictJSON {
		return printJSON(raw)
	}

	doc := gjson.ParseBytes(raw)
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🧩 Misconception")
	printPrediction(doc)

	return nil
}

func printPrediction(doc gjson.Result) {
	fmt.Printf("  label:       %s\n", doc.Get("label").String())
	fmt.Printf("  confidence:  %.3f\n", doc.Get("confidence").Float())
	fmt.Printf("  risk:        %.3f\n", doc.Get("risk").Float())
	if expl := doc.Get("explanation"); expl.Exists() && expl.String() != "" {
		fmt.Printf("  note:        %s\n", expl.String())
	}
}
