package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend service health and artifact status",
		RunE:  runHealth,
	}
}

func runHealth(cmd *cobra.Command, args []string) error {

	s := newSpinner("Pinging backend...")
	s.Start()
	raw, err := callAPI("GET", "/health", nil)
	s.Stop()
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	doc := gjson.ParseBytes(raw)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	if doc.Get("ok").Bool() {
		green.Println("✔ backend is up")
	} else {
		yellow.Println("✘ backend reports not ok")
	}
	fmt.Printf("  artifacts loaded:  %v\n", doc.Get("artifacts").Bool())
	fmt.Printf("  difficulty items:  %d\n", doc.Get("difficulty_items").Int())

	return nil
}
