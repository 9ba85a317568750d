package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nsip/otf-analyze/internal/util"
)

// canonical sample inputs, for quick demos against a running backend
const (
	sampleQuestion = "Explain photosynthesis and its importance."
	sampleIdeal    = "Photosynthesis converts light energy into chemical energy, producing glucose and oxygen; it's vital for energy flow and atmospheric oxygen."
	sampleAnswer   = "Plants breathe in sunlight and make food; they also give air."
)

//
// call the backend and return the raw response payload
//
func callAPI(method, path string, payload interface{}) ([]byte, error) {

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(b)
	}

	url := strings.TrimRight(backendURL, "/") + path
	return util.Fetch(method, url, headers, body)
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return s
}

//
// parse an optional qid flag; negative means not supplied
//
func optionalQID(qid int) *int {
	if qid < 0 {
		return nil
	}
	return &qid
}

func printJSON(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}
