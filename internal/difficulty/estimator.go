//
// question difficulty estimation from a pre-trained item table.
// the artifact (question_difficulty.csv) holds IRT-style b-parameters
// per question id; known ids map through a logistic squash to a
// normalised [0,1] difficulty, unknown questions fall back to a
// deterministic text-derived estimate.
//
package difficulty

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nsip/otf-analyze/internal/text"
	"github.com/pkg/errors"
)

const itemsFile = "question_difficulty.csv"

// normalised-difficulty bucket boundaries
const (
	easyCeiling   = 1.0 / 3.0
	mediumCeiling = 2.0 / 3.0
)

//
// Estimate is the normalised difficulty for one question.
//
type Estimate struct {
	DifficultyNorm float64 `json:"difficulty_norm"`
	Bucket         string  `json:"bucket"`
	QID            *int    `json:"qid,omitempty"`
}

//
// Estimator maps questions to normalised difficulty values.
// read-only after New; safe for concurrent use.
//
type Estimator struct {
	// b-parameter per known question id
	items map[int]float64
}

//
// create an estimator, loading the item table if present in
// artifactDir. an absent table is not an error - every estimate then
// uses the text fallback and Items reports 0.
//
func New(artifactDir string) (*Estimator, error) {

	e := &Estimator{items: map[int]float64{}}

	path := filepath.Join(artifactDir, itemsFile)
	if _, err := os.Stat(path); err != nil {
		return e, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse item difficulty csv")
	}

	for i, rec := range records {
		qid, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if i == 0 {
				// header row
				continue
			}
			return nil, errors.Errorf("item difficulty row %d: bad qid %q", i+1, rec[0])
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, errors.Errorf("item difficulty row %d: bad difficulty %q", i+1, rec[1])
		}
		e.items[qid] = b
	}

	return e, nil
}

//
// number of items loaded from the artifact table; surfaced by the
// service health endpoint
//
func (e *Estimator) Items() int {
	return len(e.items)
}

//
// Estimate returns the normalised difficulty and bucket for a
// question. deterministic: a known qid always maps to the same value,
// and the text fallback depends only on the question wording.
//
func (e *Estimator) Estimate(questionText string, qid *int) Estimate {

	if qid != nil {
		if b, ok := e.items[*qid]; ok {
			n := text.Round(squash(b), 3)
			return Estimate{DifficultyNorm: n, Bucket: bucket(n), QID: qid}
		}
	}

	n := text.Round(textEstimate(questionText), 3)
	return Estimate{DifficultyNorm: n, Bucket: bucket(n), QID: qid}
}

//
// squash an unbounded IRT b-parameter into [0,1]
//
func squash(b float64) float64 {
	return 1.0 / (1.0 + math.Exp(-b))
}

//
// fallback difficulty from the question wording alone: longer
// questions with longer words read as harder. crude, but stable and
// bounded.
//
func textEstimate(question string) float64 {

	words := strings.Fields(text.Clean(question))
	if len(words) == 0 {
		return 0.5
	}

	var letters int
	for _, w := range words {
		letters += len(w)
	}
	meanLen := float64(letters) / float64(len(words))

	x := 0.05*(float64(len(words))-12.0) + 0.3*(meanLen-4.5)
	return squash(x)
}

func bucket(n float64) string {
	switch {
	case n < easyCeiling:
		return "easy"
	case n < mediumCeiling:
		return "medium"
	default:
		return "hard"
	}
}
