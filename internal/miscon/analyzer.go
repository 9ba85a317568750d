//
// misconception analysis for free-text answers.
// an Analyzer pairs the shared sentence encoder with two optional
// artifacts loaded once at startup: a classifier (misconception_clf.json)
// and a per-question reference of valid cluster labels
// (cluster_labels.csv). missing artifacts degrade prediction quality
// rather than failing startup.
//
package miscon

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nsip/otf-analyze/internal/text"
	"github.com/pkg/errors"
)

// artifact file names within the configured artifact directory
const (
	clfFile    = "misconception_clf.json"
	labelsFile = "cluster_labels.csv"
)

//
// label substrings that mark a prediction as misconception-like;
// kept as one table so the risk rule stays auditable
//
var riskKeywords = []string{"miscon", "error", "wrong", "confuse", "noise"}

//
// formal-language terms in a label that warrant an explicit
// contrast-the-concepts guidance tip
//
var guidanceKeywords = []string{"epsilon", "ε", "dfa", "nfa", "regex", "star", "union", "concat", "equiv"}

// guidance tips, concatenated in order with single spaces
const (
	tipOpening    = "Start by restating the key term from the question in one line."
	tipDefinition = "Add a precise definition and one verifying example."
	tipContrast   = "Address the specific confusion noted in the label; contrast the two concepts explicitly."
	tipClosing    = "Finish with a short check: why your answer satisfies the definition or rule."
)

// similarity below this threshold triggers the definition tip
const lowSimilarity = 0.65

//
// Prediction is the outcome of classifying one user answer.
//
type Prediction struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Risk        float64 `json:"risk"`
	Explanation string  `json:"explanation,omitempty"`
}

//
// Analyzer predicts misconception labels for user answers and
// generates deterministic guidance text. read-only after New; safe
// for concurrent use.
//
type Analyzer struct {
	enc text.Encoder
	clf *classifier
	// valid cluster labels per question id, for out-of-distribution flagging
	labelRef map[int][]string
}

//
// create an analyzer, loading whatever artifacts are present in
// artifactDir. absent files are not errors; malformed ones are.
//
func New(artifactDir string, enc text.Encoder) (*Analyzer, error) {

	a := &Analyzer{
		enc:      enc,
		labelRef: map[int][]string{},
	}

	clfPath := filepath.Join(artifactDir, clfFile)
	if _, err := os.Stat(clfPath); err == nil {
		clf, err := loadClassifier(clfPath)
		if err != nil {
			return nil, errors.Wrap(err, "cannot load classifier artifact")
		}
		a.clf = clf
	}

	lblPath := filepath.Join(artifactDir, labelsFile)
	if _, err := os.Stat(lblPath); err == nil {
		ref, err := loadLabelReference(lblPath)
		if err != nil {
			return nil, errors.Wrap(err, "cannot load label reference artifact")
		}
		a.labelRef = ref
	}

	return a, nil
}

//
// reports whether a classifier artifact was found at startup;
// surfaced by the service health endpoint
//
func (a *Analyzer) Loaded() bool {
	return a.clf != nil
}

//
// cosine similarity of two texts via the shared encoder
//
func (a *Analyzer) Similarity(ctx context.Context, x, y string) (float64, error) {
	return text.Similarity(ctx, a.enc, x, y)
}

//
// Predict classifies a user answer into a misconception label with a
// confidence and a heuristic risk score.
//
// with no classifier artifact the result is a fixed fallback - an
// explicit degraded mode, not an error. when a question id is given
// and reference labels are known for it, a predicted label outside
// that set is suffixed as unseen and its risk floored at 0.5.
//
func (a *Analyzer) Predict(ctx context.Context, userAnswer string, qid *int) (Prediction, error) {

	vecs, err := a.enc.Embed(ctx, []string{text.Clean(userAnswer)})
	if err != nil {
		return Prediction{}, errors.Wrap(err, "cannot embed user answer")
	}
	vec := vecs[0]

	if a.clf == nil {
		return Prediction{
			Label:       "unknown",
			Confidence:  0.5,
			Risk:        0.4,
			Explanation: "No classifier artifact found.",
		}, nil
	}

	var label string
	var conf float64
	if probs, ok := a.clf.probabilities(vec); ok {
		idx := argmax(probs)
		label = a.clf.classes[idx]
		conf = probs[idx]
	} else {
		// hard prediction only, fixed confidence
		label = a.clf.hardLabel(vec)
		conf = 0.6
	}

	risk := 0.2
	lower := strings.ToLower(label)
	for _, k := range riskKeywords {
		if strings.Contains(lower, k) {
			risk = math.Max(0.4, 1.0-conf+0.4)
			break
		}
	}

	if qid != nil {
		if ref, ok := a.labelRef[*qid]; ok && !member(ref, label) {
			label = label + " (unseen@qid)"
			risk = math.Max(risk, 0.5)
		}
	}

	return Prediction{
		Label:      label,
		Confidence: text.Round(conf, 3),
		Risk:       text.Round(risk, 3),
	}, nil
}

//
// SuggestGuidance builds a concise, deterministic guidance string for
// the student - no learned component. always opens and closes with
// fixed tips; adds a definition tip when the user answer sits far from
// the ideal, and a contrast tip when the misconception label names a
// formal-language concept.
//
func (a *Analyzer) SuggestGuidance(ctx context.Context, question, ideal, user, misLabel string) (string, error) {

	simUI, err := a.Similarity(ctx, user, ideal)
	if err != nil {
		return "", err
	}

	tips := []string{tipOpening}
	if simUI < lowSimilarity {
		tips = append(tips, tipDefinition)
	}
	lower := strings.ToLower(misLabel)
	for _, k := range guidanceKeywords {
		if strings.Contains(lower, k) {
			tips = append(tips, tipContrast)
			break
		}
	}
	tips = append(tips, tipClosing)

	return strings.Join(tips, " "), nil
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

func member(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

//
// read the label reference csv (qid,label rows, optional header) into
// a qid -> sorted unique label set map
//
func loadLabelReference(path string) (map[int][]string, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse label reference csv")
	}

	sets := map[int]map[string]struct{}{}
	for i, rec := range records {
		qid, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if i == 0 {
				// header row
				continue
			}
			return nil, errors.Errorf("label reference row %d: bad qid %q", i+1, rec[0])
		}
		label := strings.TrimSpace(rec[1])
		if label == "" {
			continue
		}
		if sets[qid] == nil {
			sets[qid] = map[string]struct{}{}
		}
		sets[qid][label] = struct{}{}
	}

	ref := make(map[int][]string, len(sets))
	for qid, set := range sets {
		labels := make([]string, 0, len(set))
		for l := range set {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		ref[qid] = labels
	}

	return ref, nil
}
