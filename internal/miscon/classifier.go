package miscon

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

//
// classifier is a pre-trained linear misconception classifier
// deserialised from json. two artifact shapes are supported:
//
//   probabilistic: {"classes": [...], "weights": [[...],...], "intercepts": [...]}
//     - logits per class, softmax probabilities
//   hard-only:     {"classes": [...], "centroids": [[...],...]}
//     - nearest centroid by cosine, no probabilities
//
type classifier struct {
	classes    []string
	weights    [][]float32
	intercepts []float64
	centroids  [][]float32
}

func loadClassifier(path string) (*classifier, error) {

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(raw)

	classes := doc.Get("classes")
	if !classes.Exists() || !classes.IsArray() {
		return nil, errors.New("classifier artifact has no classes array")
	}

	clf := &classifier{}
	for _, c := range classes.Array() {
		clf.classes = append(clf.classes, c.String())
	}
	if len(clf.classes) == 0 {
		return nil, errors.New("classifier artifact has an empty classes array")
	}

	switch {
	case doc.Get("weights").Exists():
		clf.weights = matrix(doc.Get("weights"))
		for _, b := range doc.Get("intercepts").Array() {
			clf.intercepts = append(clf.intercepts, b.Float())
		}
		if len(clf.weights) != len(clf.classes) {
			return nil, errors.Errorf("classifier artifact has %d weight rows for %d classes",
				len(clf.weights), len(clf.classes))
		}
	case doc.Get("centroids").Exists():
		clf.centroids = matrix(doc.Get("centroids"))
		if len(clf.centroids) != len(clf.classes) {
			return nil, errors.Errorf("classifier artifact has %d centroids for %d classes",
				len(clf.centroids), len(clf.classes))
		}
	default:
		return nil, errors.New("classifier artifact has neither weights nor centroids")
	}

	return clf, nil
}

func matrix(res gjson.Result) [][]float32 {
	var m [][]float32
	for _, row := range res.Array() {
		var r []float32
		for _, v := range row.Array() {
			r = append(r, float32(v.Float()))
		}
		m = append(m, r)
	}
	return m
}

//
// class probabilities for an embedding vector; ok is false when the
// artifact cannot produce probabilities (centroid-only shape)
//
func (c *classifier) probabilities(vec []float32) ([]float64, bool) {

	if len(c.weights) == 0 {
		return nil, false
	}

	logits := make([]float64, len(c.weights))
	for i, row := range c.weights {
		logits[i] = dot(row, vec)
		if i < len(c.intercepts) {
			logits[i] += c.intercepts[i]
		}
	}

	// softmax, shifted for stability
	max := logits[argmax(logits)]
	var sum float64
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(l - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs, true
}

//
// hard class prediction without probabilities
//
func (c *classifier) hardLabel(vec []float32) string {

	scores := make([]float64, len(c.classes))
	rows := c.centroids
	if len(rows) == 0 {
		rows = c.weights
	}
	for i, row := range rows {
		scores[i] = dot(row, vec)
	}

	return c.classes[argmax(scores)]
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
