//
// text embedding and similarity primitives shared by the
// misconception analyzer and the analysis service.
//
package text

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
)

//
// Width is the embedding dimension produced by the default
// sentence encoder (all-MiniLM-L6-v2 family).
//
const Width = 384

//
// Encoder turns a batch of texts into fixed-width, L2-normalised
// vectors. Implementations must be safe for concurrent use; the
// service shares a single instance across all request handling.
//
type Encoder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

//
// collapse runs of whitespace and trim the ends
//
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

//
// cosine similarity of two unit vectors; the dot product,
// clamped to [-1,1] to absorb float drift
//
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return math.Max(-1.0, math.Min(1.0, dot))
}

//
// Similarity embeds both texts in a single batched encoder call and
// returns their cosine similarity rounded to 4 decimals.
// deterministic for a fixed encoder.
//
func Similarity(ctx context.Context, enc Encoder, a, b string) (float64, error) {

	vecs, err := enc.Embed(ctx, []string{Clean(a), Clean(b)})
	if err != nil {
		return 0, errors.Wrap(err, "cannot embed texts for similarity")
	}
	if len(vecs) != 2 {
		return 0, errors.Errorf("encoder returned %d vectors, expected 2", len(vecs))
	}

	return Round(Cosine(vecs[0], vecs[1]), 4), nil
}

//
// round to the given number of decimal places
//
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

//
// scale a vector to unit length in place; zero vectors are left as-is
//
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	n := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= n
	}
}
