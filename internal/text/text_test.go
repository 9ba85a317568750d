package text

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "a b c", Clean("  a\t b \n c  "))
	assert.Equal(t, "", Clean("   \n\t "))
	assert.Equal(t, "unchanged", Clean("unchanged"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.8, Round(0.65*0.8+0.35*0.8, 3))
	assert.Equal(t, 0.1235, Round(0.12345, 4))
	assert.Equal(t, 1.0, Round(0.99999, 3))
}

func TestCosineClamped(t *testing.T) {
	// drift past unit length must still clamp into [-1,1]
	a := []float32{1.2, 0}
	assert.Equal(t, 1.0, Cosine(a, a))
	assert.Equal(t, -1.0, Cosine([]float32{1.2, 0}, []float32{-1.2, 0}))
}

func TestHashEncoderDeterministicUnitVectors(t *testing.T) {

	enc := HashEncoder{}
	vecs, err := enc.Embed(context.Background(), []string{"plants make food", "plants make food", "totally different words here"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for _, v := range vecs {
		assert.Len(t, v, Width)
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}

	assert.Equal(t, vecs[0], vecs[1])
}

func TestSimilaritySelfIsOne(t *testing.T) {

	enc := HashEncoder{}
	for _, s := range []string{"a", "Explain photosynthesis.", "the pumping heart moves   blood"} {
		sim, err := Similarity(context.Background(), enc, s, s)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	}
}

func TestSimilaritySymmetric(t *testing.T) {

	enc := HashEncoder{}
	ab, err := Similarity(context.Background(), enc, "plants make food from sunlight", "plants convert light into energy")
	require.NoError(t, err)
	ba, err := Similarity(context.Background(), enc, "plants convert light into energy", "plants make food from sunlight")
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
}

func TestSimilarityWithinRange(t *testing.T) {

	enc := HashEncoder{}
	pairs := [][2]string{
		{"completely unrelated", "nothing shared at all"},
		{"same same", "same same"},
		{"", "empty against text"},
	}
	for _, p := range pairs {
		sim, err := Similarity(context.Background(), enc, p[0], p[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sim, -1.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestSimilarityIgnoresWhitespaceShape(t *testing.T) {

	enc := HashEncoder{}
	sim, err := Similarity(context.Background(), enc, "plants  make\tfood", "plants make food")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestNormalizeZeroVectorUntouched(t *testing.T) {
	v := make([]float32, 4)
	normalize(v)
	for _, x := range v {
		assert.False(t, math.IsNaN(float64(x)))
		assert.Equal(t, float32(0), x)
	}
}
