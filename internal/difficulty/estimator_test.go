package difficulty

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeItems(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "question_difficulty.csv"), []byte(contents), 0644))
}

func TestNewWithoutArtifact(t *testing.T) {

	e, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, e.Items())

	est := e.Estimate("Explain photosynthesis.", nil)
	assert.GreaterOrEqual(t, est.DifficultyNorm, 0.0)
	assert.LessOrEqual(t, est.DifficultyNorm, 1.0)
	assert.Contains(t, []string{"easy", "medium", "hard"}, est.Bucket)
	assert.Nil(t, est.QID)
}

func TestEstimateKnownItems(t *testing.T) {

	dir := t.TempDir()
	writeItems(t, dir, "qid,difficulty\n1,-2.0\n2,0.0\n3,3.0\n")

	e, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Items())

	cases := []struct {
		qid    int
		norm   float64
		bucket string
	}{
		{1, 0.119, "easy"},
		{2, 0.5, "medium"},
		{3, 0.953, "hard"},
	}
	for _, c := range cases {
		qid := c.qid
		est := e.Estimate("ignored when the qid is known", &qid)
		assert.Equal(t, c.norm, est.DifficultyNorm, "qid %d", c.qid)
		assert.Equal(t, c.bucket, est.Bucket, "qid %d", c.qid)
		require.NotNil(t, est.QID)
		assert.Equal(t, c.qid, *est.QID)
	}
}

func TestEstimateUnknownQIDFallsBackToText(t *testing.T) {

	dir := t.TempDir()
	writeItems(t, dir, "qid,difficulty\n1,0.5\n")

	e, err := New(dir)
	require.NoError(t, err)

	qid := 42
	est := e.Estimate("Explain photosynthesis.", &qid)
	noID := e.Estimate("Explain photosynthesis.", nil)

	assert.Equal(t, noID.DifficultyNorm, est.DifficultyNorm)
	require.NotNil(t, est.QID)
	assert.Equal(t, 42, *est.QID)
}

func TestEstimateDeterministic(t *testing.T) {

	e, err := New(t.TempDir())
	require.NoError(t, err)

	first := e.Estimate("Describe the pumping cycle of the human heart.", nil)
	for i := 0; i < 5; i++ {
		again := e.Estimate("Describe the pumping cycle of the human heart.", nil)
		assert.Equal(t, first, again)
	}
}

func TestEstimateEmptyQuestion(t *testing.T) {

	e, err := New(t.TempDir())
	require.NoError(t, err)

	est := e.Estimate("   ", nil)
	assert.Equal(t, 0.5, est.DifficultyNorm)
	assert.Equal(t, "medium", est.Bucket)
}

func TestNewRejectsMalformedTable(t *testing.T) {

	dir := t.TempDir()
	writeItems(t, dir, "qid,difficulty\n1,not-a-number\n")

	_, err := New(dir)
	assert.Error(t, err)
}
