package mysqlindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	// scale invariant
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, cosineSimilarity(nil, nil))
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `abc123\_`, escapeLike("abc123_"))
	assert.Equal(t, `50\%\_x`, escapeLike("50%_x"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestSqrt(t *testing.T) {
	assert.InDelta(t, 3.0, sqrt(9), 1e-9)
	assert.InDelta(t, 1.4142135, sqrt(2), 1e-6)
	assert.Zero(t, sqrt(0))
	assert.Zero(t, sqrt(-4))
}
