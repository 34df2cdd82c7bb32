package docid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseIDDeterministic(t *testing.T) {
	a := BaseID("report.pdf")
	b := BaseID("report.pdf")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32) // md5 hex digest
}

func TestBaseIDDistinctFilenames(t *testing.T) {
	assert.NotEqual(t, BaseID("a.pdf"), BaseID("b.pdf"))
}

func TestChunkID(t *testing.T) {
	base := BaseID("report.pdf")
	assert.Equal(t, base+"_0", ChunkID(base, 0))
	assert.Equal(t, base+"_12", ChunkID(base, 12))
}

func TestChunkPrefixMatchesChunkIDs(t *testing.T) {
	base := BaseID("report.pdf")
	prefix := ChunkPrefix(base)
	for i := 0; i < 5; i++ {
		id := ChunkID(base, i)
		assert.Equal(t, prefix, id[:len(prefix)])
	}
}
