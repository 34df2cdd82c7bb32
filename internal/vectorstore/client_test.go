package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/docid"
	"docrag/internal/index"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	return f.vector, f.err
}

type fakeIndex struct {
	upserts  []index.Record
	matches  []index.Match
	listed   []string
	deleted  [][]string
	queryErr error
}

func (f *fakeIndex) Upsert(ctx context.Context, rec index.Record) error {
	f.upserts = append(f.upserts, rec)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if topK < len(f.matches) {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

func (f *fakeIndex) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return f.listed, nil
}

func (f *fakeIndex) Delete(ctx context.Context, ids []string) error {
	f.deleted = append(f.deleted, ids)
	return nil
}

func (f *fakeIndex) Stats(ctx context.Context) (index.Stats, error) {
	return index.Stats{VectorCount: len(f.upserts)}, nil
}

func TestUpsertAttachesTextToMetadata(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	idx := &fakeIndex{}
	client := New(embedder, idx)

	err := client.Upsert(context.Background(), "abc_0", "chunk text", index.Metadata{
		Filename:    "report.pdf",
		ChunkIndex:  0,
		TotalChunks: 3,
	})
	require.NoError(t, err)

	require.Len(t, idx.upserts, 1)
	rec := idx.upserts[0]
	assert.Equal(t, "abc_0", rec.ID)
	assert.Equal(t, []float32{0.1, 0.2}, rec.Vector)
	assert.Equal(t, "chunk text", rec.Metadata.Text)
	assert.Equal(t, "report.pdf", rec.Metadata.Filename)
	assert.Equal(t, 3, rec.Metadata.TotalChunks)
}

func TestUpsertEmbedErrorPropagates(t *testing.T) {
	wantErr := errors.New("embedding provider down")
	client := New(&fakeEmbedder{err: wantErr}, &fakeIndex{})

	err := client.Upsert(context.Background(), "id", "text", index.Metadata{})
	assert.ErrorIs(t, err, wantErr)
	// nothing written on embed failure
}

func TestQueryEmbedsTheQueryText(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1}}
	idx := &fakeIndex{matches: []index.Match{{ID: "a_0", Score: 0.9}}}
	client := New(embedder, idx)

	matches, err := client.Query(context.Background(), "what is the deadline", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"what is the deadline"}, embedder.calls)
}

func TestDeleteEmptySetIsNoOp(t *testing.T) {
	idx := &fakeIndex{}
	client := New(&fakeEmbedder{}, idx)

	require.NoError(t, client.Delete(context.Background(), nil))
	require.NoError(t, client.Delete(context.Background(), []string{}))
	assert.Empty(t, idx.deleted)
}

func TestListIDsByDocumentUsesChunkPrefix(t *testing.T) {
	base := docid.BaseID("report.pdf")
	idx := &fakeIndex{listed: []string{base + "_0", base + "_1"}}
	client := New(&fakeEmbedder{}, idx)

	ids, err := client.ListIDsByDocument(context.Background(), base)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
