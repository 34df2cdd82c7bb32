package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/index"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "pc-key", IndexHost: server.URL})
}

func TestUpsertRequestShape(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/upsert", r.URL.Path)
		require.Equal(t, "pc-key", r.Header.Get("Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"upsertedCount":1}`))
	})

	err := client.Upsert(context.Background(), index.Record{
		ID:     "abc_0",
		Vector: []float32{0.5, 0.6},
		Metadata: index.Metadata{
			Filename:    "report.pdf",
			ChunkIndex:  0,
			TotalChunks: 2,
			Text:        "chunk body",
		},
	})
	require.NoError(t, err)

	vectors := gotBody["vectors"].([]any)
	require.Len(t, vectors, 1)
	vec := vectors[0].(map[string]any)
	assert.Equal(t, "abc_0", vec["id"])
	meta := vec["metadata"].(map[string]any)
	assert.Equal(t, "report.pdf", meta["filename"])
	assert.Equal(t, "chunk body", meta["text"])
}

func TestQueryParsesMatches(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["topK"])
		assert.Equal(t, true, body["includeMetadata"])
		_, _ = w.Write([]byte(`{"matches":[
			{"id":"a_0","score":0.91,"metadata":{"filename":"a.pdf","chunk_index":0,"total_chunks":2,"text":"first"}},
			{"id":"a_1","score":0.72,"metadata":{"filename":"a.pdf","chunk_index":1,"total_chunks":2,"text":"second"}}
		]}`))
	})

	matches, err := client.Query(context.Background(), []float32{0.1}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a_0", matches[0].ID)
	assert.Equal(t, 0.91, matches[0].Score)
	assert.Equal(t, "first", matches[0].Metadata.Text)
	assert.Equal(t, 1, matches[1].Metadata.ChunkIndex)
}

func TestListIDsFollowsPagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/list", r.URL.Path)
		assert.Equal(t, "base_", r.URL.Query().Get("prefix"))
		calls++
		if calls == 1 {
			assert.Empty(t, r.URL.Query().Get("paginationToken"))
			_, _ = w.Write([]byte(`{"vectors":[{"id":"base_0"},{"id":"base_1"}],"pagination":{"next":"tok-1"}}`))
			return
		}
		assert.Equal(t, "tok-1", r.URL.Query().Get("paginationToken"))
		_, _ = w.Write([]byte(`{"vectors":[{"id":"base_2"}]}`))
	})

	ids, err := client.ListIDs(context.Background(), "base_")
	require.NoError(t, err)
	assert.Equal(t, []string{"base_0", "base_1", "base_2"}, ids)
	assert.Equal(t, 2, calls)
}

func TestDeleteSendsIDs(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.Delete(context.Background(), []string{"a_0", "a_1"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a_0", "a_1"}, gotBody["ids"])
}

func TestDeleteEmptySetSkipsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty id set")
	})

	assert.NoError(t, client.Delete(context.Background(), nil))
}

func TestStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/describe_index_stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"totalVectorCount":42,"dimension":1536}`))
	})

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.VectorCount)
	assert.Equal(t, 1536, stats.Dimension)
}

func TestErrorStatusPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`index busy`))
	})

	err := client.Upsert(context.Background(), index.Record{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "index busy")
}
