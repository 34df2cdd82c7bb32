// Package index defines the contract every vector index provider fulfils.
package index

import "context"

// Metadata is the blob stored alongside each vector. Text carries the
// verbatim chunk content so retrieval needs no second lookup.
type Metadata struct {
	Filename    string `json:"filename"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	Text        string `json:"text"`
}

// Record is one stored vector with its metadata.
type Record struct {
	ID       string
	Vector   []float32
	Metadata Metadata
}

// Match is one similarity-query hit. Score is in the provider's own range.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// Stats describes the index contents.
type Stats struct {
	VectorCount int `json:"vector_count"`
	Dimension   int `json:"dimension"`
}

// Provider abstracts the backing similarity-search index. Implementations
// must replace same-id records on Upsert and return query matches in
// descending score order. Errors propagate unmodified; retries belong to the
// provider client's own configuration.
type Provider interface {
	Upsert(ctx context.Context, rec Record) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, ids []string) error
	Stats(ctx context.Context) (Stats, error)
}
