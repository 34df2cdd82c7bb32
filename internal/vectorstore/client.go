// Package vectorstore couples an embedding provider with a vector index
// provider behind the embed-and-upsert / query / list / delete contract the
// pipelines consume.
package vectorstore

import (
	"context"

	"docrag/internal/docid"
	"docrag/internal/index"
)

// Embedder turns text into a fixed-dimension vector. The dimension must match
// the index's configured dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Client struct {
	embedder Embedder
	index    index.Provider
}

func New(embedder Embedder, provider index.Provider) *Client {
	return &Client{embedder: embedder, index: provider}
}

// Upsert embeds text, folds the text into the metadata blob, and writes a
// single record, replacing any record with the same id. Provider errors
// propagate unmodified; retries belong to the provider clients.
func (c *Client) Upsert(ctx context.Context, id, text string, meta index.Metadata) error {
	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	meta.Text = text
	return c.index.Upsert(ctx, index.Record{ID: id, Vector: vector, Metadata: meta})
}

// Query embeds the text and returns up to topK matches in descending score
// order, each carrying its full metadata.
func (c *Client) Query(ctx context.Context, text string, topK int) ([]index.Match, error) {
	vector, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return c.index.Query(ctx, vector, topK)
}

// ListIDsByDocument enumerates the ids of every chunk currently stored for
// the document.
func (c *Client) ListIDsByDocument(ctx context.Context, baseID string) ([]string, error) {
	return c.index.ListIDs(ctx, docid.ChunkPrefix(baseID))
}

// Delete removes the given ids. An empty set is a no-op success.
func (c *Client) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.index.Delete(ctx, ids)
}

// Stats reports the backing index contents.
func (c *Client) Stats(ctx context.Context) (index.Stats, error) {
	return c.index.Stats(ctx)
}
