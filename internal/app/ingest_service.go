package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"docrag/internal/chunker"
	"docrag/internal/docid"
	"docrag/internal/event"
	"docrag/internal/extract"
	"docrag/internal/index"
)

// VectorStore is the slice of the vector store client the pipelines consume.
type VectorStore interface {
	Upsert(ctx context.Context, id, text string, meta index.Metadata) error
	Query(ctx context.Context, text string, topK int) ([]index.Match, error)
	ListIDsByDocument(ctx context.Context, baseID string) ([]string, error)
	Delete(ctx context.Context, ids []string) error
}

// EventPublisher emits document lifecycle events; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, evt event.DocumentEvent) error
}

// IngestService runs the extract -> chunk -> identify -> upsert pipeline and
// its inverse.
type IngestService struct {
	store     VectorStore
	events    EventPublisher
	chunkSize int
	overlap   int
}

func NewIngestService(store VectorStore, events EventPublisher) *IngestService {
	return &IngestService{
		store:     store,
		events:    events,
		chunkSize: chunker.DefaultChunkSize,
		overlap:   chunker.DefaultOverlap,
	}
}

// Ingest extracts, chunks, and upserts one document, returning the number of
// chunks written by this call. Extraction and chunking fail before any index
// write. Per-chunk upserts are independent: a failure partway through leaves
// earlier chunks committed, and the caller cleans up with Remove before
// retrying.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (int, error) {
	text, err := extract.Text(filename, data)
	if err != nil {
		return 0, err
	}

	chunks, err := chunker.Split(text, s.chunkSize, s.overlap)
	if err != nil {
		return 0, err
	}

	baseID := docid.BaseID(filename)
	total := len(chunks)
	for i, chunk := range chunks {
		meta := index.Metadata{
			Filename:    filename,
			ChunkIndex:  i,
			TotalChunks: total,
		}
		if err := s.store.Upsert(ctx, docid.ChunkID(baseID, i), chunk, meta); err != nil {
			return 0, &ProviderError{
				Op:  fmt.Sprintf("upsert chunk %d of %q", i, filename),
				Err: err,
			}
		}
	}

	s.publish(ctx, event.DocumentEvent{
		Filename:   filename,
		Action:     event.ActionIngested,
		Chunks:     total,
		OccurredAt: time.Now().UTC(),
	})
	return total, nil
}

// Remove deletes every chunk stored for the filename and returns how many
// were removed. Removing an unknown or already-removed document returns 0
// without error.
func (s *IngestService) Remove(ctx context.Context, filename string) (int, error) {
	baseID := docid.BaseID(filename)

	ids, err := s.store.ListIDsByDocument(ctx, baseID)
	if err != nil {
		return 0, &ProviderError{Op: "list chunk ids for " + filename, Err: err}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.store.Delete(ctx, ids); err != nil {
		return 0, &ProviderError{Op: "delete chunks of " + filename, Err: err}
	}

	s.publish(ctx, event.DocumentEvent{
		Filename:   filename,
		Action:     event.ActionDeleted,
		Chunks:     len(ids),
		OccurredAt: time.Now().UTC(),
	})
	return len(ids), nil
}

// publish is fire-and-forget: event delivery must never fail an ingest or
// delete that already succeeded.
func (s *IngestService) publish(ctx context.Context, evt event.DocumentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		log.Printf("publish document event failed: %v", err)
	}
}
