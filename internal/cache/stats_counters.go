package cache

import (
	"context"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"
)

const (
	keyDocumentsIngested = "stats:documents_ingested"
	keyDocumentsDeleted  = "stats:documents_deleted"
	keyChunksCreated     = "stats:chunks_created"
	keyChunksDeleted     = "stats:chunks_deleted"
)

// Counters is a snapshot of the ingest/delete counters.
type Counters struct {
	DocumentsIngested int64 `json:"documents_ingested"`
	DocumentsDeleted  int64 `json:"documents_deleted"`
	ChunksCreated     int64 `json:"chunks_created"`
	ChunksDeleted     int64 `json:"chunks_deleted"`
}

// StatsCounters keeps running ingest/delete totals in Redis. They are
// advisory display numbers fed by the document-event worker, not a source of
// truth; the vector index owns the real record counts.
type StatsCounters struct {
	client *redisv9.Client
}

func NewStatsCounters(client *redisv9.Client) *StatsCounters {
	return &StatsCounters{client: client}
}

func (s *StatsCounters) RecordIngest(ctx context.Context, chunks int) error {
	if err := s.client.Incr(ctx, keyDocumentsIngested).Err(); err != nil {
		return fmt.Errorf("incr documents ingested failed: %w", err)
	}
	if err := s.client.IncrBy(ctx, keyChunksCreated, int64(chunks)).Err(); err != nil {
		return fmt.Errorf("incr chunks created failed: %w", err)
	}
	return nil
}

func (s *StatsCounters) RecordDelete(ctx context.Context, chunks int) error {
	if err := s.client.Incr(ctx, keyDocumentsDeleted).Err(); err != nil {
		return fmt.Errorf("incr documents deleted failed: %w", err)
	}
	if err := s.client.IncrBy(ctx, keyChunksDeleted, int64(chunks)).Err(); err != nil {
		return fmt.Errorf("incr chunks deleted failed: %w", err)
	}
	return nil
}

func (s *StatsCounters) Snapshot(ctx context.Context) (Counters, error) {
	var out Counters
	fields := []struct {
		key  string
		dest *int64
	}{
		{keyDocumentsIngested, &out.DocumentsIngested},
		{keyDocumentsDeleted, &out.DocumentsDeleted},
		{keyChunksCreated, &out.ChunksCreated},
		{keyChunksDeleted, &out.ChunksDeleted},
	}
	for _, f := range fields {
		val, err := s.client.Get(ctx, f.key).Int64()
		if err == redisv9.Nil {
			continue
		}
		if err != nil {
			return Counters{}, fmt.Errorf("read counter %s failed: %w", f.key, err)
		}
		*f.dest = val
	}
	return out, nil
}
