package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Embedder matches the embedding side of the vector store client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache fronts an embedding provider with Redis. Repeated texts
// (identical chunks on re-upload, repeated queries) skip the provider call.
// Cache failures are logged and fall through to the provider; they never
// surface to the caller.
type EmbeddingCache struct {
	client   *redisv9.Client
	embedder Embedder
	model    string
	ttl      time.Duration
}

func NewEmbeddingCache(client *redisv9.Client, embedder Embedder, model string, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EmbeddingCache{
		client:   client,
		embedder: embedder,
		model:    model,
		ttl:      ttl,
	}
}

func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var vec []float32
		if jsonErr := json.Unmarshal([]byte(raw), &vec); jsonErr == nil && len(vec) > 0 {
			return vec, nil
		}
	} else if err != redisv9.Nil {
		log.Printf("embedding cache get failed: %v", err)
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(vec); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			log.Printf("embedding cache set failed: %v", setErr)
		}
	}
	return vec, nil
}

// key hashes (model, text) so a model switch never serves stale vectors.
func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return fmt.Sprintf("embedding:%s:%s", c.model, hex.EncodeToString(sum[:]))
}
