// Package mysqlindex backs the vector index contract with a MySQL table.
// Embeddings are stored as JSON arrays of float32 for portability and ranked
// by cosine similarity in process; fine for small corpora, swap in a real
// vector index once the table stops fitting in memory.
package mysqlindex

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docrag/internal/index"
)

// VectorRecord is one stored chunk vector.
type VectorRecord struct {
	ID          string `gorm:"primaryKey;size:64"`
	Filename    string `gorm:"size:256;index"`
	ChunkIndex  int    `gorm:"not null"`
	TotalChunks int    `gorm:"not null"`
	Text        string `gorm:"type:text;not null"`
	Embedding   string `gorm:"type:mediumtext"` // JSON array of float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Store struct {
	db *gorm.DB
}

var _ index.Provider = (*Store)(nil)

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&VectorRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate vector records failed: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Upsert(ctx context.Context, rec index.Record) error {
	embedding, err := json.Marshal(rec.Vector)
	if err != nil {
		return fmt.Errorf("marshal embedding failed: %w", err)
	}
	row := VectorRecord{
		ID:          rec.ID,
		Filename:    rec.Metadata.Filename,
		ChunkIndex:  rec.Metadata.ChunkIndex,
		TotalChunks: rec.Metadata.TotalChunks,
		Text:        rec.Metadata.Text,
		Embedding:   string(embedding),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert vector record failed: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	var rows []VectorRecord
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load vector records failed: %w", err)
	}

	matches := make([]index.Match, 0, len(rows))
	for i := range rows {
		var stored []float32
		if err := json.Unmarshal([]byte(rows[i].Embedding), &stored); err != nil {
			continue
		}
		matches = append(matches, index.Match{
			ID:    rows[i].ID,
			Score: cosineSimilarity(vector, stored),
			Metadata: index.Metadata{
				Filename:    rows[i].Filename,
				ChunkIndex:  rows[i].ChunkIndex,
				TotalChunks: rows[i].TotalChunks,
				Text:        rows[i].Text,
			},
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Store) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&VectorRecord{}).
		Where("id LIKE ?", escapeLike(prefix)+"%").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list vector ids failed: %w", err)
	}
	return ids, nil
}

func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&VectorRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete vector records failed: %w", err)
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (index.Stats, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&VectorRecord{}).Count(&count).Error; err != nil {
		return index.Stats{}, fmt.Errorf("count vector records failed: %w", err)
	}

	stats := index.Stats{VectorCount: int(count)}
	if count > 0 {
		var first VectorRecord
		if err := s.db.WithContext(ctx).First(&first).Error; err == nil {
			var vec []float32
			if json.Unmarshal([]byte(first.Embedding), &vec) == nil {
				stats.Dimension = len(vec)
			}
		}
	}
	return stats, nil
}

// escapeLike escapes LIKE metacharacters so the chunk-id prefix matches
// literally; "_" separates base id from chunk index and is a wildcard in SQL.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (sqrt(normA) * sqrt(normB))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	t := x
	for i := 0; i < 20; i++ {
		next := 0.5 * (t + x/t)
		if next == t {
			return t
		}
		t = next
	}
	return t
}
