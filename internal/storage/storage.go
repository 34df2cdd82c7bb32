// Package storage abstracts where raw document bytes live. The backend is
// picked once at construction time from configuration; callers never branch
// on which implementation is active.
package storage

import (
	"context"
	"io"
)

// FileInfo describes one stored document.
type FileInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// Backend persists raw document bytes under a key (the original filename).
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	GetStream(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]FileInfo, error)
}
