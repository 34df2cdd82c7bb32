// Package local stores documents as plain files under an uploads directory.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docrag/internal/storage"
)

type Backend struct {
	root string
}

var _ storage.Backend = (*Backend)(nil)

func New(root string) (*Backend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir failed: %w", err)
	}
	return &Backend{root: root}, nil
}

// path flattens the key to its base name so stored files cannot escape the
// uploads directory.
func (b *Backend) path(key string) string {
	return filepath.Join(b.root, filepath.Base(key))
}

func (b *Backend) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	f, err := os.Create(b.path(key))
	if err != nil {
		return fmt.Errorf("create upload file failed: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write upload file failed: %w", err)
	}
	return nil
}

func (b *Backend) GetStream(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(b.path(key))
	if err != nil {
		return nil, fmt.Errorf("open stored file failed: %w", err)
	}
	return f, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(b.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat stored file failed: %w", err)
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil {
		return fmt.Errorf("remove stored file failed: %w", err)
	}
	return nil
}

func (b *Backend) List(ctx context.Context) ([]storage.FileInfo, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir failed: %w", err)
	}

	files := make([]storage.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, storage.FileInfo{
			Filename:  entry.Name(),
			SizeBytes: info.Size(),
		})
	}
	return files, nil
}
