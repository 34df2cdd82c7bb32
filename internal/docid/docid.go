// Package docid derives stable identifiers for documents and their chunks.
// The base id hashes the filename only, never file content, so re-uploading
// a file under the same name maps onto the same vector ids.
package docid

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// BaseID returns the deterministic document id for a filename.
func BaseID(filename string) string {
	sum := md5.Sum([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// ChunkID returns the vector id for chunk i of a document.
func ChunkID(baseID string, i int) string {
	return baseID + "_" + strconv.Itoa(i)
}

// ChunkPrefix returns the id prefix shared by every chunk of a document.
func ChunkPrefix(baseID string) string {
	return baseID + "_"
}
