package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docrag/internal/app"
	"docrag/internal/chunker"
	"docrag/internal/extract"
	"docrag/internal/storage"
	"docrag/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	ingest  *app.IngestService
	storage storage.Backend
}

func NewDocumentHandler(ingest *app.IngestService, backend storage.Backend) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, storage: backend}
}

// Upload accepts a multipart form with "file", ingests the document into the
// vector index, then persists the raw bytes in the storage backend.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}
	if !extract.IsAllowed(file.Filename) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
			"only ["+strings.Join(extract.AllowedExtensions, ", ")+"] files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	chunksCreated, err := h.ingest.Ingest(c.Request.Context(), file.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat),
			errors.Is(err, extract.ErrEmptyDocument),
			errors.Is(err, chunker.ErrInvalidChunkConfig):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				"error processing document: "+err.Error())
		}
		return
	}

	if err := h.storage.Put(c.Request.Context(), file.Filename, bytes.NewReader(data), int64(len(data))); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
			"store document failed: "+err.Error())
		return
	}

	response.Created(c, gin.H{
		"filename":       file.Filename,
		"chunks_created": chunksCreated,
	})
}

// List returns the stored documents, filtered to supported extensions.
func (h *DocumentHandler) List(c *gin.Context) {
	files, err := h.storage.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
			"list documents failed: "+err.Error())
		return
	}

	docs := make([]storage.FileInfo, 0, len(files))
	for _, f := range files {
		if extract.IsAllowed(f.Filename) {
			docs = append(docs, f)
		}
	}

	response.OK(c, gin.H{
		"documents": docs,
		"total":     len(docs),
	})
}

// Download streams the raw document bytes back to the caller.
func (h *DocumentHandler) Download(c *gin.Context) {
	filename := c.Param("filename")

	exists, err := h.storage.Exists(c.Request.Context(), filename)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, response.CodeNotFound,
			"document '"+filename+"' not found")
		return
	}

	stream, err := h.storage.GetStream(c.Request.Context(), filename)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}
	defer stream.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, stream)
}

// Delete removes the document's chunks from the index and then the raw file.
func (h *DocumentHandler) Delete(c *gin.Context) {
	filename := c.Param("filename")

	exists, err := h.storage.Exists(c.Request.Context(), filename)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, response.CodeNotFound,
			"document '"+filename+"' not found")
		return
	}

	chunksDeleted, err := h.ingest.Remove(c.Request.Context(), filename)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
			"delete document chunks failed: "+err.Error())
		return
	}

	if err := h.storage.Delete(c.Request.Context(), filename); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
			"delete stored file failed: "+err.Error())
		return
	}

	response.OK(c, gin.H{
		"filename":       filename,
		"chunks_deleted": chunksDeleted,
	})
}
