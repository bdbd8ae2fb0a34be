package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/domain"
	"github.com/timmy/artvault/internal/service"
	"github.com/timmy/artvault/internal/storage"
)

// IngestionHandler handles artwork ingestion endpoints.
type IngestionHandler struct {
	ingest *service.IngestService
	store  storage.ObjectStorage
}

// NewIngestionHandler creates a new ingestion handler.
func NewIngestionHandler(ingest *service.IngestService, store storage.ObjectStorage) *IngestionHandler {
	return &IngestionHandler{ingest: ingest, store: store}
}

// maxUploadBytes bounds the multipart image payload (20 MB).
const maxUploadBytes = 20 << 20

// IngestArtwork handles POST /api/v1/artworks.
// Multipart form: image (file, required), artist_id, title, art_type
// (required), description (optional).
func (h *IngestionHandler) IngestArtwork(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "image exceeds upload limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read image: " + err.Error()})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "image exceeds upload limit"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	req := &service.IngestRequest{
		ArtistID:    c.PostForm("artist_id"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ArtType:     domain.ArtType(c.PostForm("art_type")),
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}

	result, err := h.ingest.IngestArtwork(c.Request.Context(), req)
	if err != nil {
		status, msg := ingestStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"artwork":     toArtworkSummary(result.Artwork, h.store.GetURL(result.StorageKey)),
		"description": result.Description,
	})
}

// Describe handles POST /api/v1/artworks/describe.
// Multipart form: image (file, required), intent (optional: description, caption).
func (h *IngestionHandler) Describe(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read image"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	text, err := h.ingest.Describe(c.Request.Context(), data, contentType, c.PostForm("intent"))
	if err != nil {
		status, msg := ingestStatus(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": text})
}

// ingestStatus maps pipeline errors to HTTP statuses.
func ingestStatus(err error) (int, string) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, notFound.Error()
	}
	var invalid *service.InvalidPromptError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, invalid.Error()
	}
	var exhausted *service.AllTiersExhaustedError
	if errors.As(err, &exhausted) {
		return http.StatusBadGateway, "description generation failed: all models unavailable"
	}
	var storageErr *service.StorageError
	if errors.As(err, &storageErr) {
		return http.StatusBadGateway, "storage unavailable"
	}
	var embErr *service.EmbeddingError
	if errors.As(err, &embErr) {
		return http.StatusBadGateway, "embedding generation failed"
	}
	return http.StatusInternalServerError, "ingestion failed: " + err.Error()
}
