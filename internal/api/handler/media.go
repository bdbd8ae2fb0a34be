package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/storage"
	"gorm.io/gorm"
)

// MediaHandler serves artwork records and their image bytes.
type MediaHandler struct {
	artworks *repository.ArtworkRepository
	store    storage.ObjectStorage
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(artworks *repository.ArtworkRepository, store storage.ObjectStorage) *MediaHandler {
	return &MediaHandler{artworks: artworks, store: store}
}

// GetArtwork handles GET /api/v1/artworks/:id.
func (h *MediaHandler) GetArtwork(c *gin.Context) {
	id := c.Param("id")
	artwork, err := h.artworks.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "artwork not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load artwork"})
		return
	}

	c.JSON(http.StatusOK, toArtworkSummary(artwork, h.store.GetURL(artwork.StorageKey)))
}

// GetArtworkImage handles GET /api/v1/artworks/:id/image, streaming the
// stored object.
func (h *MediaHandler) GetArtworkImage(c *gin.Context) {
	id := c.Param("id")
	artwork, err := h.artworks.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "artwork not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load artwork"})
		return
	}

	reader, err := h.store.Download(c.Request.Context(), artwork.StorageKey)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "failed to fetch image from storage"})
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	if ct, ok := artwork.Metadata["content_type"].(string); ok && ct != "" {
		contentType = ct
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// DeleteArtwork handles DELETE /api/v1/artworks/:id. The database row goes
// first; the stored object is removed best-effort afterwards.
func (h *MediaHandler) DeleteArtwork(c *gin.Context) {
	id := c.Param("id")
	artwork, err := h.artworks.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "artwork not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load artwork"})
		return
	}

	if err := h.artworks.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete artwork"})
		return
	}
	_ = h.store.Delete(c.Request.Context(), artwork.StorageKey)

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
