package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/storage"
	"gorm.io/gorm"
)

// ArtistHandler handles artist read endpoints.
type ArtistHandler struct {
	artists  *repository.ArtistRepository
	artworks *repository.ArtworkRepository
	store    storage.ObjectStorage
}

// NewArtistHandler creates a new artist handler.
func NewArtistHandler(
	artists *repository.ArtistRepository,
	artworks *repository.ArtworkRepository,
	store storage.ObjectStorage,
) *ArtistHandler {
	return &ArtistHandler{artists: artists, artworks: artworks, store: store}
}

// ListArtists handles GET /api/v1/artists.
func (h *ArtistHandler) ListArtists(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	artists, err := h.artists.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list artists"})
		return
	}
	total, err := h.artists.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to count artists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artists": artists,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetArtist handles GET /api/v1/artists/:id.
func (h *ArtistHandler) GetArtist(c *gin.Context) {
	id := c.Param("id")
	artist, err := h.artists.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "artist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load artist"})
		return
	}
	c.JSON(http.StatusOK, artist)
}

// ListArtistArtworks handles GET /api/v1/artists/:id/artworks.
func (h *ArtistHandler) ListArtistArtworks(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.artists.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "artist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load artist"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	artworks, err := h.artworks.ListByArtist(c.Request.Context(), id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list artworks"})
		return
	}

	summaries := make([]ArtworkSummary, 0, len(artworks))
	for i := range artworks {
		summaries = append(summaries, toArtworkSummary(&artworks[i], h.store.GetURL(artworks[i].StorageKey)))
	}

	c.JSON(http.StatusOK, gin.H{
		"artworks": summaries,
		"limit":    limit,
		"offset":   offset,
	})
}
