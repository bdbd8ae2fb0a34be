package handler

import (
	"github.com/timmy/artvault/internal/domain"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EmbeddingSummary is the API view of one embedding; the raw vector is never
// returned over HTTP.
type EmbeddingSummary struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Model        string `json:"model,omitempty"`
	VectorLength int    `json:"vector_length"`
}

// ArtworkSummary is the API view of an artwork aggregate.
type ArtworkSummary struct {
	ID          string             `json:"id"`
	ArtistID    string             `json:"artist_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ArtType     string             `json:"art_type"`
	StorageKey  string             `json:"storage_key"`
	URL         string             `json:"url,omitempty"`
	Metadata    domain.JSONMap     `json:"metadata,omitempty"`
	Embeddings  []EmbeddingSummary `json:"embeddings"`
	CreatedAt   string             `json:"created_at"`
}

func toArtworkSummary(a *domain.Artwork, url string) ArtworkSummary {
	out := ArtworkSummary{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		Title:       a.Title,
		Description: a.Description,
		ArtType:     string(a.ArtType),
		StorageKey:  a.StorageKey,
		URL:         url,
		Metadata:    a.Metadata,
		Embeddings:  make([]EmbeddingSummary, 0, len(a.Embeddings)),
		CreatedAt:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, e := range a.Embeddings {
		out.Embeddings = append(out.Embeddings, EmbeddingSummary{
			ID:           e.ID,
			Type:         string(e.Type),
			Status:       string(e.Status),
			Model:        e.EmbeddingModel,
			VectorLength: len(e.Vector),
		})
	}
	return out
}
