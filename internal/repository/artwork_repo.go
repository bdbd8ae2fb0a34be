package repository

import (
	"context"
	"fmt"

	"github.com/timmy/artvault/internal/domain"
	"gorm.io/gorm"
)

// ArtworkRepository handles artwork data operations.
type ArtworkRepository struct {
	db *gorm.DB
}

// NewArtworkRepository creates a new ArtworkRepository bound to db.
func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

// Save commits the artwork and its embeddings as one transaction.
// The aggregate is created whole; partial artwork records are never written.
func (r *ArtworkRepository) Save(ctx context.Context, artwork *domain.Artwork) error {
	if artwork.StorageKey == "" {
		return fmt.Errorf("refusing to save artwork without storage key")
	}
	if len(artwork.Embeddings) == 0 {
		return fmt.Errorf("refusing to save artwork without embeddings")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(artwork).Error
	})
}

// GetByID retrieves an artwork with its embeddings.
func (r *ArtworkRepository) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	var artwork domain.Artwork
	if err := r.db.WithContext(ctx).
		Preload("Embeddings").
		First(&artwork, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artwork, nil
}

// ListByArtist retrieves an artist's artworks with pagination.
func (r *ArtworkRepository) ListByArtist(ctx context.Context, artistID string, limit, offset int) ([]domain.Artwork, error) {
	var artworks []domain.Artwork
	if err := r.db.WithContext(ctx).
		Preload("Embeddings").
		Where("artist_id = ?", artistID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&artworks).Error; err != nil {
		return nil, err
	}
	return artworks, nil
}

// Count returns the number of artwork records.
func (r *ArtworkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Artwork{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes an artwork by ID; embeddings cascade.
func (r *ArtworkRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Artwork{}, "id = ?", id).Error
}
