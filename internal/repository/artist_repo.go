package repository

import (
	"context"

	"github.com/timmy/artvault/internal/domain"
	"gorm.io/gorm"
)

// ArtistRepository handles artist data operations.
type ArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a new ArtistRepository bound to db.
func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// GetByID retrieves an artist by ID.
// Returns gorm.ErrRecordNotFound when the artist does not exist.
func (r *ArtistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	var artist domain.Artist
	if err := r.db.WithContext(ctx).First(&artist, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

// List retrieves artists with pagination.
func (r *ArtistRepository) List(ctx context.Context, limit, offset int) ([]domain.Artist, error) {
	var artists []domain.Artist
	if err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("last_name, first_name").
		Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

// Count returns the number of artist records.
func (r *ArtistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Artist{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAll inserts artists and their nested artworks/embeddings in one
// transaction. Used by the seeder.
func (r *ArtistRepository) CreateAll(ctx context.Context, artists []domain.Artist) error {
	if len(artists) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&artists).Error
}
