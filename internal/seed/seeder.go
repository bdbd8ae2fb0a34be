package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/artvault/internal/domain"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/service"
	"gorm.io/gorm"
)

// ErrNotReady is returned when the database does not become reachable within
// the readiness budget.
var ErrNotReady = errors.New("database not ready")

// Seeder populates an empty database with demo artists and artworks.
// Embeddings are random placeholders so similarity queries have data to run
// against before any real ingestion happens.
type Seeder struct {
	db      *gorm.DB
	artists *repository.ArtistRepository
	ping    func(ctx context.Context) error
}

// NewSeeder builds a seeder over the given connection.
func NewSeeder(db *gorm.DB) *Seeder {
	s := &Seeder{
		db:      db,
		artists: repository.NewArtistRepository(db),
	}
	s.ping = s.pingDB
	return s
}

func (s *Seeder) pingDB(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WaitForReady polls the connection until a ping succeeds, up to attempts
// tries spaced interval apart. Returns ErrNotReady when the budget is spent.
func (s *Seeder) WaitForReady(ctx context.Context, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	log := logger.FromContext(ctx)

	var lastErr error
	for i := 1; i <= attempts; i++ {
		err := s.ping(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		log.WithField(logger.FieldAttempt, i).WithError(err).Warn("database not reachable yet")

		if i < attempts {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrNotReady, attempts, lastErr)
}

// seedArtist is the JSON shape of one artist in the seed file.
type seedArtist struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profile_image_url"`
	Artworks        []struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		ArtType     domain.ArtType `json:"art_type"`
	} `json:"artworks"`
}

// SeedIfEmpty loads artists from the JSON file and inserts them, but only
// when the artists table is empty. Re-running against a seeded database is a
// no-op.
func (s *Seeder) SeedIfEmpty(ctx context.Context, artistsFile string) error {
	log := logger.FromContext(ctx)

	count, err := s.artists.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count artists: %w", err)
	}
	if count > 0 {
		log.WithField("artists", count).Info("database already seeded, skipping")
		return nil
	}

	data, err := os.ReadFile(artistsFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seeds []seedArtist
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	artists := make([]domain.Artist, 0, len(seeds))
	artworkCount := 0
	for _, sa := range seeds {
		artist := domain.Artist{
			ID:              uuid.New().String(),
			FirstName:       sa.FirstName,
			LastName:        sa.LastName,
			Bio:             sa.Bio,
			ProfileImageURL: sa.ProfileImageURL,
		}
		for _, aw := range sa.Artworks {
			artwork := domain.Artwork{
				ID:          uuid.New().String(),
				ArtistID:    artist.ID,
				Title:       aw.Title,
				Description: aw.Description,
				ArtType:     aw.ArtType,
				StorageKey:  "seed/" + uuid.New().String(),
				Metadata:    domain.JSONMap{"seeded": true},
			}
			artwork.AddEmbeddings(domain.ArtworkEmbedding{
				ID:             uuid.New().String(),
				Type:           domain.EmbeddingTypeImage,
				Status:         domain.EmbeddingStatusActive,
				EmbeddingModel: "seed-random",
				Vector:         service.RandomVector(domain.EmbeddingDimensions),
			})
			artist.Artworks = append(artist.Artworks, artwork)
			artworkCount++
		}
		artists = append(artists, artist)
	}

	if err := s.artists.CreateAll(ctx, artists); err != nil {
		return fmt.Errorf("failed to insert seed data: %w", err)
	}
	log.WithFields(logger.Fields{
		"artists":  len(artists),
		"artworks": artworkCount,
	}).Info("database seeded")
	return nil
}
