package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/timmy/artvault/internal/config"
	"github.com/timmy/artvault/internal/repository"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "seed_test.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}

func TestWaitForReadyExhaustsBudget(t *testing.T) {
	s := NewSeeder(testDB(t))
	s.ping = func(context.Context) error { return errors.New("connection refused") }

	err := s.WaitForReady(context.Background(), 3, time.Millisecond)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestWaitForReadySucceedsAfterFailures(t *testing.T) {
	s := NewSeeder(testDB(t))

	calls := 0
	s.ping = func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("still starting")
		}
		return nil
	}

	if err := s.WaitForReady(context.Background(), 5, time.Millisecond); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}
	if calls != 3 {
		t.Errorf("ping calls = %d, want 3", calls)
	}
}

func TestWaitForReadyCancelledDuringPoll(t *testing.T) {
	s := NewSeeder(testDB(t))
	s.ping = func(context.Context) error { return errors.New("not up") }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WaitForReady(ctx, 10, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrNotReady) {
		t.Error("cancellation must not be reported as ErrNotReady")
	}
}

func seedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artists.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const sampleSeed = `[
  {
    "first_name": "Mara",
    "last_name": "Ellison",
    "bio": "Coastal painter.",
    "artworks": [
      {"title": "Harbour Before the Storm", "description": "Grey sky over a harbour.", "art_type": "PAINTING"},
      {"title": "Winter Shoal", "description": "Low tide at dawn.", "art_type": "PAINTING"}
    ]
  },
  {
    "first_name": "Theo",
    "last_name": "Okafor",
    "bio": "Digital geometrist.",
    "artworks": [
      {"title": "Stairwell Nine", "description": "A folding stairwell.", "art_type": "DIGITAL"}
    ]
  }
]`

func TestSeedIfEmpty(t *testing.T) {
	db := testDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	if err := s.SeedIfEmpty(ctx, seedFile(t, sampleSeed)); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}

	artists, err := repository.NewArtistRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count artists: %v", err)
	}
	if artists != 2 {
		t.Errorf("artists = %d, want 2", artists)
	}
	artworks, err := repository.NewArtworkRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count artworks: %v", err)
	}
	if artworks != 3 {
		t.Errorf("artworks = %d, want 3", artworks)
	}

	// every seeded artwork carries an active random embedding
	list, err := repository.NewArtistRepository(db).List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, artist := range list {
		got, err := repository.NewArtworkRepository(db).ListByArtist(ctx, artist.ID, 10, 0)
		if err != nil {
			t.Fatalf("ListByArtist: %v", err)
		}
		for _, aw := range got {
			if aw.ActiveEmbedding() == nil {
				t.Errorf("artwork %q has no active embedding", aw.Title)
			}
			if aw.StorageKey == "" {
				t.Errorf("artwork %q has no storage key", aw.Title)
			}
		}
	}
}

func TestSeedIfEmptySkipsSeededDatabase(t *testing.T) {
	db := testDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	if err := s.SeedIfEmpty(ctx, seedFile(t, sampleSeed)); err != nil {
		t.Fatalf("first SeedIfEmpty: %v", err)
	}
	if err := s.SeedIfEmpty(ctx, seedFile(t, sampleSeed)); err != nil {
		t.Fatalf("second SeedIfEmpty: %v", err)
	}

	artists, err := repository.NewArtistRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if artists != 2 {
		t.Errorf("artists = %d after re-seed, want 2 (no-op)", artists)
	}
}

func TestSeedIfEmptyRejectsBadFile(t *testing.T) {
	s := NewSeeder(testDB(t))
	ctx := context.Background()

	if err := s.SeedIfEmpty(ctx, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing seed file")
	}
	if err := s.SeedIfEmpty(ctx, seedFile(t, "{not json")); err == nil {
		t.Error("expected error for malformed seed file")
	}
}
