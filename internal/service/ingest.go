package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/timmy/artvault/internal/domain"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/prompts"
	"github.com/timmy/artvault/internal/storage"
	"gorm.io/gorm"
)

// ArtistFinder looks up artist aggregates.
type ArtistFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Artist, error)
}

// ArtworkSaver commits an artwork aggregate.
type ArtworkSaver interface {
	Save(ctx context.Context, artwork *domain.Artwork) error
}

// Describer produces a text description of an image.
type Describer interface {
	Execute(ctx context.Context, prompt *prompts.Prompt) (string, error)
}

// TextEmbedder projects text into an embedding vector.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
	Model() string
}

// IngestService runs the artwork ingestion pipeline: artist lookup, object
// upload, AI description through the model cascade, embedding, and a single
// transactional commit of the aggregate.
type IngestService struct {
	artists   ArtistFinder
	artworks  ArtworkSaver
	store     storage.ObjectStorage
	describer Describer
	embedder  TextEmbedder
	keyPrefix string
}

// NewIngestService wires the ingestion pipeline.
func NewIngestService(
	artists ArtistFinder,
	artworks ArtworkSaver,
	store storage.ObjectStorage,
	describer Describer,
	embedder TextEmbedder,
	keyPrefix string,
) *IngestService {
	return &IngestService{
		artists:   artists,
		artworks:  artworks,
		store:     store,
		describer: describer,
		embedder:  embedder,
		keyPrefix: keyPrefix,
	}
}

// IngestRequest carries the inputs of one ingestion call.
type IngestRequest struct {
	ArtistID    string
	Title       string
	Description string // optional; stored as-is when provided
	ArtType     domain.ArtType
	Filename    string
	ContentType string
	Data        []byte
}

// IngestResult reports the committed aggregate.
type IngestResult struct {
	Artwork     *domain.Artwork
	Description string
	StorageKey  string
}

// IngestArtwork runs the full pipeline for one image.
//
// Steps run strictly in order; each failure aborts the call with a typed
// error. An upload that succeeds before a later step fails leaves an orphaned
// object, which is logged and tolerated: re-ingestion generates a fresh key,
// never a collision.
func (s *IngestService) IngestArtwork(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	log := logger.FromContext(ctx).WithField(logger.FieldArtistID, req.ArtistID)
	start := time.Now()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	artist, err := s.artists.GetByID(ctx, req.ArtistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "artist", ID: req.ArtistID}
		}
		return nil, &PersistenceError{Err: fmt.Errorf("artist lookup failed: %w", err)}
	}

	key := s.storageKey(req.Filename)
	log = log.WithField(logger.FieldStorageKey, key)

	if err := s.store.Upload(ctx, key, bytes.NewReader(req.Data), int64(len(req.Data)), req.ContentType); err != nil {
		return nil, &StorageError{Op: "upload", Key: key, Err: err}
	}
	log.WithField(logger.FieldSize, len(req.Data)).Info("artwork image uploaded")

	prompt, err := prompts.Build(prompts.IntentDescription, prompts.Media{
		Data:     req.Data,
		MIMEType: req.ContentType,
	})
	if err != nil {
		return nil, &InvalidPromptError{Err: err}
	}

	description, err := s.describer.Execute(ctx, prompt)
	if err != nil {
		log.WithError(err).Warn("description failed, uploaded object orphaned")
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, description)
	if err != nil {
		log.WithError(err).Warn("embedding failed, uploaded object orphaned")
		var embErr *EmbeddingError
		if errors.As(err, &embErr) {
			return nil, err
		}
		return nil, &EmbeddingError{Err: err}
	}

	storedDescription := req.Description
	if storedDescription == "" {
		storedDescription = description
	}

	artwork := &domain.Artwork{
		ID:          uuid.New().String(),
		ArtistID:    artist.ID,
		Title:       req.Title,
		Description: storedDescription,
		ArtType:     req.ArtType,
		StorageKey:  key,
		Metadata:    s.imageMetadata(req),
	}
	artwork.AddEmbeddings(domain.ArtworkEmbedding{
		ID:             uuid.New().String(),
		Type:           domain.EmbeddingTypeImage,
		Status:         domain.EmbeddingStatusActive,
		EmbeddingModel: s.embedder.Model(),
		Vector:         vector,
	})

	if err := s.artworks.Save(ctx, artwork); err != nil {
		log.WithError(err).Warn("commit failed, uploaded object orphaned")
		return nil, &PersistenceError{Err: err}
	}

	log.WithFields(logger.Fields{
		logger.FieldArtworkID:  artwork.ID,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info("artwork ingested")

	return &IngestResult{
		Artwork:     artwork,
		Description: description,
		StorageKey:  key,
	}, nil
}

// Describe runs the model cascade over an image without persisting anything.
// intent selects the prompt template; empty means a full description.
func (s *IngestService) Describe(ctx context.Context, data []byte, contentType string, intent string) (string, error) {
	if len(data) == 0 {
		return "", &InvalidPromptError{Err: fmt.Errorf("empty image payload")}
	}

	parsed, err := prompts.ParseIntent(intent)
	if err != nil {
		return "", &InvalidPromptError{Err: err}
	}

	prompt, err := prompts.Build(parsed, prompts.Media{Data: data, MIMEType: contentType})
	if err != nil {
		return "", &InvalidPromptError{Err: err}
	}

	return s.describer.Execute(ctx, prompt)
}

func (s *IngestService) validate(req *IngestRequest) error {
	switch {
	case req.ArtistID == "":
		return &InvalidPromptError{Err: fmt.Errorf("artist_id is required")}
	case req.Title == "":
		return &InvalidPromptError{Err: fmt.Errorf("title is required")}
	case len(req.Data) == 0:
		return &InvalidPromptError{Err: fmt.Errorf("empty image payload")}
	case !req.ArtType.Valid():
		return &InvalidPromptError{Err: fmt.Errorf("unknown art type %q", req.ArtType)}
	}
	return nil
}

// storageKey builds a collision-free object key: prefix + UUID + "_" + filename.
func (s *IngestService) storageKey(filename string) string {
	name := strings.ReplaceAll(filename, "/", "_")
	if name == "" {
		name = "artwork"
	}
	return s.keyPrefix + uuid.New().String() + "_" + name
}

// imageMetadata records what can be read off the payload without decoding the
// full image. Decode failures leave the dimensions out rather than failing
// the ingestion.
func (s *IngestService) imageMetadata(req *IngestRequest) domain.JSONMap {
	meta := domain.JSONMap{
		"original_filename": req.Filename,
		"content_type":      req.ContentType,
		"size_bytes":        len(req.Data),
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(req.Data)); err == nil {
		meta["width"] = cfg.Width
		meta["height"] = cfg.Height
		meta["format"] = format
	}
	return meta
}
