package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/timmy/artvault/internal/domain"
	"github.com/timmy/artvault/internal/prompts"
	"gorm.io/gorm"
)

type fakeArtistFinder struct {
	artists map[string]*domain.Artist
	calls   int
}

func (f *fakeArtistFinder) GetByID(_ context.Context, id string) (*domain.Artist, error) {
	f.calls++
	if a, ok := f.artists[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeArtworkSaver struct {
	saved []*domain.Artwork
	err   error
}

func (f *fakeArtworkSaver) Save(_ context.Context, artwork *domain.Artwork) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, artwork)
	return nil
}

type fakeStore struct {
	uploads   map[string][]byte
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.uploads[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) GetURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.uploads[key]
	return ok, nil
}

func (f *fakeStore) EnsureBucket(_ context.Context) error { return nil }

type fakeDescriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeDescriber) Execute(_ context.Context, _ *prompts.Prompt) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeEmbedder struct {
	err   error
	calls int
	seen  string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.Vector, error) {
	f.calls++
	f.seen = text
	if f.err != nil {
		return nil, f.err
	}
	return make(domain.Vector, domain.EmbeddingDimensions), nil
}

func (f *fakeEmbedder) Model() string { return "test-embedding-model" }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

type ingestFixture struct {
	artists   *fakeArtistFinder
	saver     *fakeArtworkSaver
	store     *fakeStore
	describer *fakeDescriber
	embedder  *fakeEmbedder
	svc       *IngestService
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		artists: &fakeArtistFinder{artists: map[string]*domain.Artist{
			"artist-1": {ID: "artist-1", FirstName: "Ada", LastName: "Vermeer"},
		}},
		saver:     &fakeArtworkSaver{},
		store:     newFakeStore(),
		describer: &fakeDescriber{text: "A luminous landscape in oil."},
		embedder:  &fakeEmbedder{},
	}
	f.svc = NewIngestService(f.artists, f.saver, f.store, f.describer, f.embedder, "artworks/")
	return f
}

func validRequest(t *testing.T) *IngestRequest {
	return &IngestRequest{
		ArtistID:    "artist-1",
		Title:       "Morning Field",
		ArtType:     domain.ArtTypePainting,
		Filename:    "field.png",
		ContentType: "image/png",
		Data:        pngBytes(t),
	}
}

func TestIngestArtworkSuccess(t *testing.T) {
	f := newIngestFixture()

	result, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	if err != nil {
		t.Fatalf("IngestArtwork: %v", err)
	}

	if result.Description != "A luminous landscape in oil." {
		t.Errorf("description = %q", result.Description)
	}
	if !strings.HasPrefix(result.StorageKey, "artworks/") {
		t.Errorf("storage key %q missing prefix", result.StorageKey)
	}
	if !strings.HasSuffix(result.StorageKey, "_field.png") {
		t.Errorf("storage key %q missing filename suffix", result.StorageKey)
	}
	if _, ok := f.store.uploads[result.StorageKey]; !ok {
		t.Error("image not uploaded under the reported key")
	}

	if len(f.saver.saved) != 1 {
		t.Fatalf("saved %d artworks, want 1", len(f.saver.saved))
	}
	artwork := f.saver.saved[0]
	if artwork.ArtistID != "artist-1" {
		t.Errorf("artist id = %q", artwork.ArtistID)
	}
	if artwork.StorageKey != result.StorageKey {
		t.Errorf("persisted key %q != reported key %q", artwork.StorageKey, result.StorageKey)
	}
	if len(artwork.Embeddings) != 1 {
		t.Fatalf("embeddings = %d, want 1", len(artwork.Embeddings))
	}
	emb := artwork.Embeddings[0]
	if emb.ArtworkID != artwork.ID {
		t.Error("embedding not wired to artwork")
	}
	if emb.Status != domain.EmbeddingStatusActive || emb.Type != domain.EmbeddingTypeImage {
		t.Errorf("embedding = %s/%s", emb.Type, emb.Status)
	}
	if emb.EmbeddingModel != "test-embedding-model" {
		t.Errorf("embedding model = %q", emb.EmbeddingModel)
	}
	if len(emb.Vector) != domain.EmbeddingDimensions {
		t.Errorf("vector length = %d", len(emb.Vector))
	}

	// AI description drives the embedding
	if f.embedder.seen != "A luminous landscape in oil." {
		t.Errorf("embedded text = %q", f.embedder.seen)
	}

	// decoded dimensions land in metadata
	if w, ok := artwork.Metadata["width"].(int); !ok || w != 4 {
		t.Errorf("metadata width = %v", artwork.Metadata["width"])
	}
}

func TestIngestArtworkMissingArtist(t *testing.T) {
	f := newIngestFixture()

	req := validRequest(t)
	req.ArtistID = "nobody"

	_, err := f.svc.IngestArtwork(context.Background(), req)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if notFound.Resource != "artist" || notFound.ID != "nobody" {
		t.Errorf("notFound = %+v", notFound)
	}

	// nothing downstream may have run
	if len(f.store.uploads) != 0 {
		t.Error("upload happened despite missing artist")
	}
	if f.describer.calls != 0 {
		t.Error("description ran despite missing artist")
	}
	if len(f.saver.saved) != 0 {
		t.Error("artwork saved despite missing artist")
	}
}

func TestIngestArtworkUploadFailure(t *testing.T) {
	f := newIngestFixture()
	f.store.uploadErr = errors.New("bucket unreachable")

	_, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %v, want StorageError", err)
	}
	if f.describer.calls != 0 {
		t.Error("description ran despite failed upload")
	}
	if len(f.saver.saved) != 0 {
		t.Error("artwork saved despite failed upload")
	}
}

func TestIngestArtworkDescriptionFailure(t *testing.T) {
	f := newIngestFixture()
	f.describer.err = &AllTiersExhaustedError{Tiers: 3, LastTier: 3, LastModel: "m", Err: errors.New("down")}
	f.describer.text = ""

	_, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	var exhausted *AllTiersExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want AllTiersExhaustedError", err)
	}
	if f.embedder.calls != 0 {
		t.Error("embedding ran despite failed description")
	}
	if len(f.saver.saved) != 0 {
		t.Error("artwork saved despite failed description")
	}
	// the upload already happened; the orphan stays in storage
	if len(f.store.uploads) != 1 {
		t.Errorf("uploads = %d, want 1 orphan", len(f.store.uploads))
	}
}

func TestIngestArtworkEmbeddingFailure(t *testing.T) {
	f := newIngestFixture()
	f.embedder.err = &EmbeddingError{Err: errors.New("wrong dimensions")}

	_, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	var embErr *EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("error = %v, want EmbeddingError", err)
	}
	if len(f.saver.saved) != 0 {
		t.Error("artwork saved despite failed embedding")
	}
	if len(f.store.uploads) != 1 {
		t.Errorf("uploads = %d, want 1 orphan", len(f.store.uploads))
	}
}

func TestIngestArtworkPersistenceFailure(t *testing.T) {
	f := newIngestFixture()
	f.saver.err = errors.New("constraint violation")

	_, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	var persistErr *PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}
	if len(f.store.uploads) != 1 {
		t.Errorf("uploads = %d, want 1 orphan", len(f.store.uploads))
	}
}

func TestIngestArtworkKeysNeverCollide(t *testing.T) {
	f := newIngestFixture()

	first, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := f.svc.IngestArtwork(context.Background(), validRequest(t))
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if first.StorageKey == second.StorageKey {
		t.Errorf("same key %q for two ingestions of the same file", first.StorageKey)
	}
}

func TestIngestArtworkUserDescriptionStored(t *testing.T) {
	f := newIngestFixture()

	req := validRequest(t)
	req.Description = "The artist's own words."

	_, err := f.svc.IngestArtwork(context.Background(), req)
	if err != nil {
		t.Fatalf("IngestArtwork: %v", err)
	}
	if f.saver.saved[0].Description != "The artist's own words." {
		t.Errorf("stored description = %q", f.saver.saved[0].Description)
	}
	// the embedding still comes from the generated description
	if f.embedder.seen != "A luminous landscape in oil." {
		t.Errorf("embedded text = %q", f.embedder.seen)
	}
}

func TestIngestArtworkValidation(t *testing.T) {
	f := newIngestFixture()

	tests := []struct {
		name   string
		mutate func(*IngestRequest)
	}{
		{"missing artist id", func(r *IngestRequest) { r.ArtistID = "" }},
		{"missing title", func(r *IngestRequest) { r.Title = "" }},
		{"empty payload", func(r *IngestRequest) { r.Data = nil }},
		{"unknown art type", func(r *IngestRequest) { r.ArtType = "COLLAGE" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.mutate(req)
			_, err := f.svc.IngestArtwork(context.Background(), req)
			var invalid *InvalidPromptError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want InvalidPromptError", err)
			}
		})
	}
	if len(f.store.uploads) != 0 || len(f.saver.saved) != 0 {
		t.Error("rejected requests must not touch storage or the database")
	}
}

func TestDescribe(t *testing.T) {
	f := newIngestFixture()

	text, err := f.svc.Describe(context.Background(), pngBytes(t), "image/png", "caption")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != "A luminous landscape in oil." {
		t.Errorf("got %q", text)
	}

	if _, err := f.svc.Describe(context.Background(), nil, "image/png", ""); err == nil {
		t.Error("expected error for empty payload")
	}
	if _, err := f.svc.Describe(context.Background(), pngBytes(t), "image/png", "sonnet"); err == nil {
		t.Error("expected error for unknown intent")
	}
}
