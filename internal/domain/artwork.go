package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ArtType classifies the medium of an artwork.
type ArtType string

const (
	ArtTypeDrawing     ArtType = "DRAWING"
	ArtTypePainting    ArtType = "PAINTING"
	ArtTypeDigital     ArtType = "DIGITAL"
	ArtTypeSculpture   ArtType = "SCULPTURE"
	ArtTypePhotography ArtType = "PHOTOGRAPHY"
	ArtTypeMixedMedia  ArtType = "MIXED_MEDIA"
)

// Valid reports whether t is a known art type.
func (t ArtType) Valid() bool {
	switch t {
	case ArtTypeDrawing, ArtTypePainting, ArtTypeDigital,
		ArtTypeSculpture, ArtTypePhotography, ArtTypeMixedMedia:
		return true
	}
	return false
}

// JSONMap stores a metadata map as JSON in a text column.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// Artwork is the persistent aggregate produced by one successful ingestion.
// StorageKey and the embedding collection are set exactly once at creation;
// an Artwork without a storage key or without at least one embedding is never
// committed.
type Artwork struct {
	ID          string             `gorm:"type:text;primaryKey" json:"id"`
	ArtistID    string             `gorm:"type:text;not null;index:idx_artworks_artist" json:"artist_id"`
	Artist      *Artist            `gorm:"foreignKey:ArtistID" json:"-"`
	Title       string             `gorm:"type:text" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	ArtType     ArtType            `gorm:"type:text;not null" json:"art_type"`
	StorageKey  string             `gorm:"type:text;not null" json:"storage_key"`
	Metadata    JSONMap            `gorm:"type:text" json:"metadata"`
	Embeddings  []ArtworkEmbedding `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE" json:"embeddings"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TableName returns the database table name for Artwork.
func (Artwork) TableName() string {
	return "artworks"
}

// AddEmbeddings attaches embeddings to the artwork, wiring the owner reference.
func (a *Artwork) AddEmbeddings(embeddings ...ArtworkEmbedding) {
	for i := range embeddings {
		embeddings[i].ArtworkID = a.ID
	}
	a.Embeddings = append(a.Embeddings, embeddings...)
}

// ActiveEmbedding returns the artwork's ACTIVE embedding, if any.
// At most one ACTIVE embedding drives similarity search; others are historical.
func (a *Artwork) ActiveEmbedding() *ArtworkEmbedding {
	for i := range a.Embeddings {
		if a.Embeddings[i].Status == EmbeddingStatusActive {
			return &a.Embeddings[i]
		}
	}
	return nil
}
