package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EmbeddingDimensions is the fixed vector width enforced by the database column.
// Any vector of a different length is a data-corruption failure, never padded
// or truncated.
const EmbeddingDimensions = 1536

// EmbeddingType classifies what content a vector was derived from.
type EmbeddingType string

const (
	EmbeddingTypeImage  EmbeddingType = "IMAGE"
	EmbeddingTypeText   EmbeddingType = "TEXT"
	EmbeddingTypeHybrid EmbeddingType = "HYBRID"
)

// EmbeddingStatus tracks the lifecycle of an embedding.
type EmbeddingStatus string

const (
	EmbeddingStatusActive      EmbeddingStatus = "ACTIVE"
	EmbeddingStatusInactive    EmbeddingStatus = "INACTIVE"
	EmbeddingStatusNeedsUpdate EmbeddingStatus = "NEEDS_UPDATE"
	EmbeddingStatusArchived    EmbeddingStatus = "ARCHIVED"
)

// ErrBadVectorLength is returned when a vector does not have exactly
// EmbeddingDimensions components.
var ErrBadVectorLength = errors.New("embedding vector length mismatch")

// Vector is a fixed-length embedding stored in a vector(1536) column on
// postgres (pgvector literal format) and text on sqlite.
type Vector []float32

// NewVector validates the dimension invariant before accepting values.
func NewVector(values []float32) (Vector, error) {
	if len(values) != EmbeddingDimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadVectorLength, len(values), EmbeddingDimensions)
	}
	return Vector(values), nil
}

// Value implements the driver.Valuer interface, producing the pgvector
// literal format: [v1,v2,...].
func (v Vector) Value() (driver.Value, error) {
	if len(v) != EmbeddingDimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadVectorLength, len(v), EmbeddingDimensions)
	}
	var sb strings.Builder
	sb.Grow(len(v) * 10)
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// Scan implements the sql.Scanner interface for the pgvector literal format.
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("%w: null vector", ErrBadVectorLength)
	}
	var s string
	switch raw := value.(type) {
	case []byte:
		s = string(raw)
	case string:
		s = raw
	default:
		return fmt.Errorf("failed to scan Vector from %T", value)
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ",")
	if len(parts) != EmbeddingDimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrBadVectorLength, len(parts), EmbeddingDimensions)
	}

	out := make(Vector, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("failed to parse vector component %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	*v = out
	return nil
}

// GormDataType returns the column type used by the postgres dialect.
func (Vector) GormDataType() string {
	return fmt.Sprintf("vector(%d)", EmbeddingDimensions)
}

// ArtworkEmbedding is an embedding owned by an Artwork; its lifecycle is tied
// to the artwork (cascade delete).
type ArtworkEmbedding struct {
	ID             string          `gorm:"type:text;primaryKey" json:"id"`
	ArtworkID      string          `gorm:"type:text;not null;index:idx_artwork_embeddings_artwork" json:"artwork_id"`
	Type           EmbeddingType   `gorm:"type:text;not null;default:IMAGE" json:"type"`
	Status         EmbeddingStatus `gorm:"type:text;not null;default:ACTIVE" json:"status"`
	EmbeddingModel string          `gorm:"type:text" json:"embedding_model,omitempty"`
	Vector         Vector          `gorm:"not null" json:"vector"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TableName returns the database table name for ArtworkEmbedding.
func (ArtworkEmbedding) TableName() string {
	return "artwork_embeddings"
}
