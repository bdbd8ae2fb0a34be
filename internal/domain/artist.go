package domain

import "time"

// Artist is a pre-existing aggregate root referenced by ingested artworks.
// The ingestion pipeline never creates artists; they are seeded or managed elsewhere.
type Artist struct {
	ID              string    `gorm:"type:text;primaryKey" json:"id"`
	FirstName       string    `gorm:"type:text;not null" json:"first_name"`
	LastName        string    `gorm:"type:text;not null" json:"last_name"`
	Bio             string    `gorm:"type:text" json:"bio,omitempty"`
	ProfileImageURL string    `gorm:"type:text" json:"profile_image_url,omitempty"`
	Artworks        []Artwork `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artworks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for Artist.
func (Artist) TableName() string {
	return "artists"
}
