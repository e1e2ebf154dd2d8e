package models

import "time"

// Podcast ist der Provenance-Datensatz eines erfolgreichen Pipeline-Laufs.
// Wird genau einmal pro Lauf erzeugt und danach nie mutiert.
type Podcast struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID *uint `json:"user_id,omitempty" gorm:"index"`

	Script      string  `json:"script" gorm:"type:text;not null"`
	S3Link      string  `json:"s3_link" gorm:"type:text;not null"`
	SpotifyLink *string `json:"spotify_link,omitempty" gorm:"type:text"`

	DateCreated time.Time `json:"date_created" gorm:"column:date_created;autoCreateTime"`
}

// TableName gibt explizit den Tabellennamen an.
func (Podcast) TableName() string {
	return "podcasts"
}
