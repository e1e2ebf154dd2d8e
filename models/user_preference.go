package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// UserPreference speichert den Präferenz-Vektor eines Nutzers für die
// personalisierte Artikelauswahl.
type UserPreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	UpdatedAt time.Time `json:"updated_at"`

	Vector pgvector.Vector `json:"-" gorm:"type:vector(1536);not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (UserPreference) TableName() string {
	return "user_preferences"
}
