package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions ist die feste Länge aller Embedding-Vektoren
// (text-embedding-3-small). Inserts mit abweichender Dimension werden abgelehnt.
const EmbeddingDimensions = 1536

// Article repräsentiert einen ingestierten News-Artikel.
// Vector ist optional: Artikel ohne Embedding sind nur über ID- oder
// Kategorie-Lookup erreichbar, nie über die Ähnlichkeitssuche.
// Ein einmal gesetzter Vector wird nicht mehr verändert.
type Article struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Text    string `json:"text" gorm:"type:text;not null"`
	Summary string `json:"summary,omitempty" gorm:"type:text"`
	Source  string `json:"source,omitempty"`

	CategoryID *uint     `json:"category_id,omitempty" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	// Beschreibende Metadaten [1,10]; fließt nicht ins Ranking ein.
	RelevanceScore *int `json:"relevance_score,omitempty"`

	DateWritten *time.Time `json:"date_written,omitempty"`
	DateCreated time.Time  `json:"date_created" gorm:"column:date_created;autoCreateTime"`

	Vector *pgvector.Vector `json:"-" gorm:"type:vector(1536)"`
}

// TableName gibt explizit den Tabellennamen an.
func (Article) TableName() string {
	return "articles"
}

// CategoryName gibt den Kategorienamen oder "General" zurück.
func (a *Article) CategoryName() string {
	if a.Category != nil && a.Category.Name != "" {
		return a.Category.Name
	}
	return "General"
}

// NarrationContent gibt den Text zurück, der vorgelesen wird:
// Summary, falls vorhanden, sonst der volle Text.
func (a *Article) NarrationContent() string {
	if a.Summary != "" {
		return a.Summary
	}
	return a.Text
}

// ScoredArticle ist ein Artikel mit der Cosine-Distanz zu einem Query-Vektor
// (vector <=> query, 1 - Cosine-Similarity; kleiner = ähnlicher).
type ScoredArticle struct {
	Article
	Distance float64 `json:"distance"`
}
