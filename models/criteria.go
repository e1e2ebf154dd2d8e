package models

import "fmt"

// SelectionCriteria beschreibt, wie Kandidaten-Artikel ausgewählt werden.
// Pro Anfrage ist genau eine Variante aktiv.
type SelectionCriteria interface {
	// Validate prüft die Kriterien, bevor die Auswahl läuft.
	Validate() error
}

// ByQueryText wählt Artikel per Ähnlichkeitssuche über ein Text-Embedding aus.
type ByQueryText struct {
	Text            string
	Limit           int
	CategoryIDs     []uint
	SimilarityFloor float64 // minimale Cosine-Similarity in [0,1]
}

// ByUserPreferenceVector wählt Artikel per Ähnlichkeitssuche mit einem
// bereits vorhandenen Präferenz-Vektor aus.
type ByUserPreferenceVector struct {
	Vector          []float32
	Limit           int
	SimilarityFloor float64
}

// ByIDs holt Artikel per Primärschlüssel, in der Reihenfolge der Eingabeliste.
// Nicht gefundene IDs werden stillschweigend übersprungen.
type ByIDs struct {
	IDs []uint
}

// ByCategory holt die neuesten Artikel der angegebenen Kategorien.
type ByCategory struct {
	CategoryIDs []uint
	Limit       int
}

func (c ByQueryText) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("similarity floor must be in [0,1], got %g", c.SimilarityFloor)
	}
	return nil
}

func (c ByUserPreferenceVector) Validate() error {
	if len(c.Vector) != EmbeddingDimensions {
		return fmt.Errorf("preference vector has %d dimensions, want %d", len(c.Vector), EmbeddingDimensions)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("similarity floor must be in [0,1], got %g", c.SimilarityFloor)
	}
	return nil
}

func (c ByIDs) Validate() error {
	if len(c.IDs) == 0 {
		return fmt.Errorf("at least one article id required")
	}
	return nil
}

func (c ByCategory) Validate() error {
	if len(c.CategoryIDs) == 0 {
		return fmt.Errorf("at least one category id required")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}
