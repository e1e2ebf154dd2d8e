package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"audiobot/models"
)

// ArticleRepository ist die Speicherschicht für Artikel.
type ArticleRepository interface {
	// SearchByVector liefert alle Artikel mit Vektor samt exakter
	// Cosine-Distanz zum Query-Vektor, ohne Sortierung und ohne Limit.
	SearchByVector(ctx context.Context, vector []float32, categoryIDs []uint) ([]models.ScoredArticle, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Article, error)
	FindByCategories(ctx context.Context, categoryIDs []uint, limit int) ([]models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	// CreateBatch persistiert alle Artikel in einer Transaktion: entweder
	// werden alle angelegt oder keiner.
	CreateBatch(ctx context.Context, articles []*models.Article) error
}

// Retriever wählt Kandidaten-Artikel anhand von SelectionCriteria aus.
// Rein lesend; eine leere Ergebnisliste ist kein Fehler.
//
// Das Ähnlichkeitsranking holt bewusst alle Distanzen aus der Datenbank und
// sortiert in der Anwendung: der pgvector-Index garantiert unter konkurrenten
// Writes keine exakte Nearest-Neighbor-Reihenfolge im ORDER BY. Exakt, aber
// nicht horizontal skalierbar, solange kein approximativer Index nachgerüstet
// wird.
type Retriever struct {
	Articles ArticleRepository
	Embedder Embedder
	Logger   *zap.Logger
}

// NewRetriever erstellt einen neuen Retriever.
func NewRetriever(articles ArticleRepository, embedder Embedder, logger *zap.Logger) *Retriever {
	return &Retriever{Articles: articles, Embedder: embedder, Logger: logger}
}

// Select gibt die zu den Kriterien passenden Artikel in definierter
// Reihenfolge zurück.
func (r *Retriever) Select(ctx context.Context, criteria models.SelectionCriteria) ([]models.Article, error) {
	if criteria == nil {
		return nil, fmt.Errorf("%w: nil selection criteria", ErrValidation)
	}
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	switch c := criteria.(type) {
	case models.ByQueryText:
		vector, err := r.Embedder.GenerateEmbedding(ctx, c.Text)
		if err != nil {
			return nil, err
		}
		return r.rankBySimilarity(ctx, vector, c.CategoryIDs, c.Limit, c.SimilarityFloor)

	case models.ByUserPreferenceVector:
		return r.rankBySimilarity(ctx, c.Vector, nil, c.Limit, c.SimilarityFloor)

	case models.ByIDs:
		return r.selectByIDs(ctx, c.IDs)

	case models.ByCategory:
		articles, err := r.Articles.FindByCategories(ctx, c.CategoryIDs, c.Limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return articles, nil

	default:
		return nil, fmt.Errorf("%w: unsupported criteria type %T", ErrValidation, criteria)
	}
}

// rankBySimilarity filtert per Similarity-Floor, sortiert stabil aufsteigend
// nach Distanz (Tie-Break: ID aufsteigend) und kappt auf limit.
func (r *Retriever) rankBySimilarity(ctx context.Context, vector []float32, categoryIDs []uint, limit int, similarityFloor float64) ([]models.Article, error) {
	scored, err := r.Articles.SearchByVector(ctx, vector, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	maxDistance := 1.0 - similarityFloor
	kept := scored[:0]
	for _, s := range scored {
		if s.Distance <= maxDistance {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Distance != kept[j].Distance {
			return kept[i].Distance < kept[j].Distance
		}
		return kept[i].ID < kept[j].ID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	articles := make([]models.Article, len(kept))
	for i, s := range kept {
		articles[i] = s.Article
	}

	r.Logger.Debug("Similarity ranking completed",
		zap.Int("candidates", len(scored)),
		zap.Int("returned", len(articles)),
		zap.Float64("similarity_floor", similarityFloor))

	return articles, nil
}

// selectByIDs holt Artikel per Primärschlüssel und stellt die Reihenfolge der
// Eingabeliste wieder her; unbekannte IDs werden übersprungen.
func (r *Retriever) selectByIDs(ctx context.Context, ids []uint) ([]models.Article, error) {
	found, err := r.Articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	byID := make(map[uint]models.Article, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	ordered := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}
