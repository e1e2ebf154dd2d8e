package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audiobot/models"
)

type fakeArticleRepo struct {
	scored    []models.ScoredArticle
	articles  []models.Article
	searchErr error
	findErr   error
	batchErr  error
	created   []*models.Article
}

func (f *fakeArticleRepo) SearchByVector(_ context.Context, _ []float32, _ []uint) ([]models.ScoredArticle, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	// Kopie, damit das In-Place-Filtern des Aufrufers den Fake nicht verändert
	out := make([]models.ScoredArticle, len(f.scored))
	copy(out, f.scored)
	return out, nil
}

func (f *fakeArticleRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Article, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var found []models.Article
	for _, a := range f.articles {
		for _, id := range ids {
			if a.ID == id {
				found = append(found, a)
			}
		}
	}
	return found, nil
}

func (f *fakeArticleRepo) FindByCategories(_ context.Context, _ []uint, limit int) ([]models.Article, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if limit > 0 && len(f.articles) > limit {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

func (f *fakeArticleRepo) Create(_ context.Context, article *models.Article) error {
	f.created = append(f.created, article)
	return nil
}

func (f *fakeArticleRepo) CreateBatch(_ context.Context, articles []*models.Article) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for i, a := range articles {
		a.ID = uint(len(f.created) + i + 1)
	}
	f.created = append(f.created, articles...)
	return nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return f.vector, f.err
}

func scoredArticle(id uint, distance float64) models.ScoredArticle {
	return models.ScoredArticle{
		Article:  models.Article{ID: id},
		Distance: distance,
	}
}

func newTestRetriever(repo *fakeArticleRepo, embedder Embedder) *Retriever {
	return NewRetriever(repo, embedder, zap.NewNop())
}

func TestSelectByQueryTextRanksByDistance(t *testing.T) {
	repo := &fakeArticleRepo{scored: []models.ScoredArticle{
		scoredArticle(1, 0.42),
		scoredArticle(2, 0.10),
		scoredArticle(3, 0.25),
	}}
	r := newTestRetriever(repo, &fakeEmbedder{vector: []float32{0.1}})

	articles, err := r.Select(context.Background(), models.ByQueryText{Text: "chips", Limit: 10})
	require.NoError(t, err)

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	assert.Equal(t, []uint{2, 3, 1}, ids)
}

func TestSelectRankingTieBreaksByID(t *testing.T) {
	repo := &fakeArticleRepo{scored: []models.ScoredArticle{
		scoredArticle(9, 0.2),
		scoredArticle(4, 0.2),
		scoredArticle(7, 0.2),
	}}
	r := newTestRetriever(repo, &fakeEmbedder{vector: []float32{0.1}})

	articles, err := r.Select(context.Background(), models.ByQueryText{Text: "tie"})
	require.NoError(t, err)

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	assert.Equal(t, []uint{4, 7, 9}, ids)
}

func TestSelectAppliesSimilarityFloor(t *testing.T) {
	repo := &fakeArticleRepo{scored: []models.ScoredArticle{
		scoredArticle(1, 0.10),
		scoredArticle(2, 0.30), // genau auf der Grenze, bleibt drin
		scoredArticle(3, 0.31),
		scoredArticle(4, 0.90),
	}}
	r := newTestRetriever(repo, &fakeEmbedder{vector: []float32{0.1}})

	articles, err := r.Select(context.Background(), models.ByQueryText{
		Text:            "filtered",
		SimilarityFloor: 0.7,
	})
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, uint(1), articles[0].ID)
	assert.Equal(t, uint(2), articles[1].ID)
}

func TestSelectAppliesLimit(t *testing.T) {
	repo := &fakeArticleRepo{scored: []models.ScoredArticle{
		scoredArticle(1, 0.1),
		scoredArticle(2, 0.2),
		scoredArticle(3, 0.3),
	}}
	r := newTestRetriever(repo, &fakeEmbedder{vector: []float32{0.1}})

	articles, err := r.Select(context.Background(), models.ByQueryText{Text: "limited", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestSelectEmptyResultIsNotAnError(t *testing.T) {
	r := newTestRetriever(&fakeArticleRepo{}, &fakeEmbedder{vector: []float32{0.1}})

	articles, err := r.Select(context.Background(), models.ByQueryText{Text: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSelectByIDsRestoresInputOrder(t *testing.T) {
	repo := &fakeArticleRepo{articles: []models.Article{
		{ID: 2}, {ID: 5}, {ID: 9},
	}}
	r := newTestRetriever(repo, &fakeEmbedder{})

	articles, err := r.Select(context.Background(), models.ByIDs{IDs: []uint{5, 2, 9}})
	require.NoError(t, err)

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	assert.Equal(t, []uint{5, 2, 9}, ids)
}

func TestSelectByIDsSkipsMissing(t *testing.T) {
	repo := &fakeArticleRepo{articles: []models.Article{
		{ID: 5}, {ID: 9},
	}}
	r := newTestRetriever(repo, &fakeEmbedder{})

	articles, err := r.Select(context.Background(), models.ByIDs{IDs: []uint{5, 2, 9}})
	require.NoError(t, err)

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	assert.Equal(t, []uint{5, 9}, ids)
}

func TestSelectByUserPreferenceVectorSkipsEmbedder(t *testing.T) {
	repo := &fakeArticleRepo{scored: []models.ScoredArticle{scoredArticle(1, 0.1)}}
	embedder := &fakeEmbedder{err: errors.New("must not be called")}
	r := newTestRetriever(repo, embedder)

	vector := make([]float32, models.EmbeddingDimensions)
	articles, err := r.Select(context.Background(), models.ByUserPreferenceVector{Vector: vector})
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestSelectValidation(t *testing.T) {
	r := newTestRetriever(&fakeArticleRepo{}, &fakeEmbedder{})

	cases := []struct {
		name     string
		criteria models.SelectionCriteria
	}{
		{"nil criteria", nil},
		{"negative limit", models.ByQueryText{Text: "x", Limit: -1}},
		{"floor above one", models.ByQueryText{Text: "x", SimilarityFloor: 1.5}},
		{"wrong vector dimensions", models.ByUserPreferenceVector{Vector: []float32{1, 2, 3}}},
		{"empty id list", models.ByIDs{}},
		{"empty category list", models.ByCategory{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Select(context.Background(), tc.criteria)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSelectWrapsStorageErrors(t *testing.T) {
	repo := &fakeArticleRepo{searchErr: errors.New("connection refused")}
	r := newTestRetriever(repo, &fakeEmbedder{vector: []float32{0.1}})

	_, err := r.Select(context.Background(), models.ByQueryText{Text: "x"})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSelectPropagatesEmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: ErrEmbeddingUnavailable}
	r := newTestRetriever(&fakeArticleRepo{}, embedder)

	_, err := r.Select(context.Background(), models.ByQueryText{Text: "x"})
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}
