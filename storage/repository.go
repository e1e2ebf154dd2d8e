package storage

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"audiobot/models"
	"audiobot/services"
)

// ArticleRepository implementiert services.ArticleRepository auf GORM/Postgres.
type ArticleRepository struct {
	db *gorm.DB
}

var _ services.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository erstellt ein neues Artikel-Repository.
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// SearchByVector liefert alle Artikel mit gesetztem Vektor samt exakter
// Cosine-Distanz zum Query-Vektor. Bewusst kein ORDER BY auf dem
// Distanz-Ausdruck: der Query-Planner garantiert mit pgvector keine exakte
// Reihenfolge, sortiert wird im Aufrufer.
func (r *ArticleRepository) SearchByVector(ctx context.Context, vector []float32, categoryIDs []uint) ([]models.ScoredArticle, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Select("articles.*, (vector <=> ?) AS distance", pgvector.NewVector(vector)).
		Where("vector IS NOT NULL").
		Preload("Category")
	if len(categoryIDs) > 0 {
		query = query.Where("category_id IN ?", categoryIDs)
	}

	var scored []models.ScoredArticle
	if err := query.Find(&scored).Error; err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return scored, nil
}

// FindByIDs holt Artikel per Primärschlüssel; die Reihenfolge ist
// Store-Reihenfolge, der Aufrufer stellt die Eingabereihenfolge wieder her.
func (r *ArticleRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("find articles by ids: %w", err)
	}
	return articles, nil
}

// FindByCategories holt Artikel der Kategorien, neueste zuerst, gekappt auf limit.
func (r *ArticleRepository) FindByCategories(ctx context.Context, categoryIDs []uint, limit int) ([]models.Article, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id IN ?", categoryIDs).
		Order("date_created desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("find articles by categories: %w", err)
	}
	return articles, nil
}

// FindByID holt einen einzelnen Artikel; gorm.ErrRecordNotFound wird durchgereicht.
func (r *ArticleRepository) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Preload("Category").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// List gibt Artikel mit Offset/Limit-Pagination zurück.
func (r *ArticleRepository) List(ctx context.Context, offset, limit int) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Create legt einen Artikel an. Die Vektor-Dimension wird vor dem Insert
// geprüft; abweichende Dimensionen werden abgelehnt, nie gepolstert.
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := checkDimensions(article); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// CreateBatch legt alle Artikel in einer Transaktion an: schlägt ein Insert
// fehl, wird der gesamte Batch zurückgerollt.
func (r *ArticleRepository) CreateBatch(ctx context.Context, articles []*models.Article) error {
	for _, article := range articles {
		if err := checkDimensions(article); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, article := range articles {
			if err := tx.Create(article).Error; err != nil {
				return fmt.Errorf("create article from %q: %w", article.Source, err)
			}
		}
		return nil
	})
}

// Delete löscht einen Artikel per ID.
func (r *ArticleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func checkDimensions(article *models.Article) error {
	if article.Vector == nil {
		return nil
	}
	if got := len(article.Vector.Slice()); got != models.EmbeddingDimensions {
		return fmt.Errorf("%w: vector has %d dimensions, want %d",
			services.ErrValidation, got, models.EmbeddingDimensions)
	}
	return nil
}

// PodcastRepository implementiert services.PodcastRepository auf GORM/Postgres.
type PodcastRepository struct {
	db *gorm.DB
}

var _ services.PodcastRepository = (*PodcastRepository)(nil)

// NewPodcastRepository erstellt ein neues Podcast-Repository.
func NewPodcastRepository(db *gorm.DB) *PodcastRepository {
	return &PodcastRepository{db: db}
}

// Create persistiert einen Provenance-Datensatz.
func (r *PodcastRepository) Create(ctx context.Context, podcast *models.Podcast) error {
	if err := r.db.WithContext(ctx).Create(podcast).Error; err != nil {
		return fmt.Errorf("create podcast record: %w", err)
	}
	return nil
}

// FindByID holt einen Podcast-Datensatz per ID.
func (r *PodcastRepository) FindByID(ctx context.Context, id uint) (*models.Podcast, error) {
	var podcast models.Podcast
	if err := r.db.WithContext(ctx).First(&podcast, id).Error; err != nil {
		return nil, err
	}
	return &podcast, nil
}

// FindByUser gibt die Podcasts eines Nutzers zurück, neueste zuerst.
func (r *PodcastRepository) FindByUser(ctx context.Context, userID uint, limit int) ([]models.Podcast, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_created desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var podcasts []models.Podcast
	if err := query.Find(&podcasts).Error; err != nil {
		return nil, fmt.Errorf("find podcasts by user: %w", err)
	}
	return podcasts, nil
}

// PreferenceRepository liest Nutzer-Präferenz-Vektoren.
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository erstellt ein neues Präferenz-Repository.
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetByUserID holt den Präferenz-Vektor eines Nutzers;
// gorm.ErrRecordNotFound, falls keiner hinterlegt ist.
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID uint) (*models.UserPreference, error) {
	var pref models.UserPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}
