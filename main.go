package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"audiobot/config"
	"audiobot/models"
	"audiobot/providers"
	"audiobot/providers/parallelapi"
	"audiobot/services"
	"audiobot/storage"

	"github.com/gin-gonic/gin"
	"github.com/pgvector/pgvector-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	podcastsGeneratedCounter prometheus.Counter
	articlesIngestedCounter  prometheus.Counter
)

func init() {
	podcastsGeneratedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "podcasts_generated_total",
			Help: "Total number of podcasts generated end-to-end.",
		},
	)
	articlesIngestedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_ingested_total",
			Help: "Total number of articles ingested into the store.",
		},
	)
	prometheus.MustRegister(podcastsGeneratedCounter, articlesIngestedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// statusForError mappt Pipeline-Fehlerarten auf HTTP-Status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNoCandidates):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEmbeddingUnavailable), errors.Is(err, services.ErrSynthesis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to article database.")

	// pgvector-Extension und Auto-Migration
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		logging.Fatal("Failed to create vector extension", zap.Error(err))
	}
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(&models.Category{}, &models.Article{}, &models.UserPreference{}, &models.Podcast{})

	// Seeding
	seedDefaultCategories(db, logging)

	// Setup Repositories
	articleRepo := storage.NewArticleRepository(db)
	podcastRepo := storage.NewPodcastRepository(db)
	preferenceRepo := storage.NewPreferenceRepository(db)

	// Setup Services
	uploader, err := storage.NewPodcastUploader(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	embedder := services.NewEmbeddingClient(cfg, logging)
	summarizer := services.NewSummarizerClient(cfg, logging)
	ttsClient := services.NewTTSClient(cfg, logging)
	retriever := services.NewRetriever(articleRepo, embedder, logging)
	podcastService := services.NewPodcastService(
		retriever, ttsClient, summarizer, embedder, uploader,
		articleRepo, podcastRepo, logging, cfg.AudioOutputDir)

	newsProvider := parallelapi.NewFetcher(cfg, logging)

	// Setup Router
	router := gin.Default()
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupHealthRoutes(router)
	setupVoiceRoutes(router, ttsClient, logging)
	setupArticleRoutes(router, articleRepo, preferenceRepo, retriever, embedder, logging)
	setupBatchRoutes(router, podcastService, newsProvider, logging)
	setupPodcastRoutes(router, podcastService, podcastRepo, preferenceRepo, cfg, logging)
	setupAudioRoutes(router, podcastService, cfg, logging)

	// Setup Cron
	if cfg.NewsCronSchedule != "" {
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.NewsCronSchedule, func() {
			logging.Info("Running scheduled news ingest...", zap.String("query", cfg.NewsQuery))
			runScheduledIngest(podcastService, newsProvider, cfg, logging)
		})
		cronScheduler.Start()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupHealthRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Audiobot API",
			"version": "1.0.0",
		})
	})
}

func setupVoiceRoutes(router *gin.Engine, tts *services.TTSClient, log *zap.Logger) {
	router.GET("/voices", func(c *gin.Context) {
		voices, err := tts.GetVoices(c.Request.Context())
		if err != nil {
			log.Error("Failed to fetch voices", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch voices"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"voices": voices})
	})
}

func setupArticleRoutes(
	router *gin.Engine,
	articles *storage.ArticleRepository,
	preferences *storage.PreferenceRepository,
	retriever *services.Retriever,
	embedder services.Embedder,
	log *zap.Logger,
) {
	rg := router.Group("/articles")

	// POST - Artikel anlegen, Embedding wird beim Insert berechnet
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Text           string     `json:"text" binding:"required"`
			Summary        string     `json:"summary"`
			Source         string     `json:"source"`
			CategoryID     *uint      `json:"category_id"`
			RelevanceScore *int       `json:"relevance_score"`
			DateWritten    *time.Time `json:"date_written"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'text' field is required."})
			return
		}
		if req.RelevanceScore != nil && (*req.RelevanceScore < 1 || *req.RelevanceScore > 10) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "relevance_score must be in [1,10]"})
			return
		}

		vector, err := embedder.GenerateEmbedding(c.Request.Context(), req.Text)
		if err != nil {
			log.Error("Embedding failed for new article", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate embedding"})
			return
		}
		vec := pgvector.NewVector(vector)

		article := models.Article{
			Text:           req.Text,
			Summary:        req.Summary,
			Source:         req.Source,
			CategoryID:     req.CategoryID,
			RelevanceScore: req.RelevanceScore,
			DateWritten:    req.DateWritten,
			Vector:         &vec,
		}
		if err := articles.Create(c.Request.Context(), &article); err != nil {
			log.Error("Failed to create article", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to create article"})
			return
		}

		articlesIngestedCounter.Inc()
		log.Info("Article created", zap.Uint("id", article.ID))
		c.JSON(http.StatusCreated, article)
	})

	// GET - Alle Artikel mit Pagination
	rg.GET("/", func(c *gin.Context) {
		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

		result, err := articles.List(c.Request.Context(), skip, limit)
		if err != nil {
			log.Error("Database query for articles failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// POST - Ähnlichkeitssuche über Query-Text
	rg.POST("/search", func(c *gin.Context) {
		var req struct {
			Query           string  `json:"query" binding:"required"`
			Limit           int     `json:"limit"`
			CategoryIDs     []uint  `json:"category_ids"`
			SimilarityFloor float64 `json:"similarity_floor"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'query' field is required."})
			return
		}
		if req.Limit == 0 {
			req.Limit = 10
		}

		result, err := retriever.Select(c.Request.Context(), models.ByQueryText{
			Text:            req.Query,
			Limit:           req.Limit,
			CategoryIDs:     req.CategoryIDs,
			SimilarityFloor: req.SimilarityFloor,
		})
		if err != nil {
			log.Error("Article search failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to search articles"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// GET - Artikel nach Nutzer-Präferenz-Vektor
	rg.GET("/user/:user_id", func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		threshold, err := strconv.ParseFloat(c.DefaultQuery("similarity_threshold", "0.7"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid similarity_threshold"})
			return
		}

		pref, err := preferences.GetByUserID(c.Request.Context(), uint(userID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No preference vector stored for user"})
				return
			}
			log.Error("Failed to load user preference", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		result, err := retriever.Select(c.Request.Context(), models.ByUserPreferenceVector{
			Vector:          pref.Vector.Slice(),
			Limit:           limit,
			SimilarityFloor: threshold,
		})
		if err != nil {
			log.Error("User preference search failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to fetch user articles"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// GET - Artikel nach Kategorien, neueste zuerst
	rg.GET("/category", func(c *gin.Context) {
		categoryIDs, err := parseUintList(c.QueryArray("category_ids"))
		if err != nil || len(categoryIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_ids required"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		result, err := retriever.Select(c.Request.Context(), models.ByCategory{
			CategoryIDs: categoryIDs,
			Limit:       limit,
		})
		if err != nil {
			log.Error("Category query failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to fetch articles"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// GET - Einzelner Artikel per ID
	rg.GET("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		article, err := articles.FindByID(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Database error while fetching article", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, article)
	})

	// DELETE - Artikel per ID löschen
	rg.DELETE("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		if err := articles.Delete(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
				return
			}
			log.Error("Failed to delete article", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		log.Info("Deleted article", zap.Uint64("id", id))
		c.Status(http.StatusNoContent)
	})
}

func setupBatchRoutes(router *gin.Engine, podcasts *services.PodcastService, provider providers.Provider, log *zap.Logger) {
	// POST - Batch-Ingest bereits extrahierter Ergebnisse (ohne Audio)
	router.POST("/articles/batch", func(c *gin.Context) {
		var req struct {
			Results               []parallelapi.ExtractResult `json:"results" binding:"required"`
			DefaultCategoryID     *uint                       `json:"default_category_id"`
			DefaultRelevanceScore *int                        `json:"default_relevance_score"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'results' field is required."})
			return
		}

		result, err := podcasts.RunBatch(c.Request.Context(), parallelapi.SeedItems(req.Results), services.BatchOptions{
			CategoryID:     req.DefaultCategoryID,
			RelevanceScore: req.DefaultRelevanceScore,
		})
		if err != nil {
			log.Error("Batch processing failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Batch processing failed"})
			return
		}

		articlesIngestedCounter.Add(float64(result.ArticlesProcessed))
		c.JSON(http.StatusOK, gin.H{
			"success":          result.Success,
			"articles_created": result.ArticlesProcessed,
			"article_ids":      result.ArticleIDs,
			"errors":           result.Errors,
		})
	})

	// POST - Kompletter Workflow: Suche -> Extraktion -> Zusammenfassung ->
	// Audio pro Artikel -> atomarer Store-Commit
	router.POST("/news/generate-with-audio", func(c *gin.Context) {
		var req struct {
			Query                 string `json:"query" binding:"required"`
			MaxArticles           int    `json:"max_articles"`
			CategoryID            *uint  `json:"category_id"`
			RelevanceScore        *int   `json:"relevance_score"`
			TargetDurationMinutes int    `json:"target_duration_minutes"`
			VoiceID               string `json:"voice_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'query' field is required."})
			return
		}
		if req.MaxArticles == 0 {
			req.MaxArticles = 10
		}
		if req.TargetDurationMinutes == 0 {
			req.TargetDurationMinutes = 2
		}

		seeds, err := provider.Search(c.Request.Context(), req.Query, req.MaxArticles)
		if err != nil {
			log.Error("News search failed", zap.String("query", req.Query), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "News search failed"})
			return
		}

		result, err := podcasts.RunBatch(c.Request.Context(), seeds, services.BatchOptions{
			TargetMinutes:  req.TargetDurationMinutes,
			VoiceID:        req.VoiceID,
			GenerateAudio:  true,
			CategoryID:     req.CategoryID,
			RelevanceScore: req.RelevanceScore,
		})
		if err != nil {
			log.Error("News workflow failed", zap.String("query", req.Query), zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "News workflow failed"})
			return
		}

		articlesIngestedCounter.Add(float64(result.ArticlesProcessed))
		c.JSON(http.StatusOK, gin.H{
			"success":             result.Success,
			"query":               req.Query,
			"articles_found":      result.ArticlesFound,
			"articles_processed":  result.ArticlesProcessed,
			"articles_with_audio": result.ArticlesWithAudio,
			"articles":            result.Articles,
			"errors":              result.Errors,
		})
	})
}

func setupPodcastRoutes(
	router *gin.Engine,
	podcastService *services.PodcastService,
	podcastRepo *storage.PodcastRepository,
	preferences *storage.PreferenceRepository,
	cfg *config.Config,
	log *zap.Logger,
) {
	generate := router.Group("/podcast/generate")

	respond := func(c *gin.Context, podcast *models.Podcast, articleCount int) {
		podcastsGeneratedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"podcast_id":    podcast.ID,
			"audio_path":    podcast.S3Link,
			"filename":      filepath.Base(podcast.S3Link),
			"article_count": articleCount,
		})
	}

	// POST - Podcast aus Nutzer-Präferenzen
	generate.POST("/user", func(c *gin.Context) {
		var req struct {
			UserID              uint    `json:"user_id" binding:"required"`
			Limit               int     `json:"limit"`
			SimilarityThreshold float64 `json:"similarity_threshold"`
			VoiceID             string  `json:"voice_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'user_id' field is required."})
			return
		}
		if req.Limit == 0 {
			req.Limit = 10
		}
		if req.SimilarityThreshold == 0 {
			req.SimilarityThreshold = 0.7
		}

		pref, err := preferences.GetByUserID(c.Request.Context(), req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No preference vector stored for user"})
				return
			}
			log.Error("Failed to load user preference", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		userID := req.UserID
		podcast, err := podcastService.Run(c.Request.Context(), models.ByUserPreferenceVector{
			Vector:          pref.Vector.Slice(),
			Limit:           req.Limit,
			SimilarityFloor: req.SimilarityThreshold,
		}, req.VoiceID, &userID)
		if err != nil {
			log.Error("Podcast generation from user preferences failed", zap.Uint("user_id", req.UserID), zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate podcast"})
			return
		}
		respond(c, podcast, req.Limit)
	})

	// POST - Podcast aus expliziter Artikel-ID-Liste
	generate.POST("/articles", func(c *gin.Context) {
		var req struct {
			ArticleIDs []uint `json:"article_ids" binding:"required"`
			VoiceID    string `json:"voice_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'article_ids' field is required."})
			return
		}

		podcast, err := podcastService.Run(c.Request.Context(), models.ByIDs{IDs: req.ArticleIDs}, req.VoiceID, nil)
		if err != nil {
			log.Error("Podcast generation from articles failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate podcast"})
			return
		}
		respond(c, podcast, len(req.ArticleIDs))
	})

	// POST - Podcast aus Kategorien
	generate.POST("/categories", func(c *gin.Context) {
		var req struct {
			CategoryIDs []uint `json:"category_ids" binding:"required"`
			Limit       int    `json:"limit"`
			VoiceID     string `json:"voice_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'category_ids' field is required."})
			return
		}
		if req.Limit == 0 {
			req.Limit = 10
		}

		podcast, err := podcastService.Run(c.Request.Context(), models.ByCategory{
			CategoryIDs: req.CategoryIDs,
			Limit:       req.Limit,
		}, req.VoiceID, nil)
		if err != nil {
			log.Error("Podcast generation from categories failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate podcast"})
			return
		}
		respond(c, podcast, req.Limit)
	})

	rg := router.Group("/podcasts")

	// GET - Provenance-Datensatz per ID
	rg.GET("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid podcast id"})
			return
		}
		podcast, err := podcastRepo.FindByID(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Podcast not found"})
				return
			}
			log.Error("Database error while fetching podcast", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, podcast)
	})

	// GET - Podcasts eines Nutzers, neueste zuerst
	rg.GET("/user/:user_id", func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		podcasts, err := podcastRepo.FindByUser(c.Request.Context(), uint(userID), limit)
		if err != nil {
			log.Error("Database query for user podcasts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, podcasts)
	})
}

func setupAudioRoutes(router *gin.Engine, podcasts *services.PodcastService, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/audio")

	// POST - Audio aus Roh-Text (kein Provenance-Datensatz)
	rg.POST("/generate", func(c *gin.Context) {
		var req struct {
			Text     string `json:"text" binding:"required"`
			Filename string `json:"filename"`
			VoiceID  string `json:"voice_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'text' field is required."})
			return
		}

		filename, err := podcasts.GenerateAudioFile(c.Request.Context(), req.Text, req.Filename, req.VoiceID)
		if err != nil {
			log.Error("Audio generation failed", zap.Error(err))
			c.JSON(statusForError(err), gin.H{"error": "Failed to generate audio"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"filename": filename,
			"message":  "Successfully generated audio from text",
		})
	})

	// GET - Generierte Audio-Datei herunterladen
	rg.GET("/download/:filename", func(c *gin.Context) {
		filename := filepath.Base(c.Param("filename"))
		path := filepath.Join(cfg.AudioOutputDir, filename)
		c.Header("Content-Type", "audio/mpeg")
		c.FileAttachment(path, filename)
	})
}

func runScheduledIngest(podcasts *services.PodcastService, provider providers.Provider, cfg *config.Config, log *zap.Logger) {
	ctx := context.Background()

	seeds, err := provider.Search(ctx, cfg.NewsQuery, cfg.NewsMaxArticles)
	if err != nil {
		log.Error("Scheduled news search failed", zap.Error(err))
		return
	}

	result, err := podcasts.RunBatch(ctx, seeds, services.BatchOptions{
		TargetMinutes: cfg.NewsTargetMinutes,
		GenerateAudio: true,
	})
	if err != nil {
		log.Error("Scheduled batch run failed", zap.Error(err))
		return
	}

	articlesIngestedCounter.Add(float64(result.ArticlesProcessed))
	log.Info("Scheduled news ingest completed",
		zap.Int("articles_found", result.ArticlesFound),
		zap.Int("articles_processed", result.ArticlesProcessed),
		zap.Int("errors", len(result.Errors)))
}

func parseUintList(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func seedDefaultCategories(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}
	categories := []models.Category{
		{Name: "Technology"},
		{Name: "Business"},
		{Name: "Science"},
		{Name: "World"},
	}
	if err := db.Create(&categories).Error; err != nil {
		logger.Warn("Failed to seed default categories", zap.Error(err))
	} else {
		logger.Info("Default categories seeded.")
	}
}
