package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"audiobot/config"
	"audiobot/models"
	"audiobot/providers/parallelapi"
	"audiobot/services"
	"audiobot/storage"
)

// Ingest-CLI: liest eine JSON-Datei mit Extract-Ergebnissen oder sucht live
// über die Parallel API und schreibt die Artikel atomar in den Store.
func main() {
	inputFile := flag.String("file", "", "JSON file with extract results to ingest")
	query := flag.String("query", "", "search query for live ingest via the Parallel API")
	maxArticles := flag.Int("max", 10, "maximum number of articles for live ingest")
	targetMinutes := flag.Int("minutes", 0, "summary length in minutes (0 keeps the title as summary)")
	categoryID := flag.Uint("category", 0, "category id assigned to all ingested articles (0 = none)")
	flag.Parse()

	if (*inputFile == "") == (*query == "") {
		log.Fatal("Genau eines von -file oder -query angeben.")
	}

	log.Println("Starte Ingest-Prozess...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Fehler beim Initialisieren des Loggers: %v", err)
	}
	defer logging.Sync()

	// 1. Datenbank verbinden
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Fehler beim Verbinden mit der Datenbank: %v", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Fehler beim Anlegen der vector-Extension: %v", err)
	}
	db.AutoMigrate(&models.Category{}, &models.Article{})

	// 2. Seed-Items beschaffen
	seeds, err := loadSeeds(cfg, logging, *inputFile, *query, *maxArticles)
	if err != nil {
		log.Fatalf("Fehler beim Beschaffen der Seed-Items: %v", err)
	}
	if len(seeds) == 0 {
		log.Println("Keine Seed-Items gefunden, nichts zu tun.")
		return
	}
	log.Printf("%d Seed-Items geladen.", len(seeds))

	// 3. Batch verarbeiten und atomar committen
	articleRepo := storage.NewArticleRepository(db)
	embedder := services.NewEmbeddingClient(cfg, logging)
	summarizer := services.NewSummarizerClient(cfg, logging)
	ingestService := services.NewPodcastService(
		nil, nil, summarizer, embedder, nil,
		articleRepo, nil, logging, cfg.AudioOutputDir)

	opts := services.BatchOptions{TargetMinutes: *targetMinutes}
	if *categoryID > 0 {
		id := *categoryID
		opts.CategoryID = &id
	}

	result, err := ingestService.RunBatch(context.Background(), seeds, opts)
	if err != nil {
		log.Fatalf("Fehler beim Batch-Commit: %v", err)
	}

	for _, msg := range result.Errors {
		log.Printf("Übersprungen: %s", msg)
	}
	log.Printf("Ingest abgeschlossen: %d von %d Artikeln gespeichert, %d Fehler.",
		result.ArticlesProcessed, result.ArticlesFound, len(result.Errors))
}

func loadSeeds(cfg *config.Config, logging *zap.Logger, inputFile, query string, maxArticles int) ([]services.SeedItem, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		var results []parallelapi.ExtractResult
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("parse input file: %w", err)
		}
		return parallelapi.SeedItems(results), nil
	}

	fetcher := parallelapi.NewFetcher(cfg, logging)
	return fetcher.Search(context.Background(), query, maxArticles)
}
