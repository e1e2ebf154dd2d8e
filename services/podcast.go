package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"audiobot/models"
)

// AudioUploader lädt gerenderte Audios in den Objektspeicher hoch und gibt
// die öffentliche URL zurück.
type AudioUploader interface {
	UploadPodcast(ctx context.Context, data []byte) (string, error)
}

// PodcastRepository ist die Speicherschicht für Provenance-Datensätze.
type PodcastRepository interface {
	Create(ctx context.Context, podcast *models.Podcast) error
}

// SeedItem ist ein extrahierter Roh-Artikel für die Batch-Verarbeitung.
type SeedItem struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	DateWritten *time.Time `json:"date_written,omitempty"`
}

// BatchOptions steuert die Batch-Verarbeitung von Seed-Items.
type BatchOptions struct {
	// TargetMinutes > 0 erzeugt pro Artikel eine Audio-Zusammenfassung
	// dieser Länge; 0 übernimmt den Titel als Summary ohne LLM-Aufruf.
	TargetMinutes  int
	VoiceID        string
	GenerateAudio  bool
	CategoryID     *uint
	RelevanceScore *int
}

// BatchArticleInfo beschreibt einen erfolgreich verarbeiteten Batch-Artikel.
type BatchArticleInfo struct {
	ArticleID        uint   `json:"article_id"`
	Title            string `json:"title"`
	Source           string `json:"source"`
	AudioFilename    string `json:"audio_filename,omitempty"`
	SummaryWordCount int    `json:"summary_word_count,omitempty"`
}

// BatchResult fasst einen Batch-Lauf zusammen. Null Erfolge sind ein gültiges
// Ergebnis, kein Fehler.
type BatchResult struct {
	Success           bool               `json:"success"`
	ArticlesFound     int                `json:"articles_found"`
	ArticlesProcessed int                `json:"articles_processed"`
	ArticlesWithAudio int                `json:"articles_with_audio"`
	ArticleIDs        []uint             `json:"article_ids"`
	Articles          []BatchArticleInfo `json:"articles"`
	Errors            []string           `json:"errors"`
}

// PodcastService orchestriert Retrieval, Skript-Assembly, Synthese, Upload
// und Provenance. Alle Abhängigkeiten werden einmal beim Prozessstart
// konstruiert und injiziert.
type PodcastService struct {
	Retriever      *Retriever
	Synthesizer    Synthesizer
	Summarizer     Summarizer
	Embedder       Embedder
	Uploader       AudioUploader
	Articles       ArticleRepository
	Podcasts       PodcastRepository
	Logger         *zap.Logger
	AudioOutputDir string
}

// NewPodcastService erstellt eine neue Instanz des PodcastService.
func NewPodcastService(
	retriever *Retriever,
	synthesizer Synthesizer,
	summarizer Summarizer,
	embedder Embedder,
	uploader AudioUploader,
	articles ArticleRepository,
	podcasts PodcastRepository,
	logger *zap.Logger,
	audioOutputDir string,
) *PodcastService {
	return &PodcastService{
		Retriever:      retriever,
		Synthesizer:    synthesizer,
		Summarizer:     summarizer,
		Embedder:       embedder,
		Uploader:       uploader,
		Articles:       articles,
		Podcasts:       podcasts,
		Logger:         logger,
		AudioOutputDir: audioOutputDir,
	}
}

// Run führt die Pipeline für eine Auswahl einmal durch:
// Auswahl -> Skript -> Synthese -> Upload -> Provenance-Datensatz.
// Jeder Fehler bricht den Lauf komplett ab; es wird nie ein partieller
// Podcast-Datensatz angelegt.
func (s *PodcastService) Run(ctx context.Context, criteria models.SelectionCriteria, voiceID string, userID *uint) (*models.Podcast, error) {
	articles, err := s.Retriever.Select(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNoCandidates
	}

	doc := AssembleScript(articles)

	audio, err := s.Synthesizer.Synthesize(ctx, doc.Script, voiceID)
	if err != nil {
		return nil, err
	}

	s3Link, err := s.Uploader.UploadPodcast(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("%w: upload podcast audio: %v", ErrStorage, err)
	}

	podcast := &models.Podcast{
		UserID: userID,
		Script: doc.Script,
		S3Link: s3Link,
	}
	if err := s.Podcasts.Create(ctx, podcast); err != nil {
		return nil, fmt.Errorf("%w: persist podcast record: %v", ErrStorage, err)
	}

	s.Logger.Info("Podcast generated",
		zap.Uint("podcast_id", podcast.ID),
		zap.Int("article_count", len(doc.ArticleIDs)),
		zap.String("s3_link", s3Link))

	return podcast, nil
}

// RunBatch verarbeitet Seed-Items unabhängig voneinander: Fehler bei
// Zusammenfassung, Embedding oder Synthese eines Items werden mit Index und
// Quelle protokolliert, der Batch läuft weiter. Erst der abschließende
// Commit aller erfolgreichen Artikel ist atomar; schlägt er fehl, wird
// keiner persistiert.
func (s *PodcastService) RunBatch(ctx context.Context, seeds []SeedItem, opts BatchOptions) (*BatchResult, error) {
	result := &BatchResult{
		ArticlesFound: len(seeds),
		ArticleIDs:    []uint{},
		Articles:      []BatchArticleInfo{},
		Errors:        []string{},
	}

	type prepared struct {
		article *models.Article
		info    BatchArticleInfo
	}
	var ready []prepared

	for idx, seed := range seeds {
		if strings.TrimSpace(seed.Text) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): no text content", idx, seed.URL))
			continue
		}

		summary := seed.Title
		if opts.TargetMinutes > 0 && s.Summarizer != nil {
			generated, err := s.Summarizer.CreateAudioSummary(ctx, seed.Text, seed.Title, opts.TargetMinutes)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): summarize: %v", idx, seed.URL, err))
				continue
			}
			summary = generated
		}

		vector, err := s.Embedder.GenerateEmbedding(ctx, seed.Text)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): embed: %v", idx, seed.URL, err))
			continue
		}

		info := BatchArticleInfo{
			Title:            seed.Title,
			Source:           seed.URL,
			SummaryWordCount: len(strings.Fields(summary)),
		}

		if opts.GenerateAudio {
			audio, err := s.Synthesizer.Synthesize(ctx, summary, opts.VoiceID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): synthesize: %v", idx, seed.URL, err))
				continue
			}
			filename := fmt.Sprintf("article_%d_%s.mp3", idx+1, time.Now().Format("20060102_150405"))
			if err := s.writeAudioFile(filename, audio); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): write audio: %v", idx, seed.URL, err))
				continue
			}
			info.AudioFilename = filename
			result.ArticlesWithAudio++
		}

		vec := pgvector.NewVector(vector)
		ready = append(ready, prepared{
			article: &models.Article{
				Text:           seed.Text,
				Summary:        summary,
				Source:         seed.URL,
				CategoryID:     opts.CategoryID,
				RelevanceScore: opts.RelevanceScore,
				DateWritten:    seed.DateWritten,
				Vector:         &vec,
			},
			info: info,
		})
	}

	if len(ready) > 0 {
		articles := make([]*models.Article, len(ready))
		for i, p := range ready {
			articles[i] = p.article
		}
		if err := s.Articles.CreateBatch(ctx, articles); err != nil {
			return nil, fmt.Errorf("%w: batch commit: %v", ErrStorage, err)
		}
		for i, p := range ready {
			p.info.ArticleID = articles[i].ID
			result.ArticleIDs = append(result.ArticleIDs, articles[i].ID)
			result.Articles = append(result.Articles, p.info)
		}
	}

	result.ArticlesProcessed = len(ready)
	result.Success = result.ArticlesProcessed > 0

	s.Logger.Info("Batch run completed",
		zap.Int("articles_found", result.ArticlesFound),
		zap.Int("articles_processed", result.ArticlesProcessed),
		zap.Int("articles_with_audio", result.ArticlesWithAudio),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// GenerateAudioFile rendert Roh-Text als Audio-Datei im Output-Verzeichnis
// und gibt den Dateinamen zurück. Es entsteht kein Provenance-Datensatz.
func (s *PodcastService) GenerateAudioFile(ctx context.Context, text, filename, voiceID string) (string, error) {
	audio, err := s.Synthesizer.Synthesize(ctx, text, voiceID)
	if err != nil {
		return "", err
	}

	if filename == "" {
		filename = fmt.Sprintf("audio_%s.mp3", time.Now().Format("20060102_150405"))
	}
	if err := s.writeAudioFile(filename, audio); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return filename, nil
}

func (s *PodcastService) writeAudioFile(filename string, audio []byte) error {
	if err := os.MkdirAll(s.AudioOutputDir, 0o755); err != nil {
		return fmt.Errorf("create audio output dir: %w", err)
	}
	path := filepath.Join(s.AudioOutputDir, filepath.Base(filename))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}
