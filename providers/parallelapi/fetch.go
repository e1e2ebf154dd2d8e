package parallelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"audiobot/config"
	"audiobot/services"
)

// maxFullContentChars begrenzt full_content-Fallbacks ohne Excerpt.
const maxFullContentChars = 10000

var httpClient = &http.Client{Timeout: 120 * time.Second}

// Fetcher kapselt die Parallel Search- und Extract-APIs.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Parallel-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den eindeutigen Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "parallel"
}

// Search sucht Artikel zur Query, extrahiert deren Inhalte und gibt
// standardisierte Seed-Items zurück.
func (f *Fetcher) Search(ctx context.Context, query string, maxResults int) ([]services.SeedItem, error) {
	if f.Config.ParallelAPIKey == "" {
		return nil, fmt.Errorf("parallel api key is not configured")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	log := f.Logger.With(zap.String("query", query))

	var sr searchResponse
	err := f.post(ctx, "/v1beta/search", searchRequest{
		Objective:  query,
		MaxResults: maxResults,
		Excerpts:   excerptOptions{MaxCharsPerResult: 8000},
	}, &sr)
	if err != nil {
		return nil, fmt.Errorf("parallel search: %w", err)
	}
	log.Info("Parallel search returned results", zap.Int("count", len(sr.Results)))
	if len(sr.Results) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, maxResults)
	for _, r := range sr.Results {
		if len(urls) == maxResults {
			break
		}
		urls = append(urls, r.URL)
	}

	var er extractResponse
	err = f.post(ctx, "/v1beta/extract", extractRequest{
		URLs:        urls,
		Objective:   fmt.Sprintf("Extract detailed content for: %s", query),
		Excerpts:    excerptOptions{MaxCharsPerResult: 50000},
		FullContent: true,
	}, &er)
	if err != nil {
		return nil, fmt.Errorf("parallel extract: %w", err)
	}
	log.Info("Parallel extract returned results", zap.Int("count", len(er.Results)))

	return SeedItems(er.Results), nil
}

// SeedItems wandelt Extract-Ergebnisse in Seed-Items um: excerpts[0] wird der
// Artikeltext, sonst gekürzter full_content; Ergebnisse ohne Text entfallen.
func SeedItems(results []ExtractResult) []services.SeedItem {
	seeds := make([]services.SeedItem, 0, len(results))
	for _, r := range results {
		text := ""
		if len(r.Excerpts) > 0 {
			text = r.Excerpts[0]
		} else if r.FullContent != "" {
			text = r.FullContent
			if runes := []rune(text); len(runes) > maxFullContentChars {
				text = string(runes[:maxFullContentChars])
			}
		}

		seed := services.SeedItem{
			URL:   r.URL,
			Title: r.Title,
			Text:  text,
		}
		if r.PublishDate != "" {
			if ts, err := time.Parse(time.RFC3339, r.PublishDate); err == nil {
				seed.DateWritten = &ts
			}
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

func (f *Fetcher) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := strings.TrimRight(f.Config.ParallelBaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", f.Config.ParallelAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
