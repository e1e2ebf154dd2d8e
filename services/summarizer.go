package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"audiobot/config"
)

// wordsPerMinute ist die angenommene Sprechgeschwindigkeit der Narration.
const wordsPerMinute = 150

// Summarizer erzeugt vorlesegeeignete Zusammenfassungen mit Ziel-Dauer.
type Summarizer interface {
	CreateAudioSummary(ctx context.Context, text, title string, targetMinutes int) (string, error)
}

// SummarizerClient spricht einen OpenAI-kompatiblen Chat-Completions-Endpoint an.
type SummarizerClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Summarizer = (*SummarizerClient)(nil)

// NewSummarizerClient erstellt einen Summarizer-Client. Ohne eigenen
// CHAT_API_KEY wird der Embeddings-Key verwendet.
func NewSummarizerClient(cfg *config.Config, logger *zap.Logger) *SummarizerClient {
	apiKey := cfg.ChatKey
	if apiKey == "" {
		apiKey = cfg.EmbeddingsKey
	}
	return &SummarizerClient{
		endpoint:   cfg.ChatURL,
		apiKey:     apiKey,
		model:      cfg.ChatModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// CreateAudioSummary fasst einen Artikel auf ca. targetMinutes Sprechminuten
// zusammen (150 Wörter pro Minute, fließende Prosa ohne Formatierung).
func (c *SummarizerClient) CreateAudioSummary(ctx context.Context, text, title string, targetMinutes int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty text provided for summarization")
	}
	if targetMinutes <= 0 {
		targetMinutes = 2
	}
	targetWords := targetMinutes * wordsPerMinute

	systemPrompt := "You are an expert news summarizer creating content for audio podcasts. " +
		"Create engaging, natural-sounding summaries that work well when read aloud. " +
		"Use clear, conversational language. Avoid complex formatting or special characters."

	userPrompt := fmt.Sprintf(
		"Summarize the following article in approximately %d words "+
			"(for a %d-minute audio narration at %d words per minute).\n\n"+
			"Requirements:\n"+
			"- Make it engaging and natural for audio listening\n"+
			"- Use conversational language\n"+
			"- Include key facts and insights\n"+
			"- Start with a brief hook\n"+
			"- End with a conclusion or key takeaway\n"+
			"- Avoid bullet points, use flowing prose\n\n"+
			"Title: %s\n\nArticle:\n%s",
		targetWords, targetMinutes, wordsPerMinute, title, text)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Summarization request rejected",
			zap.String("status", resp.Status),
			zap.ByteString("body", payload))
		return "", fmt.Errorf("summarization failed with status %s", resp.Status)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode summarization response: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("summarization returned no content")
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
