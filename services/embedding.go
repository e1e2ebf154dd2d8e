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
	"audiobot/models"
)

// Embedder wandelt Text in einen Embedding-Vektor fester Länge um.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingClient spricht einen OpenAI-kompatiblen Embeddings-Endpoint an.
type EmbeddingClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Embedder = (*EmbeddingClient)(nil)

// NewEmbeddingClient erstellt einen wiederverwendbaren Embedding-Client.
func NewEmbeddingClient(cfg *config.Config, logger *zap.Logger) *EmbeddingClient {
	return &EmbeddingClient{
		endpoint:   cfg.EmbeddingsURL,
		apiKey:     cfg.EmbeddingsKey,
		model:      cfg.EmbeddingsModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// GenerateEmbedding erzeugt einen Vektor für den gegebenen Text.
// Leere oder reine Whitespace-Eingabe gilt als ErrEmbeddingUnavailable.
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input text", ErrEmbeddingUnavailable)
	}

	body, err := json.Marshal(embeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Embedding request rejected",
			zap.String("status", resp.Status),
			zap.ByteString("body", payload))
		return nil, fmt.Errorf("%w: status %s", ErrEmbeddingUnavailable, resp.Status)
	}

	var er embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrEmbeddingUnavailable, err)
	}
	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrEmbeddingUnavailable)
	}

	vec := er.Data[0].Embedding
	if len(vec) != models.EmbeddingDimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d",
			ErrEmbeddingUnavailable, len(vec), models.EmbeddingDimensions)
	}

	return vec, nil
}
