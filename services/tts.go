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

// Synthesizer wandelt ein Skript in einen Audio-Bytestrom um.
// Ein Aufruf pro Skript, kein internes Chunking: schlägt die Synthese fehl,
// wird das gesamte Skript verworfen, nie nur teilweise gerendert.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, voiceID string) ([]byte, error)
}

// Voice beschreibt eine verfügbare TTS-Stimme.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// TTSClient kapselt die ElevenLabs Text-to-Speech API.
type TTSClient struct {
	baseURL        string
	apiKey         string
	defaultVoiceID string
	modelID        string
	httpClient     *http.Client
	logger         *zap.Logger
}

var _ Synthesizer = (*TTSClient)(nil)

// NewTTSClient erstellt einen neuen ElevenLabs-Client.
func NewTTSClient(cfg *config.Config, logger *zap.Logger) *TTSClient {
	return &TTSClient{
		baseURL:        strings.TrimRight(cfg.ElevenLabsBaseURL, "/"),
		apiKey:         cfg.ElevenLabsAPIKey,
		defaultVoiceID: cfg.ElevenLabsVoiceID,
		modelID:        cfg.ElevenLabsModelID,
		httpClient:     &http.Client{Timeout: 120 * time.Second},
		logger:         logger,
	}
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize rendert das Skript mit der angegebenen Stimme als MP3.
// Leeres Skript oder ein Upstream-Fehler liefern ErrSynthesis; die
// zurückgegebenen Bytes sind vollständig oder gar nicht vorhanden.
func (c *TTSClient) Synthesize(ctx context.Context, script, voiceID string) ([]byte, error) {
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: empty script", ErrSynthesis)
	}
	voice := voiceID
	if voice == "" {
		voice = c.defaultVoiceID
	}
	if voice == "" {
		return nil, fmt.Errorf("%w: no voice configured", ErrSynthesis)
	}

	body, err := json.Marshal(ttsRequest{Text: script, ModelID: c.modelID})
	if err != nil {
		return nil, fmt.Errorf("marshal tts payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", c.baseURL, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("TTS request rejected",
			zap.String("voice_id", voice),
			zap.String("status", resp.Status),
			zap.ByteString("body", payload))
		return nil, fmt.Errorf("%w: status %s", ErrSynthesis, resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio stream: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio stream", ErrSynthesis)
	}

	c.logger.Info("Synthesized narration audio",
		zap.String("voice_id", voice),
		zap.Int("script_chars", len(script)),
		zap.Int("audio_bytes", len(audio)))

	return audio, nil
}

type voicesResponse struct {
	Voices []struct {
		VoiceID  string `json:"voice_id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"voices"`
}

// GetVoices listet die verfügbaren ElevenLabs-Stimmen auf.
func (c *TTSClient) GetVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices request failed with status: %s", resp.Status)
	}

	var vr voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}

	voices := make([]Voice, 0, len(vr.Voices))
	for _, v := range vr.Voices {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return voices, nil
}
