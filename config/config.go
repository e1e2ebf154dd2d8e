package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"8000"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// ElevenLabs Text-to-Speech
	ElevenLabsBaseURL string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io"`
	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY" required:"true"`
	ElevenLabsVoiceID string `envconfig:"ELEVENLABS_VOICE_ID" default:"21m00Tcm4TlvDq8ikWAM"`
	ElevenLabsModelID string `envconfig:"ELEVENLABS_MODEL_ID" default:"eleven_multilingual_v2"`

	// OpenAI-kompatible Endpoints für Embeddings und Zusammenfassungen
	EmbeddingsURL   string `envconfig:"EMBEDDINGS_URL" default:"https://api.openai.com/v1/embeddings"`
	EmbeddingsKey   string `envconfig:"EMBEDDINGS_API_KEY" required:"true"`
	EmbeddingsModel string `envconfig:"EMBEDDINGS_MODEL" default:"text-embedding-3-small"`

	ChatURL   string `envconfig:"CHAT_URL" default:"https://api.openai.com/v1/chat/completions"`
	ChatKey   string `envconfig:"CHAT_API_KEY"`
	ChatModel string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	// Parallel Search/Extract API für frische News-Artikel
	ParallelBaseURL string `envconfig:"PARALLEL_BASE_URL" default:"https://api.parallel.ai"`
	ParallelAPIKey  string `envconfig:"PARALLEL_API_KEY"`

	// S3-Speicher für gerenderte Podcast-Audios
	S3Bucket   string `envconfig:"AWS_S3_BUCKET" required:"true"`
	S3Key      string `envconfig:"AWS_S3_ACCESS_KEY" required:"true"`
	S3Secret   string `envconfig:"AWS_S3_SECRET_ACCESS_KEY" required:"true"`
	S3Region   string `envconfig:"AWS_S3_REGION" default:"us-west-2"`
	S3Endpoint string `envconfig:"AWS_S3_ENDPOINT"` // leer = Standard-AWS-Endpoint

	AudioOutputDir string `envconfig:"AUDIO_OUTPUT_DIR" default:"generated_audio"`

	// Geplanter Ingest-and-Narrate-Lauf (leer = deaktiviert)
	NewsCronSchedule  string `envconfig:"NEWS_CRON_SCHEDULE"`
	NewsQuery         string `envconfig:"NEWS_QUERY" default:"AI and technology news"`
	NewsMaxArticles   int    `envconfig:"NEWS_MAX_ARTICLES" default:"10"`
	NewsTargetMinutes int    `envconfig:"NEWS_TARGET_MINUTES" default:"2"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
