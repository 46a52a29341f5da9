// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// placeholderAPIKey is the value shipped in .env.example; treat it as unset
// so a copied template does not look like a real credential.
const placeholderAPIKey = "your_groq_api_key_here"

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	Groq        GroqConfig
	TTSBaseURL  string
	Transcript  TranscriptConfig
}

// GroqConfig configures the generation and transcription collaborator.
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// TranscriptConfig controls the optional SQLite transcript archive.
type TranscriptConfig struct {
	DBPath    string // empty disables archiving
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	apiKey := getEnv("GROQ_API_KEY", "")
	if apiKey == placeholderAPIKey {
		apiKey = ""
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		Groq: GroqConfig{
			APIKey:  apiKey,
			BaseURL: getEnv("GROQ_BASE_URL", ""),
			Models:  splitList(getEnv("GROQ_MODELS", "")),
			Timeout: getEnvDuration("GROQ_TIMEOUT", 20*time.Second),
		},
		TTSBaseURL: getEnv("TTS_BASE_URL", ""),
		Transcript: TranscriptConfig{
			DBPath:    getEnv("TRANSCRIPT_DB_PATH", ""),
			QueueSize: getEnvInt("ARCHIVE_QUEUE_SIZE", 256),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set. A missing
// API key is valid: the service runs on canned replies without one.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Groq.Timeout <= 0 {
		return fmt.Errorf("GROQ_TIMEOUT must be > 0")
	}
	if c.Transcript.QueueSize <= 0 {
		return fmt.Errorf("ARCHIVE_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
