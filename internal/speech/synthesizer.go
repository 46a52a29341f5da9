package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTTSBaseURL = "https://translate.google.com/translate_tts"

const defaultSynthesizeTimeout = 15 * time.Second

// maxChunkRunes is the per-request text limit of the TTS endpoint. Longer
// replies are split at word boundaries and the MP3 payloads concatenated;
// MP3 frames are self-delimiting so the result plays back as one clip.
const maxChunkRunes = 200

// TranslateSynthesizer speaks text through the Google Translate TTS
// endpoint. The voice language is chosen by script: any Devanagari rune
// selects the Hindi voice, everything else the English one.
type TranslateSynthesizer struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// SynthesizerConfig holds synthesizer configuration.
type SynthesizerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewTranslateSynthesizer creates a synthesizer.
func NewTranslateSynthesizer(cfg SynthesizerConfig, logger *slog.Logger) *TranslateSynthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTTSBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSynthesizeTimeout
	}

	return &TranslateSynthesizer{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Synthesize renders text as MP3 audio. Empty text produces no audio and no
// error.
func (s *TranslateSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	lang := "en"
	if hasDevanagari(text) {
		lang = "hi"
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		data, err := s.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}

	s.logger.Debug("synthesized reply audio", "lang", lang, "bytes", len(audio))
	return audio, nil
}

func (s *TranslateSynthesizer) fetchChunk(ctx context.Context, chunk, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	return data, nil
}

func hasDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

// splitChunks breaks text into pieces of at most limit runes, preferring to
// split at the last space before the limit.
func splitChunks(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}

		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}

	return chunks
}
