package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/language"
	"github.com/riverwood-projects/voice-agent/internal/metrics"
	"github.com/riverwood-projects/voice-agent/internal/prompt"
)

// Generation parameters. The token cap keeps replies near the 2-3 sentence
// target the system instructions ask for.
const (
	replyMaxTokens   = 150
	replyTemperature = 0.7
)

// DefaultGenerationTimeout bounds one model call when no timeout is
// configured.
const DefaultGenerationTimeout = 20 * time.Second

// Generator is the contract the pipeline needs from the generation client.
type Generator interface {
	Available() bool
	Complete(ctx context.Context, messages []prompt.Message, maxTokens int, temperature float64) (string, error)
}

// Service resolves one utterance into one reply. It never fails: any
// generation problem yields the canned reply in the detected language.
type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates the reply pipeline service.
func NewService(gen Generator, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gen: gen, timeout: timeout, logger: logger}
}

// Respond detects the utterance language, asks the model with the composed
// prompt and bounded timeout, and falls back to the fixed per-language reply
// on any failure. The reply is always non-empty. The conversation log is not
// touched here; recording the turn is the caller's responsibility.
func (s *Service) Respond(ctx context.Context, utterance string, recent []conversation.Turn) (string, language.Language) {
	lang := language.Detect(utterance)

	if s.gen == nil || !s.gen.Available() {
		metrics.RepliesTotal.WithLabelValues(string(lang), "fallback").Inc()
		return prompt.ProfileFor(lang).Fallback, lang
	}

	msgs := prompt.Compose(utterance, lang, recent)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.gen.Complete(genCtx, msgs, replyMaxTokens, replyTemperature)
	if err != nil {
		s.logger.Warn("generation failed, using canned reply", "language", lang, "error", err)
		metrics.RepliesTotal.WithLabelValues(string(lang), "fallback").Inc()
		return prompt.ProfileFor(lang).Fallback, lang
	}

	metrics.RepliesTotal.WithLabelValues(string(lang), "model").Inc()
	return reply, lang
}
