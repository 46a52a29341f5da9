// Package llm provides the Groq chat-completions client used for reply
// generation. The client is probed once at startup: the first candidate
// model that answers is pinned for the process lifetime, and a client with
// no working model stays permanently on the caller's fallback path.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/riverwood-projects/voice-agent/internal/prompt"
)

// Failure kinds the resolver branches on. Every error returned by Complete
// wraps exactly one of these.
var (
	// ErrUnavailable means no usable model endpoint exists (missing
	// credential, failed probe, or transport failure).
	ErrUnavailable = errors.New("llm: generation model unavailable")
	// ErrTimeout means the request exceeded its deadline.
	ErrTimeout = errors.New("llm: request timed out")
	// ErrMalformed means the endpoint answered with something that is not a
	// usable completion.
	ErrMalformed = errors.New("llm: malformed completion response")
)

// DefaultBaseURL is the Groq OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultTimeout bounds each generation call so a hung endpoint degrades to
// the fallback reply instead of blocking the connection.
const DefaultTimeout = 20 * time.Second

// DefaultModels are the candidate model identifiers, tried in order at
// startup.
var DefaultModels = []string{
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// Client is a chat-completions client pinned to one model.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	available  bool
	httpClient *http.Client
	logger     *slog.Logger
}

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []prompt.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
	TopP        float64          `json:"top_p"`
	Stream      bool             `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient builds the client and runs the startup model probe. A missing
// API key is not an error: the client is returned unavailable so the process
// keeps serving canned replies.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}

	if cfg.APIKey == "" {
		logger.Warn("GROQ_API_KEY not set, generation disabled")
		return c
	}

	for _, model := range cfg.Models {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		err := c.probe(ctx, model)
		cancel()
		if err != nil {
			logger.Warn("model probe failed", "model", model, "error", err)
			continue
		}
		c.model = model
		c.available = true
		logger.Info("generation model pinned", "model", model)
		break
	}

	if !c.available {
		logger.Warn("no working generation model found, replies will use canned fallback")
	}

	return c
}

// Available reports whether a pinned model exists.
func (c *Client) Available() bool {
	return c.available
}

// Model returns the pinned model identifier, or "" when unavailable.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the composed messages to the pinned model and returns the
// reply text.
func (c *Client) Complete(ctx context.Context, messages []prompt.Message, maxTokens int, temperature float64) (string, error) {
	if !c.available {
		return "", ErrUnavailable
	}
	return c.complete(ctx, c.model, messages, maxTokens, temperature)
}

// probe sends a trivial request to check that a model answers at all.
func (c *Client) probe(ctx context.Context, model string) error {
	_, err := c.complete(ctx, model, []prompt.Message{
		{Role: prompt.RoleUser, Content: "Say 'Hello' in Hindi"},
	}, 20, 0)
	return err
}

func (c *Client) complete(ctx context.Context, model string, messages []prompt.Message, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        1,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: read response: %v", ErrMalformed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, truncate(data, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformed)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformed)
	}
	return content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
