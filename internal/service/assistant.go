package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Assistant request kinds understood by the prompt templates. Any other
// kind forwards the message unchanged.
const (
	AskSummary = "summary"
	AskQuiz    = "quiz"
	AskExplain = "explain"
)

var (
	// ErrAssistantNotConfigured means no upstream API key was supplied.
	ErrAssistantNotConfigured = errors.New("assistant api key not configured")
	// ErrAssistantUpstream wraps failures of the chat-completion API.
	ErrAssistantUpstream = errors.New("assistant upstream failure")
)

const (
	defaultAssistantURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultAssistantModel   = "gpt-4o-mini"
	defaultAssistantTokens  = 500
	defaultAssistantTimeout = 30 * time.Second
)

// AssistantConfig configures the chat-completion upstream.
type AssistantConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Referer   string
	AppTitle  string
	MaxTokens int
	Timeout   time.Duration
}

// AssistantService is a stateless proxy to an OpenRouter-style
// chat-completion API.
type AssistantService struct {
	cfg    AssistantConfig
	client *http.Client
}

func NewAssistantService(cfg AssistantConfig) *AssistantService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAssistantURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultAssistantModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultAssistantTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAssistantTimeout
	}
	return &AssistantService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// buildPrompt wraps the user text in the template for the given kind.
func buildPrompt(message, kind string) string {
	switch kind {
	case AskSummary:
		return "Summarize the following notes in 3-5 concise bullet points:\n" + message
	case AskQuiz:
		return `Create 5 multiple-choice questions with answers based on these notes. Return ONLY valid JSON in this format:
[
  {"question": "Question text", "options": ["A","B","C","D"], "answer": "B"}
]
Notes: ` + message
	case AskExplain:
		return "Explain the following topic in simple, easy-to-understand terms with real-world examples:\n" + message
	default:
		return message
	}
}

// Ask forwards the templated prompt to the upstream and returns the
// model's reply text.
func (s *AssistantService) Ask(ctx context.Context, message, kind string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", ErrAssistantNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:     s.cfg.Model,
		Messages:  []chatMessage{{Role: "user", Content: buildPrompt(message, kind)}},
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", s.cfg.Referer)
	}
	if s.cfg.AppTitle != "" {
		req.Header.Set("X-Title", s.cfg.AppTitle)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded chunk so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return "", fmt.Errorf("%w: status %d", ErrAssistantUpstream, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAssistantUpstream, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrAssistantUpstream)
	}
	return out.Choices[0].Message.Content, nil
}
