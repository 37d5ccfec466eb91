// Package ai holds the HTTP adapters for the three external collaborators:
// chat/text generation, per-message mood analysis and mood forecasting. None
// of them compute anything locally; failures are returned to callers, which
// degrade to placeholders instead of failing the request.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Doer lets tests swap the HTTP client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// ErrAPIKeyMissing is returned before any network call when no generation API
// key is configured.
var ErrAPIKeyMissing = errors.New("generation API key not configured")

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultModel     = "mistralai/mistral-7b-instruct"
	defaultChatLimit = 150
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    Doer
}

func NewClient(apiKey, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SetHTTPClient overrides the default HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(d Doer) {
	if d == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
		return
	}
	c.http = d
}

// SetBaseURL overrides the default API endpoint.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Complete sends the system prompt plus conversation turns and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt string, turns []Message, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrAPIKeyMissing
	}
	if maxTokens <= 0 {
		maxTokens = defaultChatLimit
	}

	messages := make([]Message, 0, len(turns)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, turns...)

	body, err := json.Marshal(chatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("completion endpoint: %s", msg)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
