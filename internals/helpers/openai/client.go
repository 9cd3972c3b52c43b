// Package openai is a small chat-completions client guarded by a circuit breaker.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"

	"academykit_backend/internals/configs"
	"academykit_backend/internals/helpers/breaker"
)

var ErrNotConfigured = errors.New("openai api key is not configured")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]
}

func NewClient(cfg configs.OpenAIConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: base,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		cb:      breaker.New[string](breaker.DefaultConfig("openai")),
	}
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// Complete returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	body, err := sonic.Marshal(chatRequest{Model: c.model, Messages: messages, Temperature: 0.7})
	if err != nil {
		return "", err
	}
	return c.cb.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return "", errors.Wrap(err, "openai request")
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)

		var out chatResponse
		if err := sonic.Unmarshal(raw, &out); err != nil {
			return "", fmt.Errorf("openai: status %d: undecodable body", resp.StatusCode)
		}
		if resp.StatusCode >= 300 {
			msg := http.StatusText(resp.StatusCode)
			if out.Error != nil {
				msg = out.Error.Message
			}
			return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, msg)
		}
		if len(out.Choices) == 0 {
			return "", fmt.Errorf("openai: empty response")
		}
		return strings.TrimSpace(out.Choices[0].Message.Content), nil
	})
}
