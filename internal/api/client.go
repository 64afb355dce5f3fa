package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/howto-cli/howto/internal/config"
)

// ErrEmptyResponse is returned when the provider answers with a well-formed
// response that carries no completion text.
var ErrEmptyResponse = errors.New("api returned an empty completion")

// TransportError wraps a failure to complete the HTTP round trip.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError carries the provider's own error message, extracted from the
// error object in the response body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s", e.Message)
}

// Client talks to an OpenAI-style chat-completions endpoint. Sampling
// parameters come from the config and are fixed for the client's lifetime.
type Client struct {
	cfg        config.Config
	apiKey     string
	httpClient *http.Client
}

// New creates a client. apiKey is resolved by the caller (the loop checks
// the credential before any request is attempted).
func New(cfg config.Config, apiKey string) *Client {
	return &Client{
		cfg:        cfg,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
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

// Complete sends exactly two messages (system, then user) and returns the
// raw completion text. The caller is responsible for sanitizing it.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	var decoded chatResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		// Non-2xx with an unparseable (or absent) body is a transport-level
		// failure; there is no provider message to surface.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", &TransportError{Err: fmt.Errorf("HTTP %s", resp.Status)}
		}
		return "", &TransportError{Err: err}
	}

	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", &APIError{Message: decoded.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Err: fmt.Errorf("HTTP %s", resp.Status)}
	}

	if len(decoded.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := decoded.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
