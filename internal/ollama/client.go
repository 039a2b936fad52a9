package ollama

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

const (
	requestAttempts = 3
	requestBackoff  = 100 * time.Millisecond
	chatTimeout     = 2 * time.Minute
)

// Client talks to an Ollama server's HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		// no client timeout: pulls stream for minutes, callers bound with ctx
		HTTPClient: &http.Client{},
	}
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Models lists locally installed model names.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	resp, err := retryHTTP(ctx, requestAttempts, requestBackoff, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
		if err != nil {
			return nil, err
		}
		return c.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("tags", resp)
	}
	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names, nil
}

// HasModel reports whether model is installed. A bare name matches its
// ":latest" tag.
func (c *Client) HasModel(ctx context.Context, model string) (bool, error) {
	names, err := c.Models(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == model || n == model+":latest" {
			return true, nil
		}
	}
	return false, nil
}

type pullStatus struct {
	Status    string `json:"status"`
	Digest    string `json:"digest"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error"`
}

// Pull downloads model, calling progress for every layer update that carries
// byte counts. It returns once the server reports success.
func (c *Client) Pull(ctx context.Context, model string, progress func(completed, total int64)) error {
	body, err := json.Marshal(map[string]any{"model": model, "stream": true})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := retryHTTP(ctx, requestAttempts, requestBackoff, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/pull", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.HTTPClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("ollama pull: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError("pull", resp)
	}

	dec := json.NewDecoder(resp.Body)
	for {
		var st pullStatus
		if err := dec.Decode(&st); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("ollama pull %s: stream ended before success", model)
			}
			return fmt.Errorf("decode pull status: %w", err)
		}
		if st.Error != "" {
			return fmt.Errorf("ollama pull %s: %s", model, st.Error)
		}
		if st.Total > 0 && progress != nil {
			progress(st.Completed, st.Total)
		}
		if st.Status == "success" {
			return nil
		}
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error"`
}

// Chat sends a single system+user exchange and returns the reply. Passing
// format "json" asks the model for a JSON object.
func (c *Client) Chat(ctx context.Context, model, system, user, format string) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Format: format,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()
	resp, err := retryHTTP(ctx, requestAttempts, requestBackoff, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", statusError("chat", resp)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", out.Error)
	}
	return strings.TrimSpace(out.Message.Content), nil
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("ollama %s failed: status %d, body: %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}
