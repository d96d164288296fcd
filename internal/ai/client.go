// Package ai wraps the Groq chat-completions API behind the generative
// collaborators the interview engine needs: question generation, answer
// evaluation, follow-up probing, overall feedback and transcript
// summarization. Every call is degradable; callers substitute documented
// fallbacks on error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	apiKey string
	model  string
	base   string
	http   *http.Client
}

// NewClient builds a Groq client. The timeout bounds every provider call so a
// hung request degrades to the caller's fallback instead of stalling a session.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		base:   "https://api.groq.com/openai/v1",
		http:   &http.Client{Timeout: timeout},
	}
}

// SetBaseURL overrides the API endpoint; used by tests.
func (c *Client) SetBaseURL(base string) {
	c.base = base
}

type ChatRequest struct {
	Model       string              `json:"model"`
	Messages    []map[string]string `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float32             `json:"temperature,omitempty"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	url := c.base + "/chat/completions"
	b, _ := json.Marshal(req)
	r, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	r.Header.Set("Authorization", "Bearer "+c.apiKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq api error: %s", string(bodyBytes))
	}

	var ch ChatResponse
	if err := json.Unmarshal(bodyBytes, &ch); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}

	if ch.Error != nil {
		return "", fmt.Errorf("api error: %s", ch.Error.Message)
	}

	if len(ch.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return ch.Choices[0].Message.Content, nil
}

// chatJSON runs a chat call and unmarshals the response content into out,
// tolerating markdown code fences around the JSON body.
func (c *Client) chatJSON(ctx context.Context, req ChatRequest, out interface{}) error {
	content, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}
	content = stripFences(content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("parse ai response: %w; raw: %q", err, content)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
