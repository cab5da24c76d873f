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

	"sifter/internal/config"
	"sifter/internal/support"
)

// The service is told to answer with bare CSV so its output can be fed straight
// back into the extraction engine.
const extractionPrompt = "Extract every IPv4 endpoint and its country from the " +
	"following text. Answer with comma-separated values only, one endpoint per " +
	"line, each line of the form address,port,country. Leave the port empty when " +
	"unknown and use Unknown for the country when unknown. Do not output a header " +
	"row, markdown fencing or any explanation."

// Client talks to an OpenAI-compatible chat-completions endpoint. It is a pure
// collaborator: its failures never reach the extraction core, and its output is
// re-parsed by the engine instead of being trusted as records.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	maxTokens  int
	apiKey     string
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClientFromEnv builds a client from settings and the AI_API_KEY environment
// variable. A missing key is an error so callers can report the feature as not
// configured instead of failing mid-request.
func NewClientFromEnv() (*Client, error) {
	apiKey := support.GetEnv("AI_API_KEY", "")
	if apiKey == "" {
		return nil, errors.New("AI_API_KEY is not configured")
	}

	cfg := config.GetConfig()

	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   cfg.AI.Endpoint,
		model:      cfg.AI.Model,
		maxTokens:  cfg.AI.MaxTokens,
		apiKey:     apiKey,
	}, nil
}

// ExtractEndpoints asks the service for a CSV rendition of the endpoints in
// rawText and returns the raw answer text.
func (client *Client) ExtractEndpoints(ctx context.Context, rawText string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionPrompt},
			{Role: "user", Content: rawText},
		},
		MaxTokens: client.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.apiKey)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("ai: service error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("ai: response contained no choices")
	}

	return stripFences(parsed.Choices[0].Message.Content), nil
}

// stripFences removes markdown code fences some models emit despite the prompt.
func stripFences(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
