package app

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

// ExtractionFailedPrefix marks a response that came back 2xx but did not
// carry an answer. Callers check for it and must never persist text bearing
// it as an assistant turn.
const ExtractionFailedPrefix = "Error extracting response:"

// requestTimeout bounds the single completion attempt. There is no retry; a
// turn either completes or fails within this window.
const requestTimeout = 60 * time.Second

type CompletionClient struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	HTTP        *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func NewCompletionClient(cfg Config) *CompletionClient {
	return &CompletionClient{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		HTTP:        &http.Client{Timeout: requestTimeout},
	}
}

// Complete sends one chat-completion request and returns the extracted answer
// verbatim. Transport and HTTP failures come back as errors and nothing may
// be appended to the conversation. A well-formed 2xx body with no answer
// field yields sentinel text (see ExtractionFailedPrefix) and a nil error.
func (c *CompletionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("api key is required")
	}

	outbound := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		outbound = append(outbound, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	payload, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    outbound,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.APIKey)
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return "", fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp chatResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("api error: status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Sprintf("%s %s", ExtractionFailedPrefix, strings.TrimSpace(string(body))), nil
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return fmt.Sprintf("%s %s", ExtractionFailedPrefix, strings.TrimSpace(string(body))), nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// IsExtractionFailure reports whether text is the sentinel produced when a
// response body held no answer.
func IsExtractionFailure(text string) bool {
	return strings.HasPrefix(text, ExtractionFailedPrefix)
}
