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

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// ChatOptions carries optional sampling parameters. A nil Temperature means
// the parameter is omitted from the request entirely; some provider/model
// combinations reject it.
type ChatOptions struct {
	Temperature *float64
}

// APIError is a structured error returned by an OpenAI-compatible endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Param      string
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error status %d (code=%q param=%q): %s",
		e.StatusCode, e.Code, e.Param, e.Message)
}

// IsUnsupportedParameter reports whether err signals that the provider
// rejected an optional request parameter. Detection uses the structured
// error code and param fields, not the message text.
func IsUnsupportedParameter(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case "unsupported_parameter", "unsupported_value":
		return true
	}
	return apiErr.Param == "temperature"
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

func NewOpenAICompatibleClient() *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage, opts ChatOptions) (string, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	}
	if opts.Temperature != nil {
		reqBody["temperature"] = *opts.Temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", parseAPIError(resp.StatusCode, raw, "llm")
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseAPIError decodes the OpenAI-style error envelope; if the body does not
// match, it falls back to a plain status error carrying the raw body.
func parseAPIError(status int, raw []byte, op string) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Param   string `json:"param"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: status,
			Code:       envelope.Error.Code,
			Param:      envelope.Error.Param,
			Type:       envelope.Error.Type,
			Message:    envelope.Error.Message,
		}
	}
	return fmt.Errorf("%s response status %d: %s", op, status, string(raw))
}

// ChatClient binds an OpenAI-compatible client to a fixed chat configuration.
type ChatClient struct {
	client *OpenAICompatibleClient
	cfg    ChatConfig
}

func NewChatClient(client *OpenAICompatibleClient, cfg ChatConfig) *ChatClient {
	return &ChatClient{client: client, cfg: cfg}
}

func (c *ChatClient) Complete(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error) {
	return c.client.Complete(ctx, c.cfg, messages, opts)
}
