// Package llm talks to a chat-completion model over the OpenAI wire
// protocol. The default endpoint is Gemini's OpenAI-compatible API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Completer is the single call every model-backed feature needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	client openai.Client
	model  string
	logger *zerolog.Logger
}

func NewClient(cfg config.LLMConfig, logger *zerolog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete sends prompt as a single user message and returns the text of
// the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_chars", len(prompt)).
		Int64("total_tokens", resp.Usage.TotalTokens).
		Dur("duration", time.Since(start)).
		Msg("model call completed")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// StripCodeFences removes markdown ``` fences that models wrap JSON in.
func StripCodeFences(reply string) string {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// DecodeJSON parses a model reply into v. When the reply carries prose
// around the object, the outermost {...} span is tried as well.
func DecodeJSON(reply string, v any) error {
	cleaned := StripCodeFences(reply)
	if cleaned == "" {
		return ErrEmptyResponse
	}

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if retryErr := json.Unmarshal([]byte(cleaned[start:end+1]), v); retryErr == nil {
			return nil
		}
	}
	return fmt.Errorf("decoding model reply: %w", err)
}
