// Package llm talks to an Azure OpenAI chat-completion deployment.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/rally-club/email-parser/internal/config"
)

const (
	// MaxReplyTokens bounds the size of one completion.
	MaxReplyTokens = 500
	// maxCauseLen caps how much upstream text reaches an error message.
	maxCauseLen = 300
)

type ChatMessage struct {
	Role    string
	Content string
}

// UpstreamError wraps any failure talking to the provider: transport, auth,
// timeouts, non-2xx answers or an unreadable response.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

type Client struct {
	Deployment string
	api        openai.Client
}

// NewClient builds a client from the Azure OpenAI settings.  The SDK's own
// retries are switched off and cfg.Timeout bounds every call.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		Deployment: cfg.Deployment,
		api: openai.NewClient(
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		),
	}
}

// ExtractReservation sends one email to the model and returns the raw text of
// its reply.  The reply is not validated here.
func (c *Client) ExtractReservation(ctx context.Context, subject, body string) (string, error) {
	return c.CompleteJSON(ctx, BuildReservationMessages(subject, body))
}

// CompleteJSON runs a deterministic (temperature 0) completion that must
// answer with a single JSON object.  Failures are *UpstreamError.
func (c *Client) CompleteJSON(ctx context.Context, msgs []ChatMessage) (string, error) {
	out, err := c.chat(ctx, msgs)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	return out, nil
}

func (c *Client) chat(ctx context.Context, msgs []ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.Deployment,
		Messages:    toParams(msgs),
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(MaxReplyTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.RawJSON()
			}
			return "", fmt.Errorf("azure openai error %d: %s", apiErr.StatusCode, truncate(msg))
		}
		return "", fmt.Errorf("azure openai: %s", truncate(err.Error()))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("azure openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toParams(msgs []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxCauseLen {
		return s
	}
	return s[:maxCauseLen] + "..."
}
