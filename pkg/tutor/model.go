package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"go.mau.fi/util/random"
)

// ModelConfig points at a chat-completions-style endpoint.
type ModelConfig struct {
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	SystemPrompt string `yaml:"system_prompt"`
	TimeoutSecs  int    `yaml:"timeout_seconds"`
}

const defaultModelTimeoutSecs = 60

// ErrMissingCredentials is returned when no API key is configured; it is one
// of the two fatal failure classes for a chat turn.
var ErrMissingCredentials = errors.New("model API key is not configured")

// ModelClient wraps the OpenAI-compatible chat completion endpoint.
type ModelClient struct {
	client openai.Client
	model  string
	log    zerolog.Logger
}

// NewModelClient creates a client for the configured endpoint.
func NewModelClient(cfg ModelConfig, log zerolog.Logger) (*ModelClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredentials
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model name is not configured")
	}
	timeout := cfg.TimeoutSecs
	if timeout <= 0 {
		timeout = defaultModelTimeoutSecs
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(time.Duration(timeout) * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, option.WithMiddleware(makeRequestTraceMiddleware(log)))

	return &ModelClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		log:    log.With().Str("component", "model_client").Logger(),
	}, nil
}

// Complete sends the turn sequence as a non-streaming chat completion and
// returns the first choice's content.
func (c *ModelClient) Complete(ctx context.Context, turns []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func newOutboundRequestID() string {
	return "tbr_" + random.String(12)
}

// makeRequestTraceMiddleware tags every outbound model request with an ID
// and logs its duration and status.
func makeRequestTraceMiddleware(log zerolog.Logger) option.Middleware {
	traceLog := log.With().Str("component", "model_http").Logger()
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		start := time.Now()
		requestID := strings.TrimSpace(req.Header.Get("x-request-id"))
		if requestID == "" {
			requestID = newOutboundRequestID()
			req.Header.Set("x-request-id", requestID)
		}

		resp, err := next(req)
		elapsedMs := time.Since(start).Milliseconds()
		if err != nil {
			traceLog.Error().
				Err(err).
				Str("request_id", requestID).
				Int64("duration_ms", elapsedMs).
				Msg("model HTTP request failed")
			return nil, err
		}
		traceLog.Debug().
			Str("request_id", requestID).
			Int("status_code", resp.StatusCode).
			Int64("duration_ms", elapsedMs).
			Msg("model HTTP request completed")
		return resp, nil
	}
}
