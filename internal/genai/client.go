package genai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer sends one generation request to the external completion service
// and returns the accumulated response text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientConfig holds the static settings consumed at client construction.
// BaseURL is overridable for tests.
type ClientConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Client is the go-openai backed Completer. Streaming responses are
// accumulated into one string before returning; callers never observe
// partial text.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:       openai.NewClientWithConfig(apiConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Complete issues the request under the internal per-call timeout. The
// timeout sits below the external wall-clock ceiling so a clean
// GenerationError can be raised before the platform kills the process.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	system := req.SystemInstruction
	if req.TargetLanguage != "" {
		system += "\nWrite all generated text in " + req.TargetLanguage + "."
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}

	start := time.Now()
	var text string
	var err error
	if req.Stream {
		text, err = c.completeStream(ctx, apiReq)
	} else {
		text, err = c.completeOnce(ctx, apiReq)
	}
	if err != nil {
		c.logger.Error("completion request failed",
			"model", c.model,
			"stream", req.Stream,
			"duration", time.Since(start).String(),
			"error", err)
		return "", err
	}

	c.logger.Info("completion request finished",
		"model", c.model,
		"stream", req.Stream,
		"duration", time.Since(start).String(),
		"response_length", len(text))
	return text, nil
}

func (c *Client) completeOnce(ctx context.Context, apiReq openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", upstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Message: "completion service returned no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

// completeStream accumulates fragments in arrival order; the transport
// guarantees order so no reordering buffer is needed.
func (c *Client) completeStream(ctx context.Context, apiReq openai.ChatCompletionRequest) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return "", upstreamError(err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", upstreamError(err)
		}
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	return sb.String(), nil
}

func upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GenerationError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerationError{Message: "generation timed out before the completion service responded", Err: err}
	}
	return &GenerationError{Message: err.Error(), Err: err}
}
