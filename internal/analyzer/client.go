// Package analyzer scores products against a brand profile using an
// OpenAI-compatible chat and embeddings API.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonesrussell/trendradar/internal/logger"
)

const (
	// DefaultTimeout is the default timeout for model requests.
	DefaultTimeout = 60 * time.Second
	// DefaultModel is used when no chat model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is used when no embedding model is configured.
	DefaultEmbeddingModel = "text-embedding-3-small"

	chatTemperature = 0.2
	retryCount      = 2
	retryWait       = 2 * time.Second
)

// ErrEmptyCompletion is returned when the model responds with no choices.
var ErrEmptyCompletion = errors.New("model returned no completion")

// ErrUnavailable is returned when the model API cannot be reached or
// responds with an error status.
var ErrUnavailable = errors.New("analyzer unavailable")

// Client talks to an OpenAI-compatible API.
type Client struct {
	http           *resty.Client
	model          string
	embeddingModel string
	logger         logger.Interface
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *Client) {
		c.embeddingModel = model
	}
}

// WithTimeout sets the timeout for model requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// NewClient creates a client for an OpenAI-compatible API at baseURL.
func NewClient(baseURL, apiKey string, log logger.Interface, opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(DefaultTimeout)
	httpClient.SetRetryCount(retryCount)
	httpClient.SetRetryWaitTime(retryWait)
	httpClient.AddRetryCondition(func(r *resty.Response, _ error) bool {
		return r.StatusCode() == http.StatusTooManyRequests ||
			r.StatusCode() >= http.StatusInternalServerError
	})
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}

	client := &Client{
		http:           httpClient,
		model:          DefaultModel,
		embeddingModel: DefaultEmbeddingModel,
		logger:         log.WithComponent("analyzer"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Complete sends a system and user prompt to the chat completions
// endpoint and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: chatTemperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var result chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&result).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: chat completion failed: %w", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: chat completion returned %d: %s",
			ErrUnavailable, resp.StatusCode(), resp.String())
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return result.Choices[0].Message.Content, nil
}

// Embed returns one embedding vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	req := embeddingRequest{
		Model: c.embeddingModel,
		Input: texts,
	}

	var result embeddingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&result).
		Post("/v1/embeddings")
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request failed: %w", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: embedding request returned %d: %s",
			ErrUnavailable, resp.StatusCode(), resp.String())
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Data))
	}

	vectors := make([][]float64, len(result.Data))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat completions response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// embeddingRequest is the embeddings request body.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the embeddings response body.
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}
