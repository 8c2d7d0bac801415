// Package perplexity provides an adapter for the Perplexity chat completions API.
// Perplexity speaks the OpenAI wire format, so the official OpenAI SDK is used with
// a different base URL plus the search specific body fields set as raw JSON.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/observability"
)

// Provider implements the domain.Provider interface for Perplexity.
type Provider struct {
	client openai.Client
	name   string
}

// NewProvider creates a new Perplexity provider.
func NewProvider(config Config, opts ...option.RequestOption) (*Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("Perplexity base URL is required")
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(0),
	}

	if config.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	clientOpts = append(clientOpts, opts...)

	return &Provider{
		client: openai.NewClient(clientOpts...),
		name:   "perplexity",
	}, nil
}

// Complete sends a completion request and returns the first choice.
func (p *Provider) Complete(
	ctx context.Context,
	apiKey string,
	req *domain.CompletionRequest,
) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx).With(observability.String("provider", p.name))
	logger.Debug("calling Perplexity API",
		observability.Float64("temperature", req.Temperature),
		observability.Int("max_tokens", req.MaxTokens),
	)

	capture := &failureCapture{status: 0, body: nil}

	resp, err := p.client.Chat.Completions.New(ctx, p.toSDKParams(req),
		option.WithAPIKey(apiKey),
		option.WithJSONSet("search_domain_filter", req.SearchDomainFilter),
		option.WithJSONSet("stream", req.Stream),
		option.WithMiddleware(capture.middleware),
	)

	if upstreamErr := capture.upstreamError(); upstreamErr != nil {
		logger.Warn("Perplexity API returned an error",
			observability.Int("status", upstreamErr.Status),
			observability.String("message", upstreamErr.Message),
		)
		return nil, upstreamErr
	}

	if err != nil {
		logger.Error("Perplexity API call failed", observability.Error(err))
		return nil, fmt.Errorf("Perplexity API call failed: %w", err)
	}

	logger.Debug("Perplexity API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return p.toDomainResponse(resp)
}

// toSDKParams converts domain request to SDK ChatCompletionNewParams.
// search_domain_filter and stream are not part of the SDK params and are set per request.
func (p *Provider) toSDKParams(req *domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}
}

// toDomainResponse converts SDK response to domain response.
func (p *Provider) toDomainResponse(resp *openai.ChatCompletion) (*domain.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, errors.New("Perplexity API returned no choices")
	}

	var usage json.RawMessage
	if raw := resp.Usage.RawJSON(); raw != "" {
		usage = json.RawMessage(raw)
	}

	return &domain.CompletionResponse{
		ID:      resp.ID,
		Model:   string(resp.Model),
		Content: resp.Choices[0].Message.Content,
		Usage:   usage,
	}, nil
}

// failureCapture records the status and body of a non-2xx upstream answer so the
// upstream's own message can be relayed instead of the SDK's error text.
type failureCapture struct {
	status int
	body   []byte
}

func (c *failureCapture) middleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil || res == nil {
		return res, err
	}

	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return res, nil
	}

	c.status = res.StatusCode

	body, readErr := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if readErr == nil {
		c.body = body
	}

	// Re-populate the body so the SDK can still build its own error.
	res.Body = io.NopCloser(bytes.NewReader(body))

	return res, nil
}

// errorEnvelope is the upstream error body: {"error": {"message": "..."}}.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *failureCapture) upstreamError() *domain.Error {
	if c.status == 0 {
		return nil
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(c.body, &envelope); err != nil {
		return domain.NewUpstreamError(c.status, "")
	}

	return domain.NewUpstreamError(c.status, envelope.Error.Message)
}
