package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/shahsearch/internal/observability"
)

// SearchConfig fixes the shape of every upstream request.
type SearchConfig struct {
	Model               string   `env:"SEARCH_MODEL"                 envDefault:"sonar"`
	DomainFilter        []string `env:"SEARCH_DOMAIN_FILTER"         envDefault:"idriesshahfoundation.org" envSeparator:","`
	Temperature         float64  `env:"SEARCH_TEMPERATURE"           envDefault:"0.7"`
	MaxTokens           int      `env:"SEARCH_MAX_TOKENS"            envDefault:"2000"`
	DefaultSystemPrompt string   `env:"SEARCH_DEFAULT_SYSTEM_PROMPT" envDefault:"You are a helpful assistant."`
}

// SearchService validates a search request and relays it to the upstream provider.
type SearchService struct {
	provider    Provider
	credentials CredentialSource
	config      SearchConfig
}

// NewSearchService creates a new search service (DI constructor).
func NewSearchService(provider Provider, credentials CredentialSource, cfg *SearchConfig) *SearchService {
	return &SearchService{
		provider:    provider,
		credentials: credentials,
		config:      *cfg,
	}
}

// Search answers one query. Failures the caller should see verbatim are returned as *Error;
// anything else is unexpected.
func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		return nil, ErrQueryRequired(errors.New("request cannot be nil"))
	}

	if err := req.Validate(); err != nil {
		return nil, ErrQueryRequired(err)
	}

	// The credential is only looked at once the request itself is known to be valid.
	apiKey := s.credentials.APIKey()
	if apiKey == "" {
		return nil, ErrAPIKeyNotConfigured()
	}

	ctx = observability.WithModel(ctx, s.config.Model)
	logger := observability.FromContext(ctx)
	logger.Info("search request received",
		observability.Int("query_length", len(req.Query)),
		observability.Bool("custom_system_prompt", req.SystemPrompt != ""),
	)

	response, err := s.provider.Complete(ctx, apiKey, s.BuildCompletionRequest(req))
	if err != nil {
		if _, ok := AsError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	logger.Info("search completed",
		observability.String("response_id", response.ID),
		observability.Int("content_length", len(response.Content)),
	)

	return &SearchResponse{
		Content: response.Content,
		Usage:   response.Usage,
	}, nil
}

// BuildCompletionRequest composes the fixed-shape upstream payload for req.
// A non-empty SystemPrompt replaces the default system message.
func (s *SearchService) BuildCompletionRequest(req *SearchRequest) *CompletionRequest {
	systemPrompt := s.config.DefaultSystemPrompt
	if req.SystemPrompt != "" {
		systemPrompt = req.SystemPrompt
	}

	domains := make([]string, len(s.config.DomainFilter))
	copy(domains, s.config.DomainFilter)

	return &CompletionRequest{
		Model: s.config.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: req.Query},
		},
		SearchDomainFilter: domains,
		Temperature:        s.config.Temperature,
		MaxTokens:          s.config.MaxTokens,
		Stream:             false,
	}
}
