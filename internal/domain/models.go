package domain

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Message roles understood by the upstream.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// SearchRequest is the inbound payload of a search invocation.
type SearchRequest struct {
	Query        string `json:"query"                  validate:"required"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// Validate applies the struct tag rules.
func (r *SearchRequest) Validate() error {
	return validate.Struct(r)
}

// SearchResponse is returned to the caller on success.
type SearchResponse struct {
	Content string          `json:"content"`
	Usage   json.RawMessage `json:"usage,omitempty"`
}

// CompletionRequest is the upstream chat completion payload.
type CompletionRequest struct {
	Model              string    `json:"model"`
	Messages           []Message `json:"messages"`
	SearchDomainFilter []string  `json:"search_domain_filter"`
	Temperature        float64   `json:"temperature"`
	MaxTokens          int       `json:"max_tokens"`
	Stream             bool      `json:"stream"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // system, user
	Content string `json:"content"`
}

// CompletionResponse is the part of the upstream answer relayed to the caller.
// Usage is kept as the raw upstream object so provider specific counters survive.
type CompletionResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Content string          `json:"content"`
	Usage   json.RawMessage `json:"usage,omitempty"`
}
