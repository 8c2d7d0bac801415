// Package function implements the search invocation independently of the transport
// it arrives on. Both the Lambda and the HTTP adapters translate their requests into
// an Invocation and write back the Response.
package function

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/observability"
)

// Invocation is one HTTP-like request.
type Invocation struct {
	Method string
	Body   string
}

// Response is the HTTP-like answer to an Invocation.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

type errorBody struct {
	Error string `json:"error"`
}

// Searcher answers search requests.
type Searcher interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
}

// Handler runs the search pipeline for one invocation.
type Handler struct {
	searcher Searcher
}

// NewHandler creates a new invocation handler (DI constructor).
func NewHandler(searcher Searcher) *Handler {
	return &Handler{
		searcher: searcher,
	}
}

// Invoke always returns a Response. Classified failures map to their own status;
// everything else, panics included, becomes a logged 500.
func (h *Handler) Invoke(ctx context.Context, inv Invocation) (resp Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = h.unexpected(ctx, fmt.Errorf("%v", recovered))
		}
	}()

	if inv.Method != http.MethodPost {
		return errorResponse(domain.ErrMethodNotAllowed())
	}

	req, err := parseSearchRequest(inv.Body)
	if err != nil {
		if domainErr, ok := domain.AsError(err); ok {
			return errorResponse(domainErr)
		}
		return h.unexpected(ctx, err)
	}

	result, err := h.searcher.Search(ctx, req)
	if err != nil {
		if domainErr, ok := domain.AsError(err); ok {
			observability.FromContext(ctx).Info("search rejected",
				observability.String("kind", domainErr.Kind.String()),
				observability.Int("status", domainErr.Status),
			)
			return errorResponse(domainErr)
		}
		return h.unexpected(ctx, err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		return h.unexpected(ctx, fmt.Errorf("failed to encode response: %w", err))
	}

	return newResponse(http.StatusOK, string(body))
}

// parseSearchRequest reads the exact keys "query" and "systemPrompt"; differently cased
// keys are ignored. A body that is not an object carries no query. A wrongly typed field
// is a validation failure; malformed JSON is returned unclassified.
func parseSearchRequest(body string) (*domain.SearchRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, domain.ErrQueryRequired(err)
		}
		return nil, err
	}

	var req domain.SearchRequest
	if err := decodeStringField(fields, "query", &req.Query); err != nil {
		return nil, domain.ErrQueryRequired(err)
	}
	if err := decodeStringField(fields, "systemPrompt", &req.SystemPrompt); err != nil {
		return nil, domain.NewValidationError("systemPrompt must be a string", err)
	}

	return &req, nil
}

// decodeStringField leaves dst untouched when the key is absent or null.
func decodeStringField(fields map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (h *Handler) unexpected(ctx context.Context, err error) Response {
	observability.FromContext(ctx).Error("search invocation failed", observability.Error(err))
	return errorMessage(http.StatusInternalServerError, err.Error())
}

func errorResponse(err *domain.Error) Response {
	return errorMessage(err.Status, err.Message)
}

func errorMessage(status int, message string) Response {
	// Marshalling a struct with one string field cannot fail.
	body, _ := json.Marshal(errorBody{Error: message})
	return newResponse(status, string(body))
}

func newResponse(status int, body string) Response {
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}
