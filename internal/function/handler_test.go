package function_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/function"
	"github.com/davidbz/shahsearch/internal/mocks"
)

func newHandler(t *testing.T, apiKey string) (*function.Handler, *mocks.MockProvider) {
	t.Helper()

	provider := mocks.NewMockProvider(t)
	service := domain.NewSearchService(provider, domain.StaticCredential(apiKey), &domain.SearchConfig{
		Model:               "sonar",
		DomainFilter:        []string{"idriesshahfoundation.org"},
		Temperature:         0.7,
		MaxTokens:           2000,
		DefaultSystemPrompt: "You are a helpful assistant.",
	})

	return function.NewHandler(service), provider
}

func requireJSONResponse(t *testing.T, resp function.Response, status int, body string) {
	t.Helper()

	require.Equal(t, status, resp.StatusCode)
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	require.JSONEq(t, body, resp.Body)
}

func TestHandler_Invoke_RejectsNonPost(t *testing.T) {
	methods := []string{
		http.MethodGet,
		http.MethodPut,
		http.MethodDelete,
		http.MethodPatch,
		http.MethodOptions,
		http.MethodHead,
		"",
	}

	for _, method := range methods {
		t.Run("method "+method, func(t *testing.T) {
			handler, provider := newHandler(t, "pplx-key")

			resp := handler.Invoke(context.Background(), function.Invocation{
				Method: method,
				Body:   `{"query":"Who was Idries Shah?"}`,
			})

			requireJSONResponse(t, resp, http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`)
			provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Invoke_RequiresQuery(t *testing.T) {
	bodies := map[string]string{
		"absent":     `{"systemPrompt":"Answer briefly."}`,
		"empty":      `{"query":""}`,
		"null":       `{"query":null}`,
		"null body":  `null`,
		"wrong type": `{"query":42}`,
		"empty obj":  `{}`,
		"title case": `{"Query":"Who was Idries Shah?"}`,
		"upper case": `{"QUERY":"x","SystemPrompt":"Be rude."}`,
		"array body": `["Who was Idries Shah?"]`,
		"string":     `"Who was Idries Shah?"`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			handler, provider := newHandler(t, "pplx-key")

			resp := handler.Invoke(context.Background(), function.Invocation{Method: http.MethodPost, Body: body})

			requireJSONResponse(t, resp, http.StatusBadRequest, `{"error":"Query is required"}`)
			provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Invoke_RejectsNonStringSystemPrompt(t *testing.T) {
	handler, _ := newHandler(t, "pplx-key")

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"q","systemPrompt":["a"]}`,
	})

	requireJSONResponse(t, resp, http.StatusBadRequest, `{"error":"systemPrompt must be a string"}`)
}

func TestHandler_Invoke_MissingCredential(t *testing.T) {
	handler, provider := newHandler(t, "")

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"Who was Idries Shah?"}`,
	})

	requireJSONResponse(t, resp, http.StatusInternalServerError, `{"error":"API key not configured"}`)
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Invoke_ValidationRunsBeforeCredentialCheck(t *testing.T) {
	handler, _ := newHandler(t, "")

	resp := handler.Invoke(context.Background(), function.Invocation{Method: http.MethodPost, Body: `{}`})

	requireJSONResponse(t, resp, http.StatusBadRequest, `{"error":"Query is required"}`)
}

func TestHandler_Invoke_MalformedBody(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	resp := handler.Invoke(context.Background(), function.Invocation{Method: http.MethodPost, Body: `{"query":`})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Equal(t, "unexpected end of JSON input", body["error"])
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Invoke_Success(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.MatchedBy(func(req *domain.CompletionRequest) bool {
			return req.Messages[0].Content == "You are a helpful assistant." &&
				req.Messages[1].Content == "Who was Idries Shah?"
		})).
		Return(&domain.CompletionResponse{
			ID:      "cmpl-1",
			Content: "Answer text",
			Usage:   json.RawMessage(`{"total_tokens":42}`),
		}, nil)

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"Who was Idries Shah?"}`,
	})

	requireJSONResponse(t, resp, http.StatusOK, `{"content":"Answer text","usage":{"total_tokens":42}}`)
}

func TestHandler_Invoke_SystemPromptOverride(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.MatchedBy(func(req *domain.CompletionRequest) bool {
			return req.Messages[0].Role == domain.RoleSystem && req.Messages[0].Content == "Answer briefly."
		})).
		Return(&domain.CompletionResponse{Content: "Brief."}, nil)

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"Who was Idries Shah?","systemPrompt":"Answer briefly."}`,
	})

	requireJSONResponse(t, resp, http.StatusOK, `{"content":"Brief."}`)
}

func TestHandler_Invoke_IgnoresMiscasedSystemPrompt(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.MatchedBy(func(req *domain.CompletionRequest) bool {
			return req.Messages[0].Content == "You are a helpful assistant." &&
				req.Messages[1].Content == "x"
		})).
		Return(&domain.CompletionResponse{Content: "Answer text"}, nil)

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"x","SystemPrompt":"Be rude."}`,
	})

	requireJSONResponse(t, resp, http.StatusOK, `{"content":"Answer text"}`)
}

func TestHandler_Invoke_MirrorsUpstreamStatus(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.Anything).
		Return(nil, domain.NewUpstreamError(http.StatusTooManyRequests, "rate limited"))

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"Who was Idries Shah?"}`,
	})

	requireJSONResponse(t, resp, http.StatusTooManyRequests, `{"error":"rate limited"}`)
}

func TestHandler_Invoke_UnexpectedError(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"Who was Idries Shah?"}`,
	})

	requireJSONResponse(t, resp, http.StatusInternalServerError,
		`{"error":"completion failed: dial tcp: connection refused"}`)
}

type panickingSearcher struct{}

func (panickingSearcher) Search(context.Context, *domain.SearchRequest) (*domain.SearchResponse, error) {
	panic("unexpected upstream shape")
}

func TestHandler_Invoke_RecoversFromPanic(t *testing.T) {
	handler := function.NewHandler(panickingSearcher{})

	resp := handler.Invoke(context.Background(), function.Invocation{
		Method: http.MethodPost,
		Body:   `{"query":"q"}`,
	})

	requireJSONResponse(t, resp, http.StatusInternalServerError, `{"error":"unexpected upstream shape"}`)
}

func TestHandler_Invoke_Idempotent(t *testing.T) {
	handler, provider := newHandler(t, "pplx-key")

	provider.EXPECT().
		Complete(mock.Anything, "pplx-key", mock.Anything).
		Return(&domain.CompletionResponse{Content: "same", Usage: json.RawMessage(`{"total_tokens":1}`)}, nil).
		Times(2)

	inv := function.Invocation{Method: http.MethodPost, Body: `{"query":"q"}`}

	first := handler.Invoke(context.Background(), inv)
	second := handler.Invoke(context.Background(), inv)

	require.Equal(t, first, second)
}
