package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/davidbz/shahsearch/internal/config"
	"github.com/davidbz/shahsearch/internal/function"
	"github.com/davidbz/shahsearch/internal/observability"
)

// Handler exposes the search function over plain HTTP.
type Handler struct {
	function     *function.Handler
	maxBodyBytes int64
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(fn *function.Handler, cfg *config.ServerConfig) *Handler {
	return &Handler{
		function:     fn,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// HandleSearch translates the request into an invocation and writes its response back.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	body, err := h.readBody(w, r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.Error("failed to read request body", observability.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := h.function.Invoke(ctx, function.Invocation{
		Method: r.Method,
		Body:   string(body),
	})

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)

	if _, writeErr := io.WriteString(w, resp.Body); writeErr != nil {
		// Already written status, can't change it, just log.
		logger.Warn("failed to write response", observability.Error(writeErr))
	}
}

// readBody skips the body of anything but POST, which the function rejects unread.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Method != http.MethodPost || r.Body == nil {
		return nil, nil
	}

	reader := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
