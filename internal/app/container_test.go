package app_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davidbz/shahsearch/internal/app"
	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/function"
)

func TestBuildContainer(t *testing.T) {
	t.Run("should resolve the function handler", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "pplx-test-key")

		container, err := app.BuildContainer()
		require.NoError(t, err)

		err = container.Invoke(func(
			handler *function.Handler,
			credentials domain.CredentialSource,
			logger *zap.Logger,
		) {
			require.NotNil(t, handler)
			require.NotNil(t, logger)
			require.Equal(t, "pplx-test-key", credentials.APIKey())
		})
		require.NoError(t, err)
	})

	t.Run("should answer without credential when the key is unset", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "")

		container, err := app.BuildContainer()
		require.NoError(t, err)

		err = container.Invoke(func(handler *function.Handler) {
			resp := handler.Invoke(context.Background(), function.Invocation{
				Method: http.MethodPost,
				Body:   `{"query":"Who was Idries Shah?"}`,
			})

			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			require.JSONEq(t, `{"error":"API key not configured"}`, resp.Body)
		})
		require.NoError(t, err)
	})

	t.Run("should fail on an invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")

		container, err := app.BuildContainer()
		require.NoError(t, err)

		err = container.Invoke(func(*zap.Logger) {})
		require.Error(t, err)
	})
}
