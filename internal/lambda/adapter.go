// Package lambda runs the search function behind API Gateway proxy events.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/davidbz/shahsearch/internal/function"
	"github.com/davidbz/shahsearch/internal/observability"
)

// Adapter translates proxy events into invocations.
type Adapter struct {
	function *function.Handler
}

// NewAdapter creates a new Lambda adapter (DI constructor).
func NewAdapter(fn *function.Handler) *Adapter {
	return &Adapter{
		function: fn,
	}
}

// Handle never returns an error: every outcome, failures included, is a proxy response.
func (a *Adapter) Handle(
	ctx context.Context,
	event events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	ctx = observability.WithNewTrace(ctx, requestID(ctx, event))

	logger := observability.FromContext(ctx)
	logger.Info("invocation started",
		observability.String("method", event.HTTPMethod),
		observability.String("path", event.Path),
	)

	body := event.Body
	if event.IsBase64Encoded && event.HTTPMethod == http.MethodPost {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			logger.Error("failed to decode request body", observability.Error(err))
			return errorResponse(http.StatusInternalServerError, err.Error()), nil
		}
		body = string(decoded)
	}

	resp := a.function.Invoke(ctx, function.Invocation{
		Method: event.HTTPMethod,
		Body:   body,
	})

	return events.APIGatewayProxyResponse{
		StatusCode:      resp.StatusCode,
		Headers:         resp.Headers,
		Body:            resp.Body,
		IsBase64Encoded: false,
	}, nil
}

func requestID(ctx context.Context, event events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return event.RequestContext.RequestID
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}
