package domain

import "context"

// Provider represents the upstream chat completion API.
type Provider interface {
	// Complete sends one non-streaming completion request authenticated with apiKey.
	// Non-2xx upstream answers are reported as *Error of KindUpstream.
	Complete(ctx context.Context, apiKey string, req *CompletionRequest) (*CompletionResponse, error)
}

// CredentialSource supplies the upstream credential at invocation time.
type CredentialSource interface {
	// APIKey returns the bearer token, or "" when none is configured.
	APIKey() string
}

// StaticCredential is a CredentialSource holding a fixed key.
type StaticCredential string

// APIKey returns the key.
func (c StaticCredential) APIKey() string {
	return string(c)
}
