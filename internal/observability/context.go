package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	traceIDBytes = 16 // OpenTelemetry trace ID size in bytes
	spanIDBytes  = 8  // OpenTelemetry span ID size in bytes
)

type scopeKey struct{}

// Scope is the per-invocation identity carried through the context and
// attached to every log line written for that invocation.
type Scope struct {
	TraceID   string
	SpanID    string
	RequestID string
	Model     string
}

// fields returns the non-empty identifiers as log fields.
func (s Scope) fields() []zap.Field {
	fields := make([]zap.Field, 0, maxLoggerFieldCapacity)
	for _, f := range []struct{ key, value string }{
		{"trace_id", s.TraceID},
		{"span_id", s.SpanID},
		{"request_id", s.RequestID},
		{"model", s.Model},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	return fields
}

// ScopeFrom returns the scope stored in ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	scope, _ := ctx.Value(scopeKey{}).(Scope)
	return scope
}

func withScope(ctx context.Context, update func(*Scope)) context.Context {
	scope := ScopeFrom(ctx)
	update(&scope)
	return context.WithValue(ctx, scopeKey{}, scope)
}

// WithNewTrace starts a fresh trace for an invocation. A non-empty requestID
// (for example one assigned by the platform) is kept instead of generating one.
func WithNewTrace(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	return withScope(ctx, func(s *Scope) {
		s.TraceID = randomHex(traceIDBytes)
		s.SpanID = randomHex(spanIDBytes)
		s.RequestID = requestID
	})
}

// WithRequestID replaces the request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withScope(ctx, func(s *Scope) { s.RequestID = requestID })
}

// WithModel records the upstream model answering this invocation.
func WithModel(ctx context.Context, model string) context.Context {
	return withScope(ctx, func(s *Scope) { s.Model = model })
}

func GetTraceID(ctx context.Context) string   { return ScopeFrom(ctx).TraceID }
func GetSpanID(ctx context.Context) string    { return ScopeFrom(ctx).SpanID }
func GetRequestID(ctx context.Context) string { return ScopeFrom(ctx).RequestID }
func GetModel(ctx context.Context) string     { return ScopeFrom(ctx).Model }

// randomHex returns n random bytes hex encoded, falling back to uuid entropy
// when the system source fails.
func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		id := uuid.New()
		return hex.EncodeToString(id[:])[:2*n]
	}
	return hex.EncodeToString(buf)
}
