package context

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
)

// Trace correlates the log lines of one HTTP request or one reconciler pass.
type Trace struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// NewTrace builds a Trace, generating any id left empty.
// Span ids are 16 hex characters, the same width OpenTelemetry uses.
func NewTrace(traceID, requestID string) *Trace {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Trace{TraceID: traceID, SpanID: NewSpanID(), RequestID: requestID}
}

// NewSpanID returns a random 16 character hex span id.
func NewSpanID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}

// WithTrace adds Trace to context.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceContextKey{}, t)
}

// GetTrace returns Trace from context.
func GetTrace(ctx context.Context) *Trace {
	if v, ok := ctx.Value(traceContextKey{}).(*Trace); ok {
		return v
	}
	return nil
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
