package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	appctx "storepos/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace attaches an appctx.Trace to the request context and echoes its ids
// in the response headers. An active OpenTelemetry span wins over headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := appctx.NewTrace(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderRequestID))
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			t.TraceID = sc.TraceID().String()
			t.SpanID = sc.SpanID().String()
		}

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), t))
		c.Set("trace_id", t.TraceID)
		c.Set("request_id", t.RequestID)

		c.Header(HeaderRequestID, t.RequestID)
		c.Header(HeaderTraceID, t.TraceID)

		c.Next()
	}
}
