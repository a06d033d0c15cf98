package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storepos/internal/core/apperror"
	appctx "storepos/internal/core/context"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler(), Operator())
	r.GET("/", handlers...)
	return r
}

func serve(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("invoice", "INV-20240805-0001"))
	})

	rec := serve(r, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestErrorHandler_UnknownErrorIsHidden(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: password authentication failed"))
	})

	rec := serve(r, map[string]string{HeaderRequestID: "req-1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "req-1")
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) { panic("boom") })

	rec := serve(r, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeInternal)
}

func TestTrace_PropagatesHeaders(t *testing.T) {
	var got *appctx.Trace
	r := newEngine(func(c *gin.Context) {
		got = appctx.GetTrace(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := serve(r, map[string]string{HeaderRequestID: "req-9", HeaderTraceID: "trace-9"})
	assert.Equal(t, "req-9", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "trace-9", rec.Header().Get(HeaderTraceID))
	if assert.NotNil(t, got) {
		assert.Equal(t, "trace-9", got.TraceID)
		assert.Len(t, got.SpanID, 16)
	}

	rec = serve(r, nil)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestOperator(t *testing.T) {
	var name string
	r := newEngine(func(c *gin.Context) {
		name = appctx.GetOperatorName(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	serve(r, map[string]string{HeaderOperator: "  till-2 "})
	assert.Equal(t, "till-2", name)

	serve(r, map[string]string{HeaderOperator: strings.Repeat("x", 100)})
	assert.Len(t, name, maxOperatorLength)

	serve(r, nil)
	assert.Equal(t, "system", name)
}
