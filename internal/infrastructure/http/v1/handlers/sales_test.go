package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/checkout"
	"storepos/internal/domain/invoices"
	"storepos/internal/infrastructure/http/v1/middleware"
)

type fakeCheckout struct {
	receipt *checkout.Receipt
	err     error
}

func (f *fakeCheckout) Quote(context.Context, []checkout.CartItem) (*checkout.Quote, error) {
	return &checkout.Quote{}, nil
}

func (f *fakeCheckout) Checkout(context.Context, checkout.Request) (*checkout.Receipt, error) {
	return f.receipt, f.err
}

func (f *fakeCheckout) RetryInvoice(context.Context, int64) (*invoices.Invoice, error) {
	return nil, f.err
}

func serveCreate(t *testing.T, svc CheckoutService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewSalesHandler(NewBaseHandler(), svc, nil)
	r.POST("/sales", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validCart = `{"items":[{"productId":1,"quantity":2}]}`

func TestSalesHandler_Create_DerivationFailureKeepsSale(t *testing.T) {
	svc := &fakeCheckout{
		receipt: &checkout.Receipt{SaleID: 42},
		err:     apperror.NewInvoiceDerivation(42, errors.New("database is locked")),
	}

	rec := serveCreate(t, svc, validCart)
	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["saleId"])
	assert.Equal(t, true, body["invoicePending"])
	assert.Nil(t, body["invoice"])

	errBody := body["error"].(map[string]any)
	assert.Equal(t, apperror.CodeInvoiceDerivation, errBody["code"])
	assert.NotContains(t, rec.Body.String(), "database is locked")
}

func TestSalesHandler_Create_SaleFailure(t *testing.T) {
	svc := &fakeCheckout{err: apperror.NewPersistence("insert sale header", errors.New("disk full"))}

	rec := serveCreate(t, svc, validCart)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeDatabase)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestSalesHandler_Create_MalformedJSON(t *testing.T) {
	rec := serveCreate(t, &fakeCheckout{}, `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBaseHandler_ParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler()

	for _, tc := range []struct {
		param string
		want  int64
		ok    bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"x", 0, false},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tc.param}}

		got, ok := base.ParseID(c, "id")
		assert.Equal(t, tc.ok, ok, tc.param)
		assert.Equal(t, tc.want, got, tc.param)
		assert.Equal(t, !tc.ok, c.IsAborted(), tc.param)
	}
}
