package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	appctx "storepos/internal/core/context"
)

// HeaderOperator labels the cashier or terminal issuing the request.
// It is recorded in the audit trail and is not an authentication mechanism.
const HeaderOperator = "X-Operator"

const maxOperatorLength = 64

// Operator copies the X-Operator header into the request context.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(HeaderOperator))
		if name != "" {
			if utf8.RuneCountInString(name) > maxOperatorLength {
				name = string([]rune(name)[:maxOperatorLength])
			}
			ctx := appctx.WithOperator(c.Request.Context(), &appctx.Operator{Name: name, Source: "http"})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
