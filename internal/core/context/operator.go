// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"strings"
)

// Operator identifies the cashier or process acting on the store.
// It is a free-text label supplied by the caller, not an authenticated identity.
type Operator struct {
	Name   string
	Source string // "http", "worker", "seed"
}

type operatorContextKey struct{}

// WithOperator adds Operator to context.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns Operator from context.
func GetOperator(ctx context.Context) *Operator {
	if v, ok := ctx.Value(operatorContextKey{}).(*Operator); ok {
		return v
	}
	return nil
}

// GetOperatorName returns the operator label or "system" when none is set.
func GetOperatorName(ctx context.Context) string {
	if op := GetOperator(ctx); op != nil {
		if name := strings.TrimSpace(op.Name); name != "" {
			return name
		}
	}
	return "system"
}
