// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"fmt"
	"time"
)

// PageQuery contains limit/offset pagination parameters.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// DateRangeQuery is an optional inclusive date range. Values are RFC3339
// timestamps or plain dates; a plain "to" date covers the whole day.
type DateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// Parse converts the range into time bounds.
func (q DateRangeQuery) Parse() (from, to *time.Time, err error) {
	if q.From != "" {
		t, _, err := parseDate(q.From)
		if err != nil {
			return nil, nil, fmt.Errorf("from: %w", err)
		}
		from = &t
	}
	if q.To != "" {
		t, dateOnly, err := parseDate(q.To)
		if err != nil {
			return nil, nil, fmt.Errorf("to: %w", err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return t, true, nil
}

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse creates a list response.
func NewListResponse[T any](items []T, limit, offset int) ListResponse[T] {
	return ListResponse[T]{Items: items, Count: len(items), Limit: limit, Offset: offset}
}

// ErrorResponse mirrors the body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HistoryQuery limits GET /sales/:id/history and /invoices/:id/history.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
