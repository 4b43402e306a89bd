package service

import (
	"context"
	"strings"
)

// statsInvalidator is notified when entity totals change.
type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

func invalidate(ctx context.Context, inv statsInvalidator) {
	if inv != nil {
		inv.Invalidate(ctx)
	}
}

// optional trims s and maps blank values to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
