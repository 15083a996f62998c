package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextAccountKey ctxKey = "accountID"

// AccountIDFromContext returns the authenticated account, or "" when the
// request never passed the account middleware.
func AccountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if accountID, ok := ctx.Value(ContextAccountKey).(string); ok {
		return accountID
	}
	return ""
}

func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ContextAccountKey, accountID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
