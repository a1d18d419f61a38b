// Package requestctx carries the request id on the context so log lines and
// API envelopes can be correlated.
package requestctx

import "context"

type contextKey string

const keyRequestID contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// GetRequestID returns the request id or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}
