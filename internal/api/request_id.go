package api

import "context"

type requestIDKeyType struct{}

//nolint:gochecknoglobals // this is zero-size sentinel type.
var requestIDKey = requestIDKeyType{}

// WithRequestID returns a new context carrying id, sent as X-Request-Id.
func WithRequestID(parent context.Context, id string) context.Context {
	return context.WithValue(parent, requestIDKey, id)
}

// RequestIDFromContext extracts a request ID from context if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
