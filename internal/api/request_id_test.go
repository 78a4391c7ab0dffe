package api

import (
	"context"
	"testing"
)

// TestWithRequestIDAndFromContext verifies storing and retrieving a request ID in context.
func TestWithRequestIDAndFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ctx      func() context.Context
		expectID string
		expectOK bool
	}{
		{
			name:     "id present",
			ctx:      func() context.Context { return WithRequestID(context.Background(), "abc") },
			expectID: "abc",
			expectOK: true,
		},
		{
			name:     "empty id is treated as absent",
			ctx:      func() context.Context { return WithRequestID(context.Background(), "") },
			expectOK: false,
		},
		{
			name:     "no id in context",
			ctx:      context.Background,
			expectOK: false,
		},
		{
			name:     "wrong type under key",
			ctx:      func() context.Context { return context.WithValue(context.Background(), requestIDKey, 42) },
			expectOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := RequestIDFromContext(tt.ctx())
			if ok != tt.expectOK {
				t.Fatalf("expected ok=%v, got %v", tt.expectOK, ok)
			}
			if ok && got != tt.expectID {
				t.Fatalf("unexpected id: got %q, want %q", got, tt.expectID)
			}
		})
	}
}
