package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for transport-level reporting.
var (
	// ErrFetchFailed matches every non-2xx response via errors.Is.
	ErrFetchFailed = errors.New("fetch failed")
	ErrValidation  = errors.New("validation error")
)

// errorBody is the failure payload the status backend sends.
type errorBody struct {
	Error string `json:"error"`
}

// RemoteError wraps a non-2xx response. Message holds the server-supplied
// error text and is empty when the body carried none.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("failed to fetch data: status %d", e.StatusCode)
}

func (e RemoteError) Is(target error) bool {
	return target == ErrFetchFailed
}
