package externalApi

import (
	"fmt"
	"net/http"
)

// RemoteError is a non-success HTTP response from the API. Message holds
// the server-supplied user-facing text and may be empty, in which case
// callers substitute a per-operation fallback.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// NetworkError is a transport-level failure: the server was never
// reached or the response never arrived. It carries no status code.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
