package backend

import "errors"

var (
	// ErrUnavailable indicates the remote service could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrNotFound indicates the requested record does not exist remotely.
	ErrNotFound = errors.New("backend record not found")

	// ErrUnauthorized indicates the session is missing, expired, or the
	// API key was rejected.
	ErrUnauthorized = errors.New("backend request unauthorized")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("backend retry attempts exhausted")
)
