package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNoAPIKey indicates the catalog API key is not configured
	ErrNoAPIKey = errors.New("catalog API key is not configured")

	// ErrServerOffline indicates a remote service is unreachable
	ErrServerOffline = errors.New("remote service is unreachable")

	// ErrAuthFailed indicates the remote service rejected our credentials
	ErrAuthFailed = errors.New("API key is invalid")

	// ErrMovieNotFound indicates the requested movie does not exist in the catalog
	ErrMovieNotFound = errors.New("movie not found")

	// ErrBackend indicates the analytics backend reported a failure of its own
	ErrBackend = errors.New("analytics backend error")

	// ErrStaleSync indicates a sync cycle was superseded by a newer LikedSet version
	ErrStaleSync = errors.New("sync superseded by a newer change")
)
