package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchUnavailable signals that an upstream store query failed.
	// The whole search fails; partial results are never returned.
	ErrSearchUnavailable = errors.New("search is temporarily unavailable")
)
