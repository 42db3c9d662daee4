package model

import "errors"

var (
	// ErrInvalidInput marks caller errors: no text or file provided,
	// unsupported or unreadable file content. Surfaced, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups of announcements that do not exist
	ErrNotFound = errors.New("announcement not found")
)
