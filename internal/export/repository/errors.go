package repository

import "errors"

var (
	// ErrInvalidToken marks an authentication failure (401/403) from the
	// source API. It is never retried and aborts the whole run.
	ErrInvalidToken = errors.New("invalid or expired source token")

	// ErrMalformedItem marks a source record missing a required field. The
	// affected item is skipped; the run continues.
	ErrMalformedItem = errors.New("malformed source item")
)
