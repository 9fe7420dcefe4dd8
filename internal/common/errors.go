package common

import "errors"

// Business logic errors
var (
	// Not-found errors
	ErrContentNotFound  = errors.New("content not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrVersionNotFound  = errors.New("version not found")

	// Validation errors (malformed bulk operation, missing required
	// parameter, past-dated schedule time)
	ErrValidation = errors.New("validation failed")

	// State errors (cancel/update attempted on a non-pending schedule)
	ErrInvalidState = errors.New("schedule is not pending")

	// Advisory-lock contention on the cancel-then-insert sequence
	ErrConcurrentUpdate = errors.New("concurrent scheduling in progress")

	// Persistence errors wrap underlying store failures
	ErrPersistence = errors.New("persistence failure")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
