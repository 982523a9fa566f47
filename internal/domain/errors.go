package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Repository errors
	ErrNotFound = errors.New("record not found")

	// Lifecycle errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCompleted      = errors.New("job engagement is not completed")
	ErrAlreadyRated      = errors.New("job engagement already rated")
	ErrInvalidEvalScore  = errors.New("evaluation score must be between 1 and 5")

	// Wallet errors
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// Recommendation errors
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)
