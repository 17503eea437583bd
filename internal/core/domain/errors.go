package domain

import "errors"

// Sentinel errors. Adapters wrap them with %w so callers can match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration is a population size or rate out of range.
	// It is raised when a config is built or changed, never mid-evolution.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidPopulation is an empty population, or one whose selection
	// pool would be empty.
	ErrInvalidPopulation = errors.New("invalid population")

	// ErrMalformedGenome means an operator produced content that breaks
	// the genome invariant. It indicates a bug, not bad input.
	ErrMalformedGenome = errors.New("malformed genome")

	// ErrOracleUnavailable means no fitness oracle is configured, or every
	// oracle call failed.
	ErrOracleUnavailable = errors.New("fitness oracle unavailable")

	ErrLLMUnavailable = errors.New("LLM service unavailable")
	ErrRateLimited    = errors.New("rate limited")
)
