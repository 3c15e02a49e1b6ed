package services

import "errors"

var (
	// ErrValidation marks malformed input (bad interval bounds, unknown
	// question ref, missing fields).
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means the referenced quiz, attempt or question does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOpen means the quiz is inactive or outside its activation window.
	ErrNotOpen = errors.New("quiz is not open for attempts")

	// ErrDuplicateActiveAttempt means the student already has a non-terminal
	// attempt at this quiz.
	ErrDuplicateActiveAttempt = errors.New("an active attempt already exists for this quiz")

	// ErrInvalidTransition means the operation is not legal from the
	// attempt's current state.
	ErrInvalidTransition = errors.New("operation not allowed in the current attempt state")

	// ErrConcurrencyConflict means every retry of an optimistic update lost
	// to a concurrent writer; the caller may retry the whole operation.
	ErrConcurrencyConflict = errors.New("attempt was modified concurrently")
)
