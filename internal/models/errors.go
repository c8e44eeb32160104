package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyAnswered   = errors.New("quiz already answered")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")

	ErrAlreadyEnrolled = fmt.Errorf("already enrolled in course: %w", ErrConflict)
)

// Action tells the caller what to do about a failed operation.
type Action string

const (
	ActionRetryWithDifferentInput Action = "retry_with_different_input"
	ActionDoNotRetry              Action = "do_not_retry"
	ActionReauthenticate          Action = "reauthenticate"
	ActionRetryLater              Action = "retry_later"
)

// ActionFor classifies err. Unknown errors are treated as transient.
func ActionFor(err error) Action {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return ActionReauthenticate
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrValidation):
		return ActionRetryWithDifferentInput
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrAlreadyAnswered),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotFound):
		return ActionDoNotRetry
	default:
		return ActionRetryLater
	}
}

// Code returns a stable machine-readable name for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyEnrolled):
		return "ALREADY_ENROLLED"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyAnswered):
		return "ALREADY_ANSWERED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL"
	}
}
