package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyDescription     = fmt.Errorf("%w: empty description", ErrValidation)
	ErrEmptyName            = fmt.Errorf("%w: empty name", ErrValidation)
	ErrInvalidBudget        = fmt.Errorf("%w: budget must be greater than zero", ErrValidation)
	ErrUnknownCurrency      = fmt.Errorf("%w: unknown currency", ErrValidation)
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrLastAccount          = fmt.Errorf("%w: you must have at least one account", ErrConstraintViolation)
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrAccountNotFound      = errors.New("account not found")
	ErrRuleNotFound         = errors.New("recurring rule not found")
	ErrGoalNotFound         = errors.New("savings goal not found")
	ErrUnknownFrequency     = errors.New("unknown frequency")
)

// ValidationError describes the first offending element of an import document.
// Index is -1 when the document shape itself is wrong.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "invalid data format: " + e.Reason
	}
	if e.Field == "" {
		return fmt.Sprintf("transaction #%d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("transaction #%d: field %q %s", e.Index+1, e.Field, e.Reason)
}

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }
