package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrTourNotFound    = fmt.Errorf("tour %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrSlotNotFound    = fmt.Errorf("slot %w", ErrNotFound)

	ErrSlotNotAvailable     = errors.New("selected date/time is not available")
	ErrInsufficientCapacity = errors.New("not enough spots left for the selected date/time")

	ErrForbidden         = errors.New("not authorized to access this booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrValidation        = errors.New("validation failed")
)

type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
