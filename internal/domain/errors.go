package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("invalid token")
	ErrInvalidGroupBy     = errors.New("invalid group_by")

	ErrNotFound         = errors.New("not found")
	ErrTaskNotFound     = fmt.Errorf("task %w", ErrNotFound)
	ErrAssigneeNotFound = fmt.Errorf("assignee %w", ErrNotFound)

	ErrValidation = errors.New("validation error")
)

// ValidationError describes a rejected input field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }
