package models

import (
	"fmt"
	"strings"
)

// ValidationError represents a malformed or inconsistent request.
// It is reported to the caller synchronously and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError represents a lookup for an unknown resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError represents a lost race on shared state, such as a seat
// already taken or a duplicate trip materialization. ContestedSeats names
// the specific seat labels so the caller can re-prompt the user.
type ConflictError struct {
	Message        string
	ContestedSeats []string
}

func (e *ConflictError) Error() string {
	if len(e.ContestedSeats) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.ContestedSeats, ", "))
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, contestedSeats []string) *ConflictError {
	return &ConflictError{Message: message, ContestedSeats: contestedSeats}
}

// PolicyError represents a terminal business-rule rejection,
// e.g. a cancellation outside the allowed window or a past-dated trip.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

// NewPolicyError creates a new policy error
func NewPolicyError(message string) *PolicyError {
	return &PolicyError{Message: message}
}
