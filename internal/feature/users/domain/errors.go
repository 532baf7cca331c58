// Package domain defines domain-level errors for the users feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for account operations.
// These errors represent business logic failures and are translated to HTTP
// responses by the transport layer's error mapper.
var (
	// ErrUserNotFound indicates that no user was found with the given criteria.
	// Repositories return it for lookup misses; the usecase decides whether the
	// miss is a 404 (lookup by id) or folded into ErrInvalidCredentials (login).
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// Login returns it for both unknown email and wrong password so responses
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NotFoundError reports a lookup by id that matched no user.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User not found with id: %d", e.ID)
}

// AlreadyExistsError reports a registration attempt with an email that is
// already taken. Email holds the normalized (lowercase) address.
type AlreadyExistsError struct {
	Email string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("User with email %s already exists", e.Email)
}

// ValidationError collects field-level validation messages for a rejected
// request.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}
