// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package auth

import "errors"

// Sentinel errors for the failure taxonomy. Services wrap these with oops
// codes; callers match with errors.Is.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when a signup collides with an
	// existing username. The store's unique constraint is the single
	// source of truth for this condition.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords so the two cases cannot be told apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAlreadyAuthenticated is returned when Login is invoked with an
	// established session identity.
	ErrAlreadyAuthenticated = errors.New("already authenticated")

	// ErrUnauthenticated is returned by protected operations called
	// without a session identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the session identity lacks the role
	// an operation requires.
	ErrForbidden = errors.New("permission denied")
)

// Validation failure reasons.
const (
	ReasonMissingField     = "missing_field"
	ReasonPasswordMismatch = "password_mismatch"
)

// ValidationError reports a rejected operation input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}
