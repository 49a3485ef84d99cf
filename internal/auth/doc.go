// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

// Package auth implements the credential lifecycle: signup, login,
// password change, and role-gated account listing.
//
// The Service orchestrates a UserRepository and a PasswordHasher. It holds
// no ambient state: the caller passes the current session Identity (if any)
// into every operation that needs one, and is responsible for establishing
// or clearing the session afterwards.
//
// Failures are classified with sentinel errors (ErrInvalidCredentials,
// ErrDuplicateUsername, ErrUnauthenticated, ErrForbidden) and the
// ValidationError type so that callers can match with errors.Is/As. All
// returned errors additionally carry oops codes and context for logging.
package auth
