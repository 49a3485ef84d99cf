// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service orchestrates the credential lifecycle against a UserRepository
// and a PasswordHasher.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewService creates a Service. All dependencies are required.
func NewService(users UserRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("logger is required")
	}
	return &Service{users: users, hasher: hasher, logger: logger}, nil
}

// dummyPasswordHash is verified against when a username does not exist, so
// lookups for unknown and known usernames take comparable time. It is not a
// credential and matches no password.
//
//nolint:gosec // G101: intentionally fake hash for timing-attack resistance.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignupInput carries the four signup form fields, unnormalized.
type SignupInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            string
}

// Signup registers a new account. It validates the input, hashes the
// password, and inserts the record, relying on the store's unique
// constraint to reject duplicate usernames. The new user is not logged in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*User, error) {
	if in.Username == "" || in.Password == "" || in.ConfirmPassword == "" || in.Role == "" {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").
			With("reason", ReasonMissingField).
			Wrap(&ValidationError{Reason: ReasonMissingField})
	}
	if in.Password != in.ConfirmPassword {
		return nil, oops.Code("AUTH_VALIDATION_FAILED").
			With("reason", ReasonPasswordMismatch).
			Wrap(&ValidationError{Reason: ReasonPasswordMismatch})
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			s.logger.Info("signup rejected, username taken", "username", in.Username)
			return nil, oops.Code("AUTH_DUPLICATE_USERNAME").
				With("username", in.Username).
				Wrap(err)
		}
		return nil, oops.Code("STORE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	s.logger.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// Login verifies a username/password pair and returns the identity to
// establish. Unknown usernames and wrong passwords produce the same
// ErrInvalidCredentials outcome; a dummy hash is verified for unknown
// usernames to keep response time comparable.
//
// If current is non-nil a session is already established and Login
// short-circuits with ErrAlreadyAuthenticated without touching the store.
func (s *Service) Login(ctx context.Context, current *Identity, username, password string) (Identity, error) {
	if current != nil {
		return Identity{}, oops.Code("AUTH_ALREADY_AUTHENTICATED").
			With("username", current.Username).
			Wrap(ErrAlreadyAuthenticated)
	}

	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// Keep going against the dummy hash.
	default:
		return Identity{}, oops.Code("STORE_FAILED").
			With("operation", "get user by username").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		return Identity{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		s.logger.Info("login failed", "username", username)
		return Identity{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	s.logger.Info("login succeeded", "username", user.Username, "role", user.Role)
	return Identity{Username: user.Username, Role: user.Role}, nil
}

// ChangePasswordInput carries the password-change form fields.
type ChangePasswordInput struct {
	OldPassword        string
	NewPassword        string
	ConfirmNewPassword string
}

// ChangePassword verifies the current password for the session identity
// and overwrites the stored hash with a fresh hash of the new password.
// The final write is a single atomic update keyed by username.
//
// The new password is not required to differ from the old one.
func (s *Service) ChangePassword(ctx context.Context, current *Identity, in ChangePasswordInput) error {
	if current == nil {
		return oops.Code("AUTH_UNAUTHENTICATED").Wrap(ErrUnauthenticated)
	}
	if in.OldPassword == "" || in.NewPassword == "" || in.ConfirmNewPassword == "" {
		return oops.Code("AUTH_VALIDATION_FAILED").
			With("reason", ReasonMissingField).
			Wrap(&ValidationError{Reason: ReasonMissingField})
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return oops.Code("AUTH_VALIDATION_FAILED").
			With("reason", ReasonPasswordMismatch).
			Wrap(&ValidationError{Reason: ReasonPasswordMismatch})
	}

	// The record should exist for an authenticated identity, but a
	// concurrent deletion or a stale cookie must surface as a store
	// failure, not a panic.
	user, err := s.users.GetByUsername(ctx, current.Username)
	if err != nil {
		return oops.Code("STORE_FAILED").
			With("operation", "get user for password change").
			With("username", current.Username).
			Wrap(err)
	}

	valid, err := s.hasher.Verify(in.OldPassword, user.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify old password").
			Wrap(err)
	}
	if !valid {
		s.logger.Info("password change rejected, old password incorrect", "username", current.Username)
		return oops.Code("AUTH_INVALID_CREDENTIALS").
			With("field", "old_password").
			Wrap(ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}
	if err := s.users.UpdatePassword(ctx, current.Username, hash); err != nil {
		return oops.Code("STORE_FAILED").
			With("operation", "update password").
			With("username", current.Username).
			Wrap(err)
	}

	s.logger.Info("password changed", "username", current.Username)
	return nil
}

// ListUsers returns every account as {id, username, role} rows in
// insertion order. Requires an Admin identity.
func (s *Service) ListUsers(ctx context.Context, current *Identity) ([]UserSummary, error) {
	if current == nil {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Wrap(ErrUnauthenticated)
	}
	if !current.IsAdmin() {
		return nil, oops.Code("AUTH_FORBIDDEN").
			With("username", current.Username).
			With("role", current.Role).
			Wrap(ErrForbidden)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("STORE_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}
