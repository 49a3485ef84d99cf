// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package auth

import (
	"context"
	"time"
)

// RoleAdmin is the single privileged role value recognized by the
// authorization check. Roles are otherwise open strings: whatever value a
// signup supplies is stored as-is, compared case-sensitively.
const RoleAdmin = "Admin"

// User is a stored account record. PasswordHash is the opaque output of the
// PasswordHasher; plaintext passwords never appear on this type.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the listing projection of a User. It deliberately has no
// password hash field.
type UserSummary struct {
	ID       int64
	Username string
	Role     string
}

// Identity is the authenticated {username, role} pair established by a
// successful login and held for the duration of a browser session.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the privileged role.
// The comparison is exact and case-sensitive.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// UserRepository manages user persistence.
//
// Create must enforce username uniqueness atomically: of two concurrent
// creates for the same username, exactly one succeeds and the other fails
// with ErrDuplicateUsername.
type UserRepository interface {
	// Create stores a new user and fills in its assigned ID and
	// timestamps. Returns ErrDuplicateUsername (wrapped) when the
	// username is taken.
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves a user by exact, case-sensitive username
	// match. Returns ErrNotFound (wrapped) when no such user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdatePassword overwrites the password hash for a username as a
	// single atomic update. Returns ErrNotFound (wrapped) when no row
	// matches.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// List returns every user in id (insertion) order.
	List(ctx context.Context) ([]UserSummary, error)
}
