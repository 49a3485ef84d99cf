// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

// Package session carries the authenticated identity between requests as
// a tamper-evident, HMAC-signed JWT cookie. The cookie is the sole
// authorization token the client holds; nothing is persisted server-side.
package session

import (
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/KobbyFlex00/my-login-app/internal/auth"
)

// Cookie defaults.
const (
	DefaultCookieName = "loginapp_session"
	DefaultTTL        = 24 * time.Hour

	issuer       = "loginapp"
	parseLeeway  = 30 * time.Second
	minSecretLen = 16
)

// Config configures a Manager.
type Config struct {
	// Secret signs the session cookie. Required, at least 16 bytes.
	Secret []byte
	// TTL bounds the session lifetime. Defaults to DefaultTTL.
	TTL time.Duration
	// CookieName overrides DefaultCookieName.
	CookieName string
	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// claims is the JWT payload: the registered claims plus the role.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues, reads, and clears the session cookie.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewManager creates a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, oops.Code("SESSION_WEAK_SECRET").
			With("min_bytes", minSecretLen).
			Errorf("session secret must be at least %d bytes", minSecretLen)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Manager{secret: cfg.Secret, ttl: ttl, cookieName: name, secure: cfg.Secure}, nil
}

// Set establishes the identity for the browser session by issuing a
// signed cookie.
func (m *Manager) Set(w http.ResponseWriter, id auth.Identity) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Issuer:    issuer,
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return oops.Code("SESSION_SIGN_FAILED").Wrap(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

// Get returns the identity established for the request, or nil when there
// is no session. A missing, expired, or tampered cookie all read as "no
// session"; there is nothing a caller could do differently for each case.
func (m *Manager) Get(r *http.Request) *auth.Identity {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	var cl claims
	parsed, err := jwt.ParseWithClaims(c.Value, &cl, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithLeeway(parseLeeway), jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid || cl.Subject == "" {
		return nil
	}
	return &auth.Identity{Username: cl.Subject, Role: cl.Role}
}

// NewRandomSecret returns n cryptographically random bytes for use as a
// signing secret.
func NewRandomSecret(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, oops.Code("SESSION_SECRET_FAILED").Wrap(err)
	}
	return b, nil
}

// Clear tears down the session. Clearing an absent session is not an
// error.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		MaxAge:   -1,
	})
}
