// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Flash advisory categories.
const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashDanger  = "danger"
)

const flashCookieName = "loginapp_flash"

// setFlash stores a one-shot advisory message for the next page render.
// Every operation failure redirects back to its form with one of these,
// so the cookie only ever lives for a single round trip.
func setFlash(w http.ResponseWriter, kind, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) (kind, message string) {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return "", ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return "", ""
	}
	kind, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return "", ""
	}
	return kind, message
}
