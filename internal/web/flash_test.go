// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, flashDanger, "Invalid username or password.")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, flashCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	rec2 := httptest.NewRecorder()
	kind, message := popFlash(rec2, req)
	assert.Equal(t, flashDanger, kind)
	assert.Equal(t, "Invalid username or password.", message)

	// Popping sets a deletion cookie so the message shows exactly once.
	deletions := rec2.Result().Cookies()
	require.Len(t, deletions, 1)
	assert.Negative(t, deletions[0].MaxAge)
}

func TestPopFlash(t *testing.T) {
	t.Run("no cookie reads as no flash", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		kind, message := popFlash(httptest.NewRecorder(), req)
		assert.Empty(t, kind)
		assert.Empty(t, message)
	})

	t.Run("garbage cookie reads as no flash", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "!!not-base64!!"})
		kind, message := popFlash(httptest.NewRecorder(), req)
		assert.Empty(t, kind)
		assert.Empty(t, message)
	})

	t.Run("message may itself contain the separator", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setFlash(rec, flashSuccess, "a|b|c")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])

		kind, message := popFlash(httptest.NewRecorder(), req)
		assert.Equal(t, flashSuccess, kind)
		assert.Equal(t, "a|b|c", message)
	})
}
