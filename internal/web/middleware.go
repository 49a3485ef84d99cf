// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/KobbyFlex00/my-login-app/internal/auth"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// withIdentity resolves the session cookie once per request and stashes
// the identity (if any) in the request context.
func (a *App) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := a.sessions.Get(r); id != nil {
			ctx = context.WithValue(ctx, ctxIdentity, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the session identity for the request, or nil.
func identityFrom(r *http.Request) *auth.Identity {
	if v := r.Context().Value(ctxIdentity); v != nil {
		if id, ok := v.(*auth.Identity); ok {
			return id
		}
	}
	return nil
}

// requireIdentity gates a handler on an established session. Anonymous
// requests bounce to the login form with a warning.
func (a *App) requireIdentity(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r) == nil {
			setFlash(w, flashWarning, "You must be logged in to view this page.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h(w, r)
	}
}

// statusRecorder captures the response status for the request metric.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withRequestMetrics counts requests by path and status.
func (a *App) withRequestMetrics(next http.Handler) http.Handler {
	if a.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
