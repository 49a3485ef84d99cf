// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/KobbyFlex00/my-login-app/internal/auth"
	"github.com/KobbyFlex00/my-login-app/pkg/errutil"
)

// storeFailureMessage is shown for any store-level failure. The diagnostic
// goes to the log, never to the user.
const storeFailureMessage = "Something went wrong. Please contact an administrator."

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if identityFrom(r) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		a.renderPage(w, r, "login", nil)
	case http.MethodPost:
		a.handleLoginPost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username := r.Form.Get("username")
	password := r.Form.Get("password")

	id, err := a.svc.Login(r.Context(), identityFrom(r), username, password)
	switch {
	case err == nil:
		if a.metrics != nil {
			a.metrics.LoginAttempts.WithLabelValues("success").Inc()
		}
		if err := a.sessions.Set(w, id); err != nil {
			errutil.LogError(a.logger, "session issue failed", err)
			setFlash(w, flashDanger, storeFailureMessage)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		setFlash(w, flashSuccess, "Logged in successfully!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, auth.ErrAlreadyAuthenticated):
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, auth.ErrInvalidCredentials):
		if a.metrics != nil {
			a.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		}
		setFlash(w, flashDanger, "Invalid username or password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		errutil.LogError(a.logger, "login failed", err)
		setFlash(w, flashDanger, storeFailureMessage)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (a *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		a.renderPage(w, r, "signup", nil)
	case http.MethodPost:
		a.handleSignupPost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleSignupPost(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	in := auth.SignupInput{
		Username:        r.Form.Get("username"),
		Password:        r.Form.Get("password"),
		ConfirmPassword: r.Form.Get("confirm_password"),
		Role:            r.Form.Get("role"),
	}

	_, err := a.svc.Signup(r.Context(), in)
	var ve *auth.ValidationError
	switch {
	case err == nil:
		if a.metrics != nil {
			a.metrics.SignupsTotal.Inc()
		}
		// The new account is not logged in; the user signs in themselves.
		setFlash(w, flashSuccess, "Account created successfully! Please log in.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.As(err, &ve) && ve.Reason == auth.ReasonMissingField:
		setFlash(w, flashWarning, "All fields are required!")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	case errors.As(err, &ve) && ve.Reason == auth.ReasonPasswordMismatch:
		setFlash(w, flashDanger, "Passwords do not match!")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	case errors.Is(err, auth.ErrDuplicateUsername):
		setFlash(w, flashDanger, "Username already exists.")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	default:
		errutil.LogError(a.logger, "signup failed", err)
		setFlash(w, flashDanger, storeFailureMessage)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	}
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a.renderPage(w, r, "dashboard", nil)
}

func (a *App) handleViewUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	users, err := a.svc.ListUsers(r.Context(), identityFrom(r))
	switch {
	case err == nil:
		a.renderPage(w, r, "view_users", &viewData{Users: users})
	case errors.Is(err, auth.ErrForbidden):
		setFlash(w, flashDanger, "You do not have permission to view this page.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	default:
		errutil.LogError(a.logger, "user listing failed", err)
		setFlash(w, flashDanger, storeFailureMessage)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func (a *App) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		a.renderPage(w, r, "change_password", nil)
	case http.MethodPost:
		a.handleChangePasswordPost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) handleChangePasswordPost(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	in := auth.ChangePasswordInput{
		OldPassword:        r.Form.Get("old_password"),
		NewPassword:        r.Form.Get("new_password"),
		ConfirmNewPassword: r.Form.Get("confirm_new_password"),
	}

	err := a.svc.ChangePassword(r.Context(), identityFrom(r), in)
	var ve *auth.ValidationError
	switch {
	case err == nil:
		if a.metrics != nil {
			a.metrics.PasswordChanges.Inc()
		}
		setFlash(w, flashSuccess, "Password updated successfully!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.As(err, &ve) && ve.Reason == auth.ReasonMissingField:
		setFlash(w, flashWarning, "All fields are required!")
		http.Redirect(w, r, "/change_password", http.StatusSeeOther)
	case errors.As(err, &ve) && ve.Reason == auth.ReasonPasswordMismatch:
		setFlash(w, flashDanger, "New passwords do not match!")
		http.Redirect(w, r, "/change_password", http.StatusSeeOther)
	case errors.Is(err, auth.ErrInvalidCredentials):
		setFlash(w, flashDanger, "Old password is incorrect.")
		http.Redirect(w, r, "/change_password", http.StatusSeeOther)
	default:
		errutil.LogError(a.logger, "password change failed", err)
		setFlash(w, flashDanger, storeFailureMessage)
		http.Redirect(w, r, "/change_password", http.StatusSeeOther)
	}
}

// handleLogout clears the session unconditionally. Logging out with no
// active session is not an error.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := identityFrom(r); id != nil {
		a.logger.Info("user logged out", "username", id.Username)
	}
	a.sessions.Clear(w)
	setFlash(w, flashSuccess, "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
