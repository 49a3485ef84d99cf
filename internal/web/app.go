// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

// Package web is the request/response layer: it maps routes onto auth
// service operations, renders server-side HTML, and mutates the session
// through the session manager. All typed service failures resolve to a
// redirect back to the originating form plus a flash message; none crash
// the request.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/KobbyFlex00/my-login-app/internal/auth"
	"github.com/KobbyFlex00/my-login-app/internal/observability"
	"github.com/KobbyFlex00/my-login-app/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageNames lists the renderable pages; each defines the layout's title
// and content blocks.
var pageNames = []string{"login", "signup", "dashboard", "view_users", "change_password"}

// App wires the auth service, session manager, and templates into HTTP
// handlers.
type App struct {
	svc      *auth.Service
	sessions *session.Manager
	pages    map[string]*template.Template
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// viewData is the template context for every page.
type viewData struct {
	Authed    bool
	Username  string
	IsAdmin   bool
	Flash     string
	FlashKind string

	Users []auth.UserSummary
}

// NewApp creates the web application. The metrics handle is optional.
func NewApp(svc *auth.Service, sessions *session.Manager, metrics *observability.Metrics, logger *slog.Logger) (*App, error) {
	if svc == nil {
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("auth service is required")
	}
	if sessions == nil {
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("session manager is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	base := template.New("layout.html")
	pages := map[string]*template.Template{}
	for _, page := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, oops.Code("WEB_TEMPLATE_FAILED").With("page", page).Wrap(err)
		}
		// Each page file overrides the layout's title/content blocks.
		if _, err := t.ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html"); err != nil {
			return nil, oops.Code("WEB_TEMPLATE_FAILED").With("page", page).Wrap(err)
		}
		pages[page] = t
	}

	return &App{
		svc:      svc,
		sessions: sessions,
		pages:    pages,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Handler returns the routed HTTP handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	// "/" doubles as the login page; anything else unrouted is a 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		a.handleLogin(w, r)
	})
	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/signup", a.handleSignup)
	mux.HandleFunc("/dashboard", a.requireIdentity(a.handleDashboard))
	mux.HandleFunc("/view_users", a.requireIdentity(a.handleViewUsers))
	mux.HandleFunc("/change_password", a.requireIdentity(a.handleChangePassword))
	mux.HandleFunc("/logout", a.handleLogout)

	return a.withRequestMetrics(a.withIdentity(mux))
}

// renderPage renders a page with the pending flash message and the
// request identity folded in.
func (a *App) renderPage(w http.ResponseWriter, r *http.Request, page string, data *viewData) {
	if data == nil {
		data = &viewData{}
	}
	if id := identityFrom(r); id != nil {
		data.Authed = true
		data.Username = id.Username
		data.IsAdmin = id.IsAdmin()
	}
	if data.Flash == "" {
		data.FlashKind, data.Flash = popFlash(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.pages[page].ExecuteTemplate(w, "layout.html", data); err != nil {
		a.logger.Error("render failed", "page", page, "error", err)
	}
}
