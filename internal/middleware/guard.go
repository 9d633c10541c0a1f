package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/session"
)

// HomePath is where authenticated admins land by default.
const HomePath = "/dashboard"

// RequireAuth redirects browsers without a valid session to the login
// screen, remembering the attempted location.
func RequireAuth(boundary *Boundary, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, r, ok := initialized(w, r, boundary, logger)
			if !ok {
				return
			}
			if !store.IsAuthenticated() {
				http.Redirect(w, r, apiclient.LoginRedirect(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PublicOnly sends authenticated browsers away from the login screen to the
// location they asked for, or to the dashboard.
func PublicOnly(boundary *Boundary, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, r, ok := initialized(w, r, boundary, logger)
			if !ok {
				return
			}
			if store.IsAuthenticated() {
				http.Redirect(w, r, SafeRedirect(r.URL.Query().Get("redirect")), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// initialized reconciles the browser's session with its persisted token. A
// session that was just purged crosses the boundary: the returned request
// carries the store of the browser's new session id.
func initialized(w http.ResponseWriter, r *http.Request, boundary *Boundary, logger *slog.Logger) (*session.Store, *http.Request, bool) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		logger.Error("guard used without session middleware", "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, r, false
	}

	was := store.IsAuthenticated()
	if err := store.InitializeAuth(r.Context()); err != nil {
		logger.Error("failed to initialize auth", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, r, false
	}
	if !was || store.IsAuthenticated() {
		return store, r, true
	}

	r, err := boundary.Rotate(w, r)
	if err != nil {
		logger.Error("failed to rotate session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, r, false
	}
	store, _ = session.FromContext(r.Context())
	return store, r, true
}

// SafeRedirect returns target when it is a path on this console, otherwise
// the dashboard.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return HomePath
	}
	if strings.HasPrefix(target, apiclient.LoginPath) {
		return HomePath
	}
	return target
}
