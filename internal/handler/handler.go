// Package handler serves the console screens.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/middleware"
	"github.com/cayiba/cayiba-admin/internal/querycache"
	"github.com/cayiba/cayiba-admin/internal/session"
	"github.com/cayiba/cayiba-admin/internal/web"
)

// Screens holds what every console handler needs to render a page.
type Screens struct {
	Renderer *web.Renderer
	Boundary *middleware.Boundary
	Logger   *slog.Logger
}

// page builds the layout data of the current request. The pending flash
// notice is consumed.
func (s *Screens) page(r *http.Request, title, nav string, data any) web.Page {
	p := web.Page{Title: title, Nav: nav, CSRF: csrf.TemplateField(r), Data: data}

	store, ok := session.FromContext(r.Context())
	if !ok {
		return p
	}
	p.User = store.Snapshot().User
	flash, err := store.TakeFlash(r.Context())
	if err != nil {
		s.Logger.Warn("failed to read flash", "error", err)
	}
	p.Flash = flash
	return p
}

func (s *Screens) render(w http.ResponseWriter, status int, name string, p web.Page) {
	s.Renderer.Render(w, status, name, p)
}

// cache returns the query cache of the requesting browser.
func (s *Screens) cache(r *http.Request) *querycache.Cache {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return querycache.New(0)
	}
	return s.Boundary.Caches.Get(store.SID())
}

// flash stores a notice for the next screen.
func (s *Screens) flash(r *http.Request, msg string) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return
	}
	if err := store.SetFlash(r.Context(), msg); err != nil {
		s.Logger.Warn("failed to set flash", "error", err)
	}
}

// expired answers a request whose API call found the session expired with a
// redirect to the login screen. It reports whether it did.
func (s *Screens) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	to, ok := apiclient.IsUnauthorized(err)
	if !ok {
		return false
	}
	s.leave(w, r, to)
	return true
}

// leave ends the browser's session and sends it to the login screen.
func (s *Screens) leave(w http.ResponseWriter, r *http.Request, to string) {
	if _, err := s.Boundary.Rotate(w, r); err != nil {
		s.Logger.Error("failed to rotate session", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// statusOf is the response status of a screen showing err.
func statusOf(err error) int {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
