package middleware

import (
	"net/http"

	"github.com/cayiba/cayiba-admin/internal/querycache"
	"github.com/cayiba/cayiba-admin/internal/session"
)

// Boundary ends a browser session at login, logout and forced re-login.
type Boundary struct {
	Cookie  SessionCookie
	Manager *session.Manager
	Caches  *querycache.Registry
}

// Rotate drops every query cached for the requesting browser and moves it
// to a fresh session id. The returned request carries the new, logged out
// store.
func (b *Boundary) Rotate(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	if store, ok := session.FromContext(r.Context()); ok {
		b.Caches.Drop(store.SID())
	}

	sid := b.Cookie.Issue(w)
	store, err := b.Manager.Load(r.Context(), sid)
	if err != nil {
		return r, err
	}
	return r.WithContext(session.NewContext(r.Context(), store)), nil
}
