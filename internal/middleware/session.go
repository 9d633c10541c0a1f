package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/session"
)

const cookieMaxAge = 30 * 24 * time.Hour

// SessionCookie describes the browser session id cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Issue sets a fresh browser session id on w and returns it.
func (c SessionCookie) Issue(w http.ResponseWriter) string {
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// Read returns the browser session id carried by r, if it is well formed.
func (c SessionCookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Session loads the store of the requesting browser into the request
// context, issuing a session id to browsers that have none. The request URI
// is recorded as the console location for API calls.
func Session(cookie SessionCookie, manager *session.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := cookie.Read(r)
			if !ok {
				sid = cookie.Issue(w)
			}

			store, err := manager.Load(r.Context(), sid)
			if err != nil {
				logger.Error("failed to load session", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := session.NewContext(r.Context(), store)
			ctx = apiclient.WithLocation(ctx, r.URL.RequestURI())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
