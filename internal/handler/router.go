package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/cayiba/cayiba-admin/internal/metrics"
	"github.com/cayiba/cayiba-admin/internal/middleware"
)

// RouterConfig holds everything the console router is assembled from.
type RouterConfig struct {
	Auth           *AuthHandler
	Dashboard      *DashboardHandler
	SubAdmins      *SubAdminHandler
	Advertisements *AdvertisementHandler

	Boundary *middleware.Boundary
	// CSRFKey enables CSRF protection of the console forms when set.
	CSRFKey    string
	LoginRPS   float64
	LoginBurst int
	Logger     *slog.Logger
}

// NewRouter returns the console's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	b := cfg.Boundary

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.CSRFKey != "" {
			r.Use(csrfProtect(cfg.CSRFKey, b.Cookie.Secure, log))
		}
		r.Use(middleware.Session(b.Cookie, b.Manager, log))

		r.Get("/", HandleRoot)
		r.Post("/logout", cfg.Auth.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicOnly(b, log))
			r.Get("/login", cfg.Auth.HandleLoginPage)
			r.With(middleware.RateLimit(cfg.LoginRPS, cfg.LoginBurst, cfg.Auth.HandleRateLimited)).
				Post("/login", cfg.Auth.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(b, log))

			r.Get("/dashboard", cfg.Dashboard.HandleDashboard)
			r.Get("/dashboard/graph.json", cfg.Dashboard.HandleGraph)

			r.Get(PathSubAdmins, cfg.SubAdmins.HandleList)
			r.Get(PathCreateSubAdmin, cfg.SubAdmins.HandleCreatePage)
			r.Post(PathCreateSubAdmin, cfg.SubAdmins.HandleCreate)

			r.Get(PathAdvertisements, cfg.Advertisements.HandleList)
			r.Get(PathAdvertisements+"/details/{id}", cfg.Advertisements.HandleDetail)
			r.Post(PathAdvertisements+"/details/{id}/block", cfg.Advertisements.HandleBlock)
		})
	})

	return r
}

// csrfProtect guards the console forms. Over plain HTTP the origin check
// has to be told the request is not TLS.
func csrfProtect(key string, secure bool, log *slog.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect([]byte(key),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
