package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cayiba/cayiba-admin/internal/config"
	"github.com/cayiba/cayiba-admin/internal/crypto"
	"github.com/cayiba/cayiba-admin/internal/middleware"
	"github.com/cayiba/cayiba-admin/internal/model"
)

// Server serves the mock REST API.
type Server struct {
	store *Store
	cfg   config.MockAPI
	log   *slog.Logger
}

// NewServer creates a new Server.
func NewServer(cfg config.MockAPI, store *Store, log *slog.Logger) *Server {
	return &Server{store: store, cfg: cfg, log: log}
}

// Routes returns the API mounted under the configured prefix.
func (s *Server) Routes() http.Handler {
	api := chi.NewRouter()
	api.Post("/auth/admin/login", s.handleLogin)

	api.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(s.cfg.JWTSecret))
		r.Get("/admin/sub-admin", s.handleListSubAdmins)
		r.Post("/admin/sub-admin", s.handleCreateSubAdmin)
		r.Get("/advertisment/admin/advertisments", s.handleListAdvertisements)
		r.Get("/search/{id}", s.handleGetAdvertisement)
		r.Post("/advertisment/admin/block/{id}", s.handleBlock)
		r.Get("/admin/dashboard/stats", s.handleStats)
		r.Get("/admin/dashboard/graph", s.handleGraph)
	})

	r := chi.NewRouter()
	r.Mount("/"+strings.Trim(s.cfg.Prefix, "/"), api)
	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		middleware.WriteJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := crypto.GenerateToken(user, s.cfg.JWTSecret, s.cfg.JWTExpiry)
	if err != nil {
		s.log.Error("failed to sign token", "error", err)
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	success(w, http.StatusOK, "Login successful", model.LoginData{
		Token:    token,
		Email:    user.Email,
		FullName: user.Name,
		ID:       user.ID,
	})
}

func (s *Server) handleListSubAdmins(w http.ResponseWriter, r *http.Request) {
	success(w, http.StatusOK, "Sub-admins fetched", s.store.SubAdmins(parseQuery(r.URL.Query())))
}

func (s *Server) handleCreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSubAdminRequest
	if !decode(w, r, &req) {
		return
	}
	if req.FullName == "" || req.Email == "" || req.PhoneNumber == "" || req.CountryCode == "" || req.Country == "" {
		middleware.WriteJSONError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if err := crypto.CheckPasswordPolicy(req.Password); err != nil {
		middleware.WriteJSONError(w, http.StatusUnprocessableEntity, "Password does not meet the policy")
		return
	}

	creator := ""
	if u, ok := middleware.IdentityFromContext(r.Context()); ok {
		creator = u.ID
	}

	created, err := s.store.CreateSubAdmin(req, creator)
	if errors.Is(err, ErrEmailTaken) {
		middleware.WriteJSONError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	if err != nil {
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.log.Info("sub-admin created", "email", created.Email)
	success(w, http.StatusCreated, "Sub-admin created successfully", created)
}

func (s *Server) handleListAdvertisements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := parseQuery(q)
	query.Status = strings.ToUpper(q.Get("status"))
	success(w, http.StatusOK, "Advertisements fetched", s.store.Advertisements(query))
}

func (s *Server) handleGetAdvertisement(w http.ResponseWriter, r *http.Request) {
	ad, err := s.store.Advertisement(chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteJSONError(w, http.StatusNotFound, "Advertisement not found")
		return
	}
	success(w, http.StatusOK, "Advertisement fetched", ad)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	switch err := s.store.Block(id); {
	case errors.Is(err, ErrNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, "Advertisement not found")
	case errors.Is(err, ErrAlreadyBlocked):
		middleware.WriteJSONError(w, http.StatusBadRequest, "Advertisement is already blocked")
	case err != nil:
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	default:
		s.log.Info("advertisement blocked", "id", id)
		success(w, http.StatusOK, "Advertisement blocked successfully", struct{}{})
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	success(w, http.StatusOK, "Dashboard stats fetched", s.store.Stats())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	period := model.ParsePeriod(r.URL.Query().Get("period"))
	success(w, http.StatusOK, "Dashboard graph fetched", s.store.Graph(period))
}

func parseQuery(q url.Values) Query {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return Query{
		Page:      page,
		Limit:     limit,
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		middleware.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func success[T any](w http.ResponseWriter, status int, msg string, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Envelope[T]{
		Status:    "success",
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}
