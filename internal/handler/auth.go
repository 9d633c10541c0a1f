package handler

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/middleware"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/service"
	"github.com/cayiba/cayiba-admin/internal/session"
	"github.com/cayiba/cayiba-admin/internal/web"
)

const welcomeMessage = "Welcome back! Redirecting to your dashboard..."

type loginData struct {
	Email    string
	Redirect string
	Error    string
	Errors   map[string]string
}

// AuthHandler handles signing in and out of the console.
type AuthHandler struct {
	*Screens
	service  *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(screens *Screens, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Screens: screens, service: svc, validate: newValidator()}
}

// HandleLoginPage handles GET /login requests.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := loginData{Redirect: r.URL.Query().Get("redirect")}
	h.render(w, http.StatusOK, web.PageLogin, h.page(r, "Sign In", "", data))
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, web.PageLogin, h.page(r, "Sign In", "", loginData{Error: "Invalid form submission"}))
		return
	}

	form := LoginForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	data := loginData{Email: form.Email, Redirect: r.PostForm.Get("redirect")}

	if errs := fieldErrors(h.validate, form, loginMessages); errs != nil {
		data.Errors = errs
		h.render(w, http.StatusUnprocessableEntity, web.PageLogin, h.page(r, "Sign In", "", data))
		return
	}

	// A login always starts from a fresh session id and an empty cache.
	r, err := h.Boundary.Rotate(w, r)
	if err != nil {
		h.Logger.Error("failed to rotate session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	store, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	_, err = h.service.Login(r.Context(), store, model.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		h.Logger.Info("login rejected", "email", form.Email, "error", err)
		data.Error = apiclient.LoginMessage(err)
		h.render(w, statusOf(err), web.PageLogin, h.page(r, "Sign In", "", data))
		return
	}

	h.flash(r, welcomeMessage)
	http.Redirect(w, r, middleware.SafeRedirect(data.Redirect), http.StatusSeeOther)
}

// HandleRateLimited answers login attempts rejected by the rate limiter.
func (h *AuthHandler) HandleRateLimited(w http.ResponseWriter, r *http.Request) {
	data := loginData{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Redirect: r.PostFormValue("redirect"),
		Error:    "Too many login attempts. Please try again later.",
	}
	h.render(w, http.StatusTooManyRequests, web.PageLogin, h.page(r, "Sign In", "", data))
}

// HandleLogout handles POST /logout requests. The browser gets a new
// session id and its cached queries are dropped.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if store, ok := session.FromContext(r.Context()); ok {
		if err := h.service.Logout(r.Context(), store); err != nil {
			h.Logger.Error("logout failed", "error", err)
		}
	}
	h.leave(w, r, apiclient.LoginPath)
}

// HandleRoot handles GET / requests.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, middleware.HomePath, http.StatusSeeOther)
}
