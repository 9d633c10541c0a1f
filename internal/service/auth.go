package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/session"
)

// ErrMissingToken is returned when the API accepts a login but sends no token.
var ErrMissingToken = errors.New("login response carried no token")

// AuthAPI is the part of the classifieds API used to sign in.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginData, error)
}

// AuthService signs operators in and out of the console.
type AuthService struct {
	api AuthAPI
	log *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(api AuthAPI, log *slog.Logger) *AuthService {
	return &AuthService{api: api, log: log}
}

// Login exchanges credentials for a token and stores it in the browser's
// session. Nothing is stored when the API rejects the attempt.
func (s *AuthService) Login(ctx context.Context, store *session.Store, req model.LoginRequest) (model.User, error) {
	data, err := s.api.Login(ctx, req)
	if err != nil {
		return model.User{}, err
	}
	if data.Token == "" {
		return model.User{}, ErrMissingToken
	}

	user := model.User{ID: data.ID, Email: data.Email, Name: data.FullName}
	if err := store.SetAuth(ctx, user, data.Token); err != nil {
		return model.User{}, err
	}

	s.log.Info("admin signed in", "email", user.Email)
	return user, nil
}

// Logout clears the browser's session.
func (s *AuthService) Logout(ctx context.Context, store *session.Store) error {
	return store.Logout(ctx)
}
