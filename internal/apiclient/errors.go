package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrNetwork marks failures to reach the API at all.
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode  int
	Status      string
	Message     string
	ErrorSource string
	Errors      string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// UnauthorizedError is returned when the API rejected the session. The
// session has already been purged; RedirectTo is the login screen with the
// location to return to.
type UnauthorizedError struct {
	RedirectTo string
	Err        *APIError
}

func (e *UnauthorizedError) Error() string {
	return "session expired: " + e.Err.Error()
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

// LoginRedirect builds the login location that returns to location.
func LoginRedirect(location string) string {
	if location == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(location)
}

// Kind classifies a failed API call.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindExpired
	KindValidation
	KindConflict
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServer
	KindNetwork
	KindCanceled
)

// Classify maps an error returned by Client to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		return KindExpired
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.StatusCode; {
		case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
			return KindValidation
		case code == http.StatusUnauthorized:
			return KindAuthentication
		case code == http.StatusForbidden:
			return KindForbidden
		case code == http.StatusNotFound:
			return KindNotFound
		case code == http.StatusConflict:
			return KindConflict
		case code == http.StatusTooManyRequests:
			return KindRateLimited
		case code >= 500:
			return KindServer
		}
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindNetwork
}

// serverMessage returns the message the API sent, if any.
func serverMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// LoginMessage is the inline message shown when a login attempt fails.
func LoginMessage(err error) string {
	msg := serverMessage(err)
	switch Classify(err) {
	case KindAuthentication:
		return orDefault(msg, "Invalid email or password. Please check your credentials.")
	case KindValidation:
		return orDefault(msg, "Invalid request. Please check your input.")
	case KindRateLimited:
		return "Too many login attempts. Please try again later."
	case KindServer:
		return "Server error. Please try again later."
	}
	return orDefault(msg, "Login failed. Please try again.")
}

// CreateSubAdminMessage is the message shown when creating a sub-admin fails.
func CreateSubAdminMessage(err error) string {
	msg := serverMessage(err)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
		return orDefault(msg, "Validation error. Please check your input.")
	}
	switch Classify(err) {
	case KindValidation:
		return orDefault(msg, "Invalid request. Please check your input.")
	case KindConflict:
		return "Email already exists. Please use a different email."
	case KindForbidden:
		return "You don't have permission to create sub-admins."
	case KindServer:
		return "Server error. Please try again later."
	}
	return orDefault(msg, "Failed to create sub-admin. Please try again.")
}

// ActionMessage is the message shown when blocking an advertisement fails.
func ActionMessage(err error) string {
	msg := serverMessage(err)
	switch Classify(err) {
	case KindForbidden:
		return "You don't have permission to block advertisements."
	case KindNotFound:
		return orDefault(msg, "Advertisement not found.")
	case KindServer:
		return "Server error. Please try again later."
	}
	return orDefault(msg, "Failed to block advertisement. Please try again.")
}

// ReadMessage is the text of the inline error panel shown for failed reads.
func ReadMessage(err error) string {
	switch Classify(err) {
	case KindNetwork:
		return "Network error. Please check your connection."
	case KindCanceled:
		return "Request was cancelled."
	}
	return err.Error()
}
