// Package apiclient talks to the classifieds REST API. Every call carries the
// bearer token of the browser session found in the request context, and an
// unauthorized answer outside the login flow purges that session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cayiba/cayiba-admin/internal/metrics"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/session"
)

// LoginPath is the console's login screen.
const LoginPath = "/login"

const maxBodySize = 10 << 20 // 10MB

// Client is the authenticated HTTP client of the API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API origin, Prefix the path all endpoints share.
	BaseURL   string
	Prefix    string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/") + "/" + strings.Trim(opts.Prefix, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &authTransport{base: base},
		},
		log: log,
	}
}

type locationKey struct{}

// WithLocation records the console location the call is made from. It is
// used to return the user there after a forced re-login.
func WithLocation(ctx context.Context, location string) context.Context {
	return context.WithValue(ctx, locationKey{}, location)
}

// LocationFrom returns the console location recorded in ctx.
func LocationFrom(ctx context.Context) string {
	loc, _ := ctx.Value(locationKey{}).(string)
	return loc
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
}

// do performs c and decodes the data member of the envelope into out.
func (c *Client) do(ctx context.Context, cl call, out any) (string, error) {
	u := strings.TrimRight(c.baseURL, "/") + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return "", fmt.Errorf("encode %s body: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(withEndpoint(ctx, cl.endpoint), cl.method, u, body)
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", cl.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.log.Warn("api call failed", "endpoint", cl.endpoint, "error", err)
		return "", fmt.Errorf("%w: %s: %v", ErrNetwork, cl.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: read %s response: %v", ErrNetwork, cl.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.failure(ctx, req, resp, raw, cl.endpoint)
	}

	env := model.Envelope[json.RawMessage]{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decode %s response: %w", cl.endpoint, err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode %s data: %w", cl.endpoint, err)
		}
	}
	return env.Message, nil
}

// failure turns a non-2xx response into an error. A 401 outside the login
// flow purges the session and asks for a full navigation to the login screen.
func (c *Client) failure(ctx context.Context, req *http.Request, resp *http.Response, raw []byte, endpoint string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	var env model.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Status = orDefault(env.Status, apiErr.Status)
		apiErr.Message = env.Message
		apiErr.ErrorSource = env.ErrorSource
		apiErr.Errors = env.Errors
	}

	c.log.Info("api call rejected", "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Message)

	if resp.StatusCode != http.StatusUnauthorized {
		return apiErr
	}

	location := LocationFrom(ctx)
	if strings.Contains(location, LoginPath) || strings.Contains(req.URL.Path, LoginPath) {
		return apiErr
	}

	if store, ok := session.FromContext(ctx); ok {
		if err := store.Purge(ctx); err != nil {
			c.log.Error("failed to purge expired session", "error", err)
		}
	}
	metrics.ForcedLogouts.Inc()
	return &UnauthorizedError{RedirectTo: LoginRedirect(location), Err: apiErr}
}

// IsUnauthorized reports whether err asks for a forced re-login and returns
// the login location.
func IsUnauthorized(err error) (string, bool) {
	var u *UnauthorizedError
	if errors.As(err, &u) {
		return u.RedirectTo, true
	}
	return "", false
}
