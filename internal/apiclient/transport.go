package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cayiba/cayiba-admin/internal/metrics"
	"github.com/cayiba/cayiba-admin/internal/session"
)

type endpointKey struct{}

func withEndpoint(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, endpointKey{}, name)
}

func endpointFrom(ctx context.Context) string {
	if name, ok := ctx.Value(endpointKey{}).(string); ok {
		return name
	}
	return "unknown"
}

// authTransport attaches the bearer token of the session carried by the
// request context. The token is looked up on every call so a login or
// logout earlier in the same request is always honoured.
type authTransport struct {
	base http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if store, ok := session.FromContext(req.Context()); ok {
		if token := store.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	endpoint := endpointFrom(req.Context())
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	metrics.APIRequests.WithLabelValues(endpoint, code).Inc()
	return resp, err
}
