package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/table"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return r
}

func TestNewRendererParsesEveryPage(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range pages {
		assert.Contains(t, r.pages, name)
	}
}

func TestRenderLayoutWithUser(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, PageSubAdmins, Page{
		Title: "Sub-Admin List",
		Nav:   "admin",
		User:  &model.User{Name: "Jane Doe", Email: "jane@cayiba.dev"},
		Data: struct{ Table table.View }{Table: table.View{
			Path:        "/admin",
			Headers:     []table.Header{{Key: "email", Label: "Email", Sortable: true, Direction: "asc", Link: "/admin?sort=email"}},
			HasData:     true,
			Empty:       true,
			ColumnCount: 1,
			Page:        1,
			Summary:     "Showing 0 to 0 of 0 results",
		}},
	})

	body := rec.Body.String()
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Contains(t, body, "JD")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, `class="child active" href="/admin"`)
	assert.Contains(t, body, "No data found")
	assert.Contains(t, body, "Showing 0 to 0 of 0 results")
	assert.Contains(t, body, "Page 1 of 0")
	assert.Contains(t, body, "Log out")
}

func TestRenderUnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusOK, "missing.html", Page{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRenderLogin(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()

	r.Render(rec, http.StatusUnprocessableEntity, PageLogin, Page{
		Title: "Sign In",
		Flash: "Saved <now>",
		Data: struct {
			Email, Redirect, Error string
			Errors                 map[string]string
		}{Email: "a@b.c", Errors: map[string]string{"password": "Password is required"}},
	})

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Enter your credentials to access your account")
	assert.Contains(t, body, "Password is required")
	assert.Contains(t, body, "Saved &lt;now&gt;")
	assert.NotContains(t, body, "Log out")
}

func TestThousands(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for n, want := range tests {
		assert.Equal(t, want, Thousands(n))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 5, 2026", FormatDate("2026-03-05T10:00:00Z"))
	assert.Equal(t, "Mar 5, 2026", FormatDate("2026-03-05"))
	assert.Equal(t, "N/A", FormatDate(""))
	assert.Equal(t, "yesterday", FormatDate("yesterday"))
}

func TestVariants(t *testing.T) {
	assert.Equal(t, "destructive", StatusVariant(model.AdStatusBlocked))
	assert.Equal(t, "default", InventoryVariant(model.InventoryAvailable))
	assert.Equal(t, "outline", StatusVariant("UNKNOWN"))
}
