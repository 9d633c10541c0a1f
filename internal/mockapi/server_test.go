package mockapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/config"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/repository"
	"github.com/cayiba/cayiba-admin/internal/session"
)

const (
	adminEmail    = "admin@cayiba.dev"
	adminPassword = "Admin12345"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T, seed int) (*apiclient.Client, *Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := NewStore(adminEmail, adminPassword, func() time.Time { return testNow })
	require.NoError(t, err)
	store.Seed(seed)

	cfg := config.MockAPI{Prefix: "/cayiba/api/v1", JWTSecret: "test-secret", JWTExpiry: time.Hour}
	srv := httptest.NewServer(NewServer(cfg, store, log).Routes())
	t.Cleanup(srv.Close)

	return apiclient.New(apiclient.Options{BaseURL: srv.URL, Prefix: cfg.Prefix, Logger: log}), store
}

func signedIn(t *testing.T, c *apiclient.Client) context.Context {
	t.Helper()
	s, err := session.NewManager(repository.NewMemoryStorage()).Load(context.Background(), "sid")
	require.NoError(t, err)
	ctx := session.NewContext(context.Background(), s)

	data, err := c.Login(ctx, model.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(ctx, model.User{ID: data.ID, Email: data.Email, Name: data.FullName}, data.Token))
	return ctx
}

func TestLogin(t *testing.T) {
	c, _ := newTestAPI(t, 0)

	data, err := c.Login(context.Background(), model.LoginRequest{Email: adminEmail, Password: adminPassword})

	require.NoError(t, err)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "Super Admin", data.FullName)
}

func TestLoginWrongPassword(t *testing.T) {
	c, _ := newTestAPI(t, 0)

	_, err := c.Login(context.Background(), model.LoginRequest{Email: adminEmail, Password: "nope-nope"})

	require.Error(t, err)
	assert.Equal(t, apiclient.KindAuthentication, apiclient.Classify(err))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c, _ := newTestAPI(t, 3)

	_, err := c.DashboardStats(context.Background())

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestListAdvertisementsPaginates(t *testing.T) {
	c, _ := newTestAPI(t, 25)
	ctx := signedIn(t, c)

	resp, err := c.ListAdvertisements(ctx, url.Values{"page": {"2"}, "limit": {"5"}}, model.StatusFilterAll)

	require.NoError(t, err)
	assert.Equal(t, 25, resp.TotalDocs)
	assert.Equal(t, 5, resp.TotalPages)
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Data, 5)
	assert.True(t, resp.HasPrevPage)
	assert.True(t, resp.HasNextPage)
}

func TestListAdvertisementsDefaultsToActive(t *testing.T) {
	c, _ := newTestAPI(t, 10)
	ctx := signedIn(t, c)

	resp, err := c.ListAdvertisements(ctx, url.Values{"limit": {"50"}}, "")

	require.NoError(t, err)
	require.NotEmpty(t, resp.Data)
	for _, ad := range resp.Data {
		assert.Equal(t, model.AdStatusActive, ad.Status)
	}
}

func TestListAdvertisementsNewestFirst(t *testing.T) {
	c, _ := newTestAPI(t, 10)
	ctx := signedIn(t, c)

	resp, err := c.ListAdvertisements(ctx, url.Values{"limit": {"50"}}, model.StatusFilterAll)

	require.NoError(t, err)
	for i := 1; i < len(resp.Data); i++ {
		assert.GreaterOrEqual(t, resp.Data[i-1].CreatedAt, resp.Data[i].CreatedAt)
	}
}

func TestSearchSubAdmins(t *testing.T) {
	c, _ := newTestAPI(t, 0)
	ctx := signedIn(t, c)

	for _, name := range []string{"Alice Smith", "Bob Jones"} {
		_, err := c.CreateSubAdmin(ctx, model.CreateSubAdminRequest{
			FullName: name, Email: name[:3] + "@example.com", PhoneNumber: "5551234567",
			CountryCode: "+1", Country: "United States", Password: "Passw0rdX",
		})
		require.NoError(t, err)
	}

	resp, err := c.ListSubAdmins(ctx, url.Values{"search": {"alice"}})

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Alice Smith", resp.Data[0].FullName)
	assert.Equal(t, "SUB_ADMIN", resp.Data[0].Role)
}

func TestCreateSubAdminConflict(t *testing.T) {
	c, _ := newTestAPI(t, 0)
	ctx := signedIn(t, c)
	req := model.CreateSubAdminRequest{
		FullName: "Alice", Email: "alice@example.com", PhoneNumber: "5551234567",
		CountryCode: "+1", Country: "United States", Password: "Passw0rdX",
	}

	_, err := c.CreateSubAdmin(ctx, req)
	require.NoError(t, err)
	_, err = c.CreateSubAdmin(ctx, req)

	assert.Equal(t, apiclient.KindConflict, apiclient.Classify(err))
}

func TestBlockAdvertisement(t *testing.T) {
	c, store := newTestAPI(t, 0)
	ctx := signedIn(t, c)
	store.Add(model.AdvertisementDetail{Advertisement: model.Advertisement{AdvertisementID: "ad-1", Status: model.AdStatusActive}})

	msg, err := c.BlockAdvertisement(ctx, "ad-1")
	require.NoError(t, err)
	assert.Equal(t, "Advertisement blocked successfully", msg)

	ad, err := c.GetAdvertisement(ctx, "ad-1")
	require.NoError(t, err)
	assert.Equal(t, model.AdStatusBlocked, ad.Status)

	_, err = c.BlockAdvertisement(ctx, "ad-1")
	assert.Equal(t, apiclient.KindValidation, apiclient.Classify(err))
}

func TestGetAdvertisementNotFound(t *testing.T) {
	c, _ := newTestAPI(t, 0)
	ctx := signedIn(t, c)

	_, err := c.GetAdvertisement(ctx, "missing")

	assert.Equal(t, apiclient.KindNotFound, apiclient.Classify(err))
}

func TestStatsAndGraph(t *testing.T) {
	c, store := newTestAPI(t, 0)
	ctx := signedIn(t, c)
	today := testNow.Format(time.RFC3339)
	store.Add(model.AdvertisementDetail{Advertisement: model.Advertisement{AdvertisementID: "a", Status: model.AdStatusActive, InventoryDetails: model.InventoryAvailable, CreatedAt: today}})
	store.Add(model.AdvertisementDetail{Advertisement: model.Advertisement{AdvertisementID: "b", Status: model.AdStatusBlocked, InventoryDetails: model.InventorySold, CreatedAt: today}})

	stats, err := c.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{
		TotalAdvertisements: 2, ActiveAdvertisements: 1, BlockedAdvertisements: 1,
		AvailableInventory: 1, SoldInventory: 1,
	}, stats)

	graph, err := c.DashboardGraph(ctx, model.Period7Days)
	require.NoError(t, err)
	require.Len(t, graph.Data, 7)
	assert.Equal(t, "2026-03-15", graph.Data[6].Date)
	assert.Equal(t, 2, graph.Data[6].Count)
}

func TestPaginateEmpty(t *testing.T) {
	page := paginate([]model.SubAdmin{}, 1, 10)

	assert.Equal(t, 0, page.TotalDocs)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.Empty(t, page.Docs)
}
