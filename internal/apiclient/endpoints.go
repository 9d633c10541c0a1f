package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cayiba/cayiba-admin/internal/model"
)

// API paths, relative to the configured prefix.
const (
	PathAdminLogin     = "/auth/admin/login"
	PathSubAdmin       = "/admin/sub-admin"
	PathAdvertisements = "/advertisment/admin/advertisments"
	PathSearch         = "/search"
	PathBlock          = "/advertisment/admin/block"
	PathDashboardStats = "/admin/dashboard/stats"
	PathDashboardGraph = "/admin/dashboard/graph"
)

const (
	defaultAdStatus    = model.AdStatusActive
	defaultAdSortOrder = "desc"
	statusParam        = "status"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginData, error) {
	var data model.LoginData
	_, err := c.do(ctx, call{endpoint: "auth.login", method: http.MethodPost, path: PathAdminLogin, body: req}, &data)
	return data, err
}

// CreateSubAdmin creates a sub-administrator.
func (c *Client) CreateSubAdmin(ctx context.Context, req model.CreateSubAdminRequest) (model.CreatedSubAdmin, error) {
	var data model.CreatedSubAdmin
	_, err := c.do(ctx, call{endpoint: "subadmin.create", method: http.MethodPost, path: PathSubAdmin, body: req}, &data)
	return data, err
}

// ListSubAdmins fetches one page of sub-admins.
func (c *Client) ListSubAdmins(ctx context.Context, params url.Values) (model.TableResponse[model.SubAdmin], error) {
	var data model.PageData[model.SubAdmin]
	msg, err := c.do(ctx, call{endpoint: "subadmin.list", method: http.MethodGet, path: PathSubAdmin, query: params}, &data)
	if err != nil {
		return model.TableResponse[model.SubAdmin]{}, err
	}
	return model.Flatten(model.PaginatedEnvelope[model.SubAdmin]{Message: msg, Data: data}), nil
}

// ListAdvertisements fetches one page of advertisements. An empty status
// means ACTIVE and an empty sort order means desc; model.StatusFilterAll
// sends no status at all.
func (c *Client) ListAdvertisements(ctx context.Context, params url.Values, status string) (model.TableResponse[model.Advertisement], error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	if q.Get("sortOrder") == "" {
		q.Set("sortOrder", defaultAdSortOrder)
	}
	switch status {
	case model.StatusFilterAll:
		q.Del(statusParam)
	case "":
		q.Set(statusParam, string(defaultAdStatus))
	default:
		q.Set(statusParam, status)
	}

	var data model.PageData[model.Advertisement]
	msg, err := c.do(ctx, call{endpoint: "advertisement.list", method: http.MethodGet, path: PathAdvertisements, query: q}, &data)
	if err != nil {
		return model.TableResponse[model.Advertisement]{}, err
	}
	return model.Flatten(model.PaginatedEnvelope[model.Advertisement]{Message: msg, Data: data}), nil
}

// GetAdvertisement fetches one advertisement with its uploader.
func (c *Client) GetAdvertisement(ctx context.Context, id string) (model.AdvertisementDetail, error) {
	var data model.AdvertisementDetail
	_, err := c.do(ctx, call{endpoint: "advertisement.get", method: http.MethodGet, path: PathSearch + "/" + url.PathEscape(id)}, &data)
	return data, err
}

// BlockAdvertisement blocks an advertisement and returns the API message.
func (c *Client) BlockAdvertisement(ctx context.Context, id string) (string, error) {
	return c.do(ctx, call{endpoint: "advertisement.block", method: http.MethodPost, path: PathBlock + "/" + url.PathEscape(id), body: struct{}{}}, nil)
}

// DashboardStats fetches the aggregate counters.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var data model.DashboardStats
	_, err := c.do(ctx, call{endpoint: "dashboard.stats", method: http.MethodGet, path: PathDashboardStats}, &data)
	return data, err
}

// DashboardGraph fetches the trend series for period.
func (c *Client) DashboardGraph(ctx context.Context, period model.GraphPeriod) (model.DashboardGraph, error) {
	var data model.DashboardGraph
	q := url.Values{"period": {string(period)}}
	_, err := c.do(ctx, call{endpoint: "dashboard.graph", method: http.MethodGet, path: PathDashboardGraph, query: q}, &data)
	return data, err
}
