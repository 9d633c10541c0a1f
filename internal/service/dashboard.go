package service

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/querycache"
)

// Query cache scopes of the dashboard.
const (
	ScopeDashboardStats = "dashboard-stats"
	ScopeDashboardGraph = "dashboard-graph"
)

// ErrDashboardLoading is returned when the dashboard data did not arrive
// within the render budget.
var ErrDashboardLoading = errors.New("dashboard data still loading")

// DashboardAPI is the part of the classifieds API that reports statistics.
type DashboardAPI interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	DashboardGraph(ctx context.Context, period model.GraphPeriod) (model.DashboardGraph, error)
}

// Share is one line of a percentage breakdown.
type Share struct {
	Label   string
	Count   int
	Percent int
	Variant string
}

// Dashboard is everything the dashboard screen shows.
type Dashboard struct {
	Stats     model.DashboardStats
	Status    []Share
	Inventory []Share
	Graph     []model.GraphPoint
	Period    model.GraphPeriod
}

// DashboardService assembles the dashboard.
type DashboardService struct {
	api    DashboardAPI
	budget time.Duration
}

// NewDashboardService creates a new DashboardService. budget bounds how
// long Load waits for data that is not cached.
func NewDashboardService(api DashboardAPI, budget time.Duration) *DashboardService {
	return &DashboardService{api: api, budget: budget}
}

// Load fetches the statistics and the trend series of period in parallel.
// Either failure fails the whole dashboard.
func (s *DashboardService) Load(ctx context.Context, cache *querycache.Cache, period model.GraphPeriod) (Dashboard, error) {
	d := Dashboard{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res := querycache.Query(gctx, cache, querycache.NewKey(ScopeDashboardStats), s.budget, s.api.DashboardStats)
		if res.Err != nil {
			return res.Err
		}
		if !res.HasData {
			return ErrDashboardLoading
		}
		d.Stats = res.Data
		return nil
	})
	g.Go(func() error {
		graph, err := s.Graph(gctx, cache, period)
		if err != nil {
			return err
		}
		d.Graph = graph
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d.Status, d.Inventory = Breakdown(d.Stats)
	return d, nil
}

// Graph returns the trend series of period.
func (s *DashboardService) Graph(ctx context.Context, cache *querycache.Cache, period model.GraphPeriod) ([]model.GraphPoint, error) {
	res := querycache.Query(ctx, cache, querycache.NewKey(ScopeDashboardGraph, string(period)), s.budget,
		func(ctx context.Context) (model.DashboardGraph, error) {
			return s.api.DashboardGraph(ctx, period)
		})
	if res.Err != nil {
		return nil, res.Err
	}
	if !res.HasData {
		return nil, ErrDashboardLoading
	}
	if res.Data.Data == nil {
		return []model.GraphPoint{}, nil
	}
	return res.Data.Data, nil
}

// Breakdown splits the statistics into status and inventory shares of the
// total number of advertisements.
func Breakdown(st model.DashboardStats) (status, inventory []Share) {
	share := func(label string, n int, variant string) Share {
		return Share{Label: label, Count: n, Percent: Percent(n, st.TotalAdvertisements), Variant: variant}
	}
	status = []Share{
		share("Active", st.ActiveAdvertisements, "default"),
		share("Blocked", st.BlockedAdvertisements, "destructive"),
		share("Deleted", st.DeletedAdvertisements, "secondary"),
	}
	inventory = []Share{
		share("Available", st.AvailableInventory, "default"),
		share("Sold", st.SoldInventory, "secondary"),
		share("Unlisted", st.UnlistedInventory, "outline"),
	}
	return status, inventory
}

// Percent is round(n/total*100), or 0 when total is 0.
func Percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
