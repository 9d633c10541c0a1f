package handler

import (
	"errors"
	"net/http"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/service"
	"github.com/cayiba/cayiba-admin/internal/web"
)

const dashboardError = "Failed to load dashboard data. Please try again later."

// Bar is one day of the trend chart.
type Bar struct {
	Date  string
	Count int
	// Width is the bar length in percent of the busiest day.
	Width int
}

type dashboardData struct {
	Dashboard service.Dashboard
	Periods   []model.PeriodOption
	Bars      []Bar
	Loading   bool
	Err       string
}

// DashboardHandler serves the dashboard.
type DashboardHandler struct {
	*Screens
	service *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(screens *Screens, svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Screens: screens, service: svc}
}

// HandleDashboard handles GET /dashboard requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	period := model.ParsePeriod(r.URL.Query().Get("period"))
	data := dashboardData{Periods: model.PeriodOptions}

	d, err := h.service.Load(r.Context(), h.cache(r), period)
	if h.expired(w, r, err) {
		return
	}

	p := h.page(r, "Dashboard", "dashboard", &data)
	switch {
	case errors.Is(err, service.ErrDashboardLoading):
		data.Loading = true
		p.Refresh = 1
	case err != nil:
		h.Logger.Warn("dashboard failed", "error", err)
		data.Err = dashboardError
	default:
		data.Dashboard = d
		data.Bars = Bars(d.Graph)
	}
	h.render(w, http.StatusOK, web.PageDashboard, p)
}

// HandleGraph handles GET /dashboard/graph.json requests.
func (h *DashboardHandler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	period := model.ParsePeriod(r.URL.Query().Get("period"))

	points, err := h.service.Graph(r.Context(), h.cache(r), period)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDashboardLoading):
			writeJSON(w, http.StatusAccepted, errorResponse(err.Error()))
		case apiclient.Classify(err) == apiclient.KindExpired:
			if _, rerr := h.Boundary.Rotate(w, r); rerr != nil {
				h.Logger.Error("failed to rotate session", "error", rerr)
			}
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			writeJSON(w, statusOf(err), errorResponse(err.Error()))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.DashboardGraph{Data: points})
}

// Bars scales the trend series against its busiest day.
func Bars(points []model.GraphPoint) []Bar {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	bars := make([]Bar, 0, len(points))
	for _, p := range points {
		bars = append(bars, Bar{Date: p.Date, Count: p.Count, Width: service.Percent(p.Count, peak)})
	}
	return bars
}
