package model

// DashboardStats holds the aggregate counters shown on the dashboard.
type DashboardStats struct {
	TotalAdvertisements   int `json:"totalAdvertisements"`
	ActiveAdvertisements  int `json:"activeAdvertisements"`
	DeletedAdvertisements int `json:"deletedAdvertisements"`
	BlockedAdvertisements int `json:"blockedAdvertisements"`
	AvailableInventory    int `json:"availableInventory"`
	SoldInventory         int `json:"soldInventory"`
	UnlistedInventory     int `json:"unlistedInventory"`
}

// GraphPoint is one sample of the advertisement trend series.
type GraphPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardGraph is the trend series payload.
type DashboardGraph struct {
	Data []GraphPoint `json:"data"`
}

// GraphPeriod is the window of the trend series.
type GraphPeriod string

const (
	Period7Days   GraphPeriod = "7d"
	Period30Days  GraphPeriod = "30d"
	Period90Days  GraphPeriod = "90d"
	Period1Year   GraphPeriod = "1y"
	DefaultPeriod             = Period30Days
)

// PeriodOption is a selectable trend window.
type PeriodOption struct {
	Value GraphPeriod
	Label string
}

// PeriodOptions are the windows offered by the dashboard.
var PeriodOptions = []PeriodOption{
	{Value: Period7Days, Label: "Last 7 days"},
	{Value: Period30Days, Label: "Last 30 days"},
	{Value: Period90Days, Label: "Last 90 days"},
	{Value: Period1Year, Label: "Last 1 year"},
}

// ParsePeriod returns the period named by s, or the default period.
func ParsePeriod(s string) GraphPeriod {
	for _, opt := range PeriodOptions {
		if string(opt.Value) == s {
			return opt.Value
		}
	}
	return DefaultPeriod
}

// Days is the number of daily samples covered by the period.
func (p GraphPeriod) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period90Days:
		return 90
	case Period1Year:
		return 365
	default:
		return 30
	}
}
