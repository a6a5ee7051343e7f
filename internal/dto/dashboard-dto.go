package dto

// DashboardSummaryDTO backs the admin tickets-summary view.
type DashboardSummaryDTO struct {
	Pending        int64             `json:"pending"`
	Ongoing        int64             `json:"ongoing"`
	Closed         int64             `json:"closed"`
	Total          int64             `json:"total"`
	ByPriority     []CountByLabelDTO `json:"by_priority"`
	ByType         []CountByLabelDTO `json:"by_type"`
	ByCompany      []CountByLabelDTO `json:"by_company"`
	ClosedPerMonth []CountByLabelDTO `json:"closed_per_month"`
	EngineerStats  []EngineerStatDTO `json:"engineer_stats"`

	// Average minutes from creation to closure across closed tickets.
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
}

type CountByLabelDTO struct {
	Label string `json:"label" db:"label"`
	Count int64  `json:"count" db:"count"`
}

// EngineerStatDTO is one engineer's workload line on the admin dashboard.
type EngineerStatDTO struct {
	Name    string `json:"name"`
	Ongoing int64  `json:"ongoing"`
	Closed  int64  `json:"closed"`
}

// ReportFilterDTO narrows the xlsx export.
type ReportFilterDTO struct {
	Status   string `query:"status" validate:"omitempty,oneof=Pending Ongoing Closed"`
	Priority string `query:"priority" validate:"omitempty,ticket_priority"`
	Company  string `query:"company"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}
