package entities

import "time"

// Bundle grants a company extra service requests for one billing month.
// Source is either manual (purchased or granted by an admin) or carry
// (unused manual remainder rolled over from the previous month).
type Bundle struct {
	ID                int64     `json:"id" db:"id"`
	CompanyID         int64     `json:"company_id" db:"company_id"`
	Month             string    `json:"month" db:"month"`
	AdditionalTickets int       `json:"additional_tickets" db:"additional_tickets"`
	Source            string    `json:"source" db:"source"`
	AddedBy           *string   `json:"added_by,omitempty" db:"added_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// QuotaOverride records that a company burned its one-per-month grace
// request. At most one row exists per company and month.
type QuotaOverride struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	Month     string    `json:"month" db:"month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
