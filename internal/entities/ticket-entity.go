package entities

import (
	"time"

	"supportdesk/pkg/types"
)

type Ticket struct {
	ID          int64  `json:"id" db:"id"`
	Subject     string `json:"subject" db:"subject"`
	Type        string `json:"type" db:"type"`
	Description string `json:"description" db:"description"`
	Priority    string `json:"priority" db:"priority"`
	Status      string `json:"status" db:"status"`

	CustomerID int64  `json:"customer_id" db:"customer_id"`
	CompanyID  *int64 `json:"company_id,omitempty" db:"company_id"`
	EngineerID *int64 `json:"engineer_id,omitempty" db:"engineer_id"`

	// Comma separated upload paths attached at creation time.
	Documents *string `json:"documents,omitempty" db:"documents"`

	AssignedAt        *time.Time `json:"assigned_at,omitempty" db:"assigned_at"`
	ClosedAt          *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	RectificationDate *time.Time `json:"rectification_date,omitempty" db:"rectification_date"`
	WorkDoneComment   *string    `json:"work_done_comment,omitempty" db:"work_done_comment"`

	// Minutes between creation and closure, stamped on close.
	Duration *int `json:"duration,omitempty" db:"duration"`

	// Joined fields, populated by list queries.
	RequesterName    string  `json:"requester_name" db:"-"`
	RequesterEmail   string  `json:"requester_email" db:"-"`
	RequesterContact string  `json:"requester_contact" db:"-"`
	RequesterCompany *string `json:"requester_company,omitempty" db:"-"`
	EngineerName     *string `json:"engineer_name,omitempty" db:"-"`
	EngineerContact  *string `json:"engineer_contact,omitempty" db:"-"`

	types.BaseEntity
}
