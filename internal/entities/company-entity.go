package entities

import "supportdesk/pkg/types"

type Company struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	SupportTypeID int64   `json:"support_type_id" db:"support_type_id"`
	Location      *string `json:"location,omitempty" db:"location"`
	ContactPerson *string `json:"contact_person,omitempty" db:"contact_person"`
	ContactMobile *string `json:"contact_mobile,omitempty" db:"contact_mobile"`

	// Account manager responsible for the company.
	AccountManagerID *int64 `json:"account_manager_id,omitempty" db:"account_manager_id"`

	// Joined fields.
	SupportTypeName    string  `json:"support_type" db:"-"`
	TicketLimit        int     `json:"ticket_limit" db:"-"`
	AccountManagerName *string `json:"account_manager,omitempty" db:"-"`

	types.BaseEntity
}

type SupportType struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	TicketLimit int    `json:"ticket_limit" db:"ticket_limit"`
}
