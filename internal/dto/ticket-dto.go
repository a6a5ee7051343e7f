package dto

// CreateTicketDTO is bound from the multipart create form. Attachments
// arrive as separate file parts and are handled by the controller.
type CreateTicketDTO struct {
	Subject     string `json:"subject" form:"subject" validate:"required,min=3,max=255"`
	Description string `json:"description" form:"description" validate:"required,min=3"`
	Priority    string `json:"priority" form:"priority" validate:"required,ticket_priority"`

	// Set to "true" to consume the one-per-month grace request after
	// the quota warning has been shown.
	Override string `json:"override" form:"override"`
}

// EngineerCreateTicketDTO lets an engineer raise a ticket on behalf of
// a customer.
type EngineerCreateTicketDTO struct {
	Subject     string `json:"subject" form:"subject" validate:"required,min=3,max=255"`
	Description string `json:"description" form:"description" validate:"required,min=3"`
	Priority    string `json:"priority" form:"priority" validate:"required,ticket_priority"`
	CustomerID  int64  `json:"customer_id" form:"customer_id" validate:"required,gt=0"`
	Override    string `json:"override" form:"override"`
}

type AssignTicketDTO struct {
	EngineerID int64 `json:"engineer_id" validate:"required,gt=0"`
}

type CloseTicketDTO struct {
	RectificationDate string `json:"rectification_date" validate:"required"`
	WorkDoneComment   string `json:"work_done_comment" validate:"required,min=3"`
}

type TicketResponseDTO struct {
	ID                string  `json:"id"`
	Subject           string  `json:"subject"`
	Type              string  `json:"type"`
	Description       string  `json:"description"`
	Priority          string  `json:"priority"`
	Status            string  `json:"status"`
	RequesterName     string  `json:"requester_name"`
	RequesterCompany  *string `json:"requester_company,omitempty"`
	RequesterEmail    string  `json:"requester_email"`
	RequesterContact  string  `json:"requester_contact"`
	EngineerName      *string `json:"engineer_name,omitempty"`
	EngineerContact   *string `json:"engineer_contact,omitempty"`
	Documents         []string `json:"documents"`
	CreatedAt         string  `json:"created_at"`
	AssignedAt        *string `json:"assigned_at,omitempty"`
	ClosedAt          *string `json:"closed_at,omitempty"`
	RectificationDate *string `json:"rectification_date,omitempty"`
	WorkDoneComment   *string `json:"work_done_comment,omitempty"`
	Duration          *int    `json:"duration,omitempty"`
}

// TicketSummaryDTO aggregates status counts for the engineer and
// customer dashboards.
type TicketSummaryDTO struct {
	Pending int64 `json:"pending"`
	Ongoing int64 `json:"ongoing"`
	Closed  int64 `json:"closed"`
	Total   int64 `json:"total"`
}
