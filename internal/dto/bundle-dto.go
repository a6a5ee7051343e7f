package dto

// PurchaseBundleDTO carries the requested bundle size. The allowed sizes
// come from configuration, so the service validates them.
type PurchaseBundleDTO struct {
	AdditionalTickets int `json:"additional_tickets" validate:"required,gt=0"`
}

type AddBundleDTO struct {
	CompanyID         int64  `json:"company_id" validate:"required,gt=0"`
	Month             string `json:"month" validate:"required,billing_month"`
	AdditionalTickets int    `json:"additional_tickets" validate:"required,gt=0"`
}

type BundleResponseDTO struct {
	ID                int64   `json:"id"`
	Company           string  `json:"company"`
	Month             string  `json:"month"`
	AdditionalTickets int     `json:"additional_tickets"`
	Source            string  `json:"source"`
	AddedBy           *string `json:"added_by,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// QuotaStatusDTO backs the customer ticket-counts view.
type QuotaStatusDTO struct {
	Month       string `json:"month"`
	Used        int    `json:"used"`
	Allowed     int    `json:"allowed"`
	BaseLimit   int    `json:"base_limit"`
	BundleExtra int    `json:"bundle_extra"`
	CarryExtra  int    `json:"carry_extra"`
	UsedExtra   bool   `json:"used_extra"`
	Remaining   int    `json:"remaining"`
}
