package dto

type RegisterCompanyDTO struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	SupportType      string  `json:"support_type" validate:"required,support_type"`
	Location         *string `json:"location,omitempty"`
	ContactPerson    *string `json:"contact_person,omitempty"`
	ContactMobile    *string `json:"contact_mobile,omitempty"`
	AccountManagerID *int64  `json:"account_manager_id,omitempty" validate:"omitempty,gt=0"`
}

type CompanyResponseDTO struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	SupportType    string  `json:"support_type"`
	TicketLimit    int     `json:"ticket_limit"`
	Location       *string `json:"location,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	ContactMobile  *string `json:"contact_mobile,omitempty"`
	AccountManager *string `json:"account_manager,omitempty"`
}

// CompanyDetailsDTO backs the account manager company view: the
// company record plus its customers, current month quota status and
// purchased bundle history.
type CompanyDetailsDTO struct {
	Company   CompanyResponseDTO  `json:"company"`
	Customers []ShortUserDTO      `json:"customers"`
	Quota     QuotaStatusDTO      `json:"quota"`
	Tickets   TicketSummaryDTO    `json:"tickets"`
	Bundles   []BundleResponseDTO `json:"bundles"`
}
