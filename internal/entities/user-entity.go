package entities

import (
	"supportdesk/pkg/constants"
	"supportdesk/pkg/types"
)

type User struct {
	ID     int64          `json:"id" db:"id"`
	Name   string         `json:"name" db:"name"`
	Email  string         `json:"email" db:"email"`
	Mobile string         `json:"mobile" db:"mobile"`
	Role   constants.Role `json:"role" db:"role"`

	Password string `json:"-" db:"password"`

	Designation  *string `json:"designation,omitempty" db:"designation"`
	CompanyID    *int64  `json:"company_id,omitempty" db:"company_id"`
	ProfileImage *string `json:"profile_image,omitempty" db:"profile_image"`

	// Joined from companies when the user is a customer.
	CompanyName *string `json:"company,omitempty" db:"-"`

	types.BaseEntity
}
