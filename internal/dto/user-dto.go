package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	Mobile      string  `json:"mobile" validate:"required,min=7,max=20"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required,oneof=customer engineer admin accountmanager"`
	Designation *string `json:"designation,omitempty"`
	CompanyID   *int64  `json:"company_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateProfileDTO patches the caller's own profile. Absent fields are
// left untouched.
type UpdateProfileDTO struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Mobile      *string     `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
	Designation null.String `json:"designation,omitempty"`
}

type UserResponseDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Mobile       string  `json:"mobile"`
	Role         string  `json:"role"`
	Designation  *string `json:"designation,omitempty"`
	Company      *string `json:"company,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type ShortUserDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}
