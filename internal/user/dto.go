package user

import (
	"github.com/frahmantamala/business-management/internal/core/common/nullable"
)

type CreateUserDTO struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Phone     string `json:"phone" validate:"max=20"`
	CompanyID *int64 `json:"company"`
	Role      string `json:"role" validate:"omitempty,oneof=employee admin super_admin"`
}

// UpdateUserDTO carries a partial update; nil fields are left unchanged.
type UpdateUserDTO struct {
	FirstName *string        `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string        `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string        `json:"phone" validate:"omitempty,max=20"`
	CompanyID nullable.Int64 `json:"company"`
	Role      *string        `json:"role" validate:"omitempty,oneof=employee admin super_admin"`
	Active    *bool          `json:"active"`
}

type ChangePasswordDTO struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ListFilter struct {
	Role      string
	CompanyID *int64
	Active    *bool
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ToggleStatusResponse struct {
	Message string `json:"message"`
	Active  bool   `json:"active"`
}

type RoleCounts struct {
	Admin      int64 `json:"admin"`
	Employee   int64 `json:"employee"`
	SuperAdmin int64 `json:"super_admin"`
}

type StatsResponse struct {
	Total    int64      `json:"total"`
	Active   int64      `json:"active"`
	Inactive int64      `json:"inactive"`
	ByRole   RoleCounts `json:"by_role"`
}

var OrderingFields = []string{"created_at", "email", "first_name"}
