package user

import (
	"time"

	"github.com/frahmantamala/business-management/internal/access"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
)

type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Phone        string      `json:"phone"`
	PasswordHash string      `json:"-"`
	Role         access.Role `json:"role"`
	CompanyID    *int64      `json:"company"`
	CompanyName  *string     `json:"company_name"`
	Active       bool        `json:"active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// UserResponse adds the derived role attributes to the stored fields.
type UserResponse struct {
	*User
	RoleDisplay  string `json:"role_display"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

func (u *User) Identity() *access.Identity {
	return &access.Identity{
		ID:       u.ID,
		Role:     u.Role,
		TenantID: u.CompanyID,
		Active:   u.Active,
	}
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		User:         u,
		RoleDisplay:  u.Role.Display(),
		IsAdmin:      access.IsAdminRole(u.Role),
		IsSuperAdmin: access.IsSuperAdminRole(u.Role),
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CompanyID:    u.CompanyID,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         access.Role(u.Role),
		CompanyID:    u.CompanyID,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
