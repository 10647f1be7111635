package company

import (
	"github.com/frahmantamala/business-management/internal/core/common/nullable"
)

type CreateCompanyDTO struct {
	Name             string `json:"name" validate:"required,max=200"`
	TaxID            string `json:"tax_id" validate:"required,len=11,numeric"`
	BusinessType     string `json:"business_type" validate:"required,oneof=pharmacy clothing grocery restaurant other"`
	Address          string `json:"address" validate:"max=255"`
	Phone            string `json:"phone" validate:"max=20"`
	Email            string `json:"email" validate:"omitempty,email"`
	LogoURL          string `json:"logo_url" validate:"omitempty,url"`
	SubscriptionPlan string `json:"subscription_plan" validate:"max=50"`
	ParentID         *int64 `json:"parent"`
}

// UpdateCompanyDTO carries a partial update; nil fields are left unchanged.
type UpdateCompanyDTO struct {
	Name             *string        `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID            *string        `json:"tax_id"`
	BusinessType     *string        `json:"business_type" validate:"omitempty,oneof=pharmacy clothing grocery restaurant other"`
	Address          *string        `json:"address" validate:"omitempty,max=255"`
	Phone            *string        `json:"phone" validate:"omitempty,max=20"`
	Email            *string        `json:"email" validate:"omitempty,email"`
	LogoURL          *string        `json:"logo_url" validate:"omitempty,url"`
	SubscriptionPlan *string        `json:"subscription_plan" validate:"omitempty,max=50"`
	ParentID         nullable.Int64 `json:"parent"`
	Active           *bool          `json:"active"`
}

// ListFilter holds the company list filters; zero values do not filter.
type ListFilter struct {
	BusinessType     string
	SubscriptionPlan string
	ParentID         *int64
}

var OrderingFields = []string{"name", "created_at"}
