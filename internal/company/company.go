package company

import (
	"time"

	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
)

type BusinessType string

const (
	BusinessTypePharmacy   BusinessType = "pharmacy"
	BusinessTypeClothing   BusinessType = "clothing"
	BusinessTypeGrocery    BusinessType = "grocery"
	BusinessTypeRestaurant BusinessType = "restaurant"
	BusinessTypeOther      BusinessType = "other"
)

const DefaultSubscriptionPlan = "free"

func (b BusinessType) Valid() bool {
	switch b {
	case BusinessTypePharmacy, BusinessTypeClothing, BusinessTypeGrocery, BusinessTypeRestaurant, BusinessTypeOther:
		return true
	}
	return false
}

type Company struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	TaxID            string            `json:"tax_id"`
	BusinessType     BusinessType      `json:"business_type"`
	Address          string            `json:"address"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	LogoURL          string            `json:"logo_url"`
	SubscriptionPlan string            `json:"subscription_plan"`
	ParentID         *int64            `json:"parent"`
	Active           bool              `json:"active"`
	CreatedAt        time.Time         `json:"created_at"`
	Branches         []int64           `json:"branches"`
	Locations        []LocationSummary `json:"locations"`
}

// LocationSummary is the nested location shape in the company read model.
type LocationSummary struct {
	ID                 int64     `json:"id"`
	CompanyID          int64     `json:"company"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	IsPrimaryWarehouse bool      `json:"is_primary_warehouse"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

func (c *Company) IsBranch() bool {
	return c.ParentID != nil
}

func (c *Company) Ref() access.CompanyRef {
	return access.CompanyRef{ID: c.ID, ParentID: c.ParentID, Active: c.Active}
}

func NewCompany(dto CreateCompanyDTO) *Company {
	plan := dto.SubscriptionPlan
	if plan == "" {
		plan = DefaultSubscriptionPlan
	}
	return &Company{
		Name:             dto.Name,
		TaxID:            dto.TaxID,
		BusinessType:     BusinessType(dto.BusinessType),
		Address:          dto.Address,
		Phone:            dto.Phone,
		Email:            dto.Email,
		LogoURL:          dto.LogoURL,
		SubscriptionPlan: plan,
		ParentID:         dto.ParentID,
		Active:           true,
		CreatedAt:        time.Now(),
	}
}

// Apply copies the fields present in dto onto c. TaxID is never copied.
func (c *Company) Apply(dto UpdateCompanyDTO) {
	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.BusinessType != nil {
		c.BusinessType = BusinessType(*dto.BusinessType)
	}
	if dto.Address != nil {
		c.Address = *dto.Address
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.LogoURL != nil {
		c.LogoURL = *dto.LogoURL
	}
	if dto.SubscriptionPlan != nil {
		c.SubscriptionPlan = *dto.SubscriptionPlan
	}
	if dto.ParentID.Set {
		c.ParentID = dto.ParentID.Value
	}
	if dto.Active != nil {
		c.Active = *dto.Active
	}
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		BusinessType:     string(c.BusinessType),
		Address:          c.Address,
		Phone:            c.Phone,
		Email:            c.Email,
		LogoURL:          c.LogoURL,
		SubscriptionPlan: c.SubscriptionPlan,
		ParentID:         c.ParentID,
		Active:           c.Active,
		CreatedAt:        c.CreatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		BusinessType:     BusinessType(c.BusinessType),
		Address:          c.Address,
		Phone:            c.Phone,
		Email:            c.Email,
		LogoURL:          c.LogoURL,
		SubscriptionPlan: c.SubscriptionPlan,
		ParentID:         c.ParentID,
		Active:           c.Active,
		CreatedAt:        c.CreatedAt,
		Branches:         []int64{},
		Locations:        []LocationSummary{},
	}
}

func LocationSummaryFromDataModel(l *locationDatamodel.Location) LocationSummary {
	return LocationSummary{
		ID:                 l.ID,
		CompanyID:          l.CompanyID,
		Name:               l.Name,
		Address:            l.Address,
		IsPrimaryWarehouse: l.IsPrimaryWarehouse,
		Active:             l.Active,
		CreatedAt:          l.CreatedAt,
	}
}
