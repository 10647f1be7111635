package company

import "time"

type Company struct {
	ID               int64     `gorm:"primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	TaxID            string    `gorm:"column:tax_id;size:11;uniqueIndex;not null"`
	BusinessType     string    `gorm:"column:business_type;not null"`
	Address          string    `gorm:"column:address"`
	Phone            string    `gorm:"column:phone"`
	Email            string    `gorm:"column:email"`
	LogoURL          string    `gorm:"column:logo_url"`
	SubscriptionPlan string    `gorm:"column:subscription_plan;default:free"`
	ParentID         *int64    `gorm:"column:parent_id;index"`
	Active           bool      `gorm:"column:active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string {
	return "companies"
}
