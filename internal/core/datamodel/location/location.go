package location

import "time"

type Location struct {
	ID                 int64     `gorm:"primaryKey"`
	CompanyID          int64     `gorm:"column:company_id;not null;uniqueIndex:idx_locations_company_name"`
	Name               string    `gorm:"column:name;not null;uniqueIndex:idx_locations_company_name"`
	Address            string    `gorm:"column:address"`
	IsPrimaryWarehouse bool      `gorm:"column:is_primary_warehouse;default:false"`
	Active             bool      `gorm:"column:active;default:true"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Location) TableName() string {
	return "locations"
}
