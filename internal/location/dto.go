package location

type CreateLocationDTO struct {
	CompanyID          int64  `json:"company" validate:"required"`
	Name               string `json:"name" validate:"required,max=200"`
	Address            string `json:"address" validate:"max=255"`
	IsPrimaryWarehouse bool   `json:"is_primary_warehouse"`
}

type UpdateLocationDTO struct {
	CompanyID          *int64  `json:"company"`
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address            *string `json:"address" validate:"omitempty,max=255"`
	IsPrimaryWarehouse *bool   `json:"is_primary_warehouse"`
	Active             *bool   `json:"active"`
}

type ListFilter struct {
	CompanyID          *int64
	IsPrimaryWarehouse *bool
}

var OrderingFields = []string{"name", "created_at"}
