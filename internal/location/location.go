package location

import (
	"time"

	"github.com/frahmantamala/business-management/internal/access"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
)

type Location struct {
	ID                 int64     `json:"id"`
	CompanyID          int64     `json:"company"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	IsPrimaryWarehouse bool      `json:"is_primary_warehouse"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

func (l *Location) Ref() access.LocationRef {
	return access.LocationRef{ID: l.ID, CompanyID: l.CompanyID, Active: l.Active}
}

func NewLocation(dto CreateLocationDTO) *Location {
	return &Location{
		CompanyID:          dto.CompanyID,
		Name:               dto.Name,
		Address:            dto.Address,
		IsPrimaryWarehouse: dto.IsPrimaryWarehouse,
		Active:             true,
		CreatedAt:          time.Now(),
	}
}

func (l *Location) Apply(dto UpdateLocationDTO) {
	if dto.CompanyID != nil {
		l.CompanyID = *dto.CompanyID
	}
	if dto.Name != nil {
		l.Name = *dto.Name
	}
	if dto.Address != nil {
		l.Address = *dto.Address
	}
	if dto.IsPrimaryWarehouse != nil {
		l.IsPrimaryWarehouse = *dto.IsPrimaryWarehouse
	}
	if dto.Active != nil {
		l.Active = *dto.Active
	}
}

func ToDataModel(l *Location) *locationDatamodel.Location {
	return &locationDatamodel.Location{
		ID:                 l.ID,
		CompanyID:          l.CompanyID,
		Name:               l.Name,
		Address:            l.Address,
		IsPrimaryWarehouse: l.IsPrimaryWarehouse,
		Active:             l.Active,
		CreatedAt:          l.CreatedAt,
	}
}

func FromDataModel(l *locationDatamodel.Location) *Location {
	return &Location{
		ID:                 l.ID,
		CompanyID:          l.CompanyID,
		Name:               l.Name,
		Address:            l.Address,
		IsPrimaryWarehouse: l.IsPrimaryWarehouse,
		Active:             l.Active,
		CreatedAt:          l.CreatedAt,
	}
}

func FromDataModelSlice(rows []*locationDatamodel.Location) []*Location {
	result := make([]*Location, len(rows))
	for i, l := range rows {
		result[i] = FromDataModel(l)
	}
	return result
}
