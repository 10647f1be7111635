package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	"github.com/frahmantamala/business-management/internal/location"
	"github.com/frahmantamala/business-management/internal/transport"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) location.RepositoryAPI {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) scoped(ctx context.Context, scope access.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&locationDatamodel.Location{})
	if cond, args := scope.Clause(); cond != "" {
		q = q.Where(cond, args...)
	}
	return q
}

func (r *LocationRepository) List(ctx context.Context, scope access.Scope, filter location.ListFilter, params transport.ListParams) ([]*locationDatamodel.Location, int64, error) {
	query := func() *gorm.DB {
		q := r.scoped(ctx, scope)
		if filter.CompanyID != nil {
			q = q.Where("locations.company_id = ?", *filter.CompanyID)
		}
		if filter.IsPrimaryWarehouse != nil {
			q = q.Where("locations.is_primary_warehouse = ?", *filter.IsPrimaryWarehouse)
		}
		if params.Search != "" {
			like := "%" + strings.ToLower(params.Search) + "%"
			q = q.Where("(LOWER(locations.name) LIKE ? OR LOWER(locations.address) LIKE ?)", like, like)
		}
		return q
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []*locationDatamodel.Location
	err := query().
		Order("locations." + params.Ordering.SQL()).
		Order("locations.id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	return rows, count, err
}

func (r *LocationRepository) GetByID(ctx context.Context, scope access.Scope, id int64) (*locationDatamodel.Location, error) {
	var l locationDatamodel.Location
	err := r.scoped(ctx, scope).Where("locations.id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) CompanyExists(ctx context.Context, companyID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).Where("id = ?", companyID).Count(&count).Error
	return count > 0, err
}

func (r *LocationRepository) NameTaken(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&locationDatamodel.Location{}).
		Where("company_id = ? AND name = ?", companyID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *LocationRepository) Create(ctx context.Context, l *locationDatamodel.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LocationRepository) Update(ctx context.Context, l *locationDatamodel.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&locationDatamodel.Location{}, id).Error
}
