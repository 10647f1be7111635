package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/company"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/transport"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) scoped(ctx context.Context, scope access.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&companyDatamodel.Company{})
	if cond, args := scope.Clause(); cond != "" {
		q = q.Where(cond, args...)
	}
	return q
}

func (r *CompanyRepository) List(ctx context.Context, scope access.Scope, filter company.ListFilter, params transport.ListParams) ([]*companyDatamodel.Company, int64, error) {
	query := func() *gorm.DB {
		q := r.scoped(ctx, scope)
		if filter.BusinessType != "" {
			q = q.Where("companies.business_type = ?", filter.BusinessType)
		}
		if filter.SubscriptionPlan != "" {
			q = q.Where("companies.subscription_plan = ?", filter.SubscriptionPlan)
		}
		if filter.ParentID != nil {
			q = q.Where("companies.parent_id = ?", *filter.ParentID)
		}
		if params.Search != "" {
			like := "%" + strings.ToLower(params.Search) + "%"
			q = q.Where("(LOWER(companies.name) LIKE ? OR companies.tax_id LIKE ?)", like, like)
		}
		return q
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var companies []*companyDatamodel.Company
	err := query().
		Order("companies." + params.Ordering.SQL()).
		Order("companies.id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&companies).Error
	return companies, count, err
}

func (r *CompanyRepository) GetByID(ctx context.Context, scope access.Scope, id int64) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := r.scoped(ctx, scope).Where("companies.id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) TaxIDExists(ctx context.Context, taxID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).Where("tax_id = ?", taxID).Count(&count).Error
	return count > 0, err
}

func (r *CompanyRepository) Create(ctx context.Context, c *companyDatamodel.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CompanyRepository) Update(ctx context.Context, c *companyDatamodel.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes the company, every descendant branch and the locations and users of all of them
// in one transaction. The walk tolerates a parent cycle already present in the table.
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := map[int64]bool{id: true}
		ids := []int64{id}
		frontier := []int64{id}
		for len(frontier) > 0 {
			var children []int64
			if err := tx.Model(&companyDatamodel.Company{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, child := range children {
				if seen[child] {
					continue
				}
				seen[child] = true
				ids = append(ids, child)
				frontier = append(frontier, child)
			}
		}

		if err := tx.Where("company_id IN ?", ids).Delete(&userDatamodel.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id IN ?", ids).Delete(&locationDatamodel.Location{}).Error; err != nil {
			return err
		}
		// detach first so no self reference dangles whatever the order
		if err := tx.Model(&companyDatamodel.Company{}).Where("id IN ?", ids).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&companyDatamodel.Company{}).Error
	})
}

func (r *CompanyRepository) Branches(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	var rows []companyDatamodel.Company
	err := r.db.WithContext(ctx).
		Select("id", "parent_id").
		Where("parent_id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]int64, len(ids))
	for _, row := range rows {
		out[*row.ParentID] = append(out[*row.ParentID], row.ID)
	}
	return out, nil
}

func (r *CompanyRepository) Locations(ctx context.Context, ids []int64) (map[int64][]*locationDatamodel.Location, error) {
	var rows []*locationDatamodel.Location
	err := r.db.WithContext(ctx).
		Where("company_id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]*locationDatamodel.Location, len(ids))
	for _, row := range rows {
		out[row.CompanyID] = append(out[row.CompanyID], row)
	}
	return out, nil
}
