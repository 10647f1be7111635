package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/internal/user"
)

type UserRepository struct {
	db   *gorm.DB
	sqlx *sqlx.DB
}

// NewUserRepository builds the repository on gorm for row access and on sqlx for the
// aggregate queries. Both must point at the same database.
func NewUserRepository(db *gorm.DB, sqlxDB *sqlx.DB) user.RepositoryAPI {
	return &UserRepository{db: db, sqlx: sqlxDB}
}

func (r *UserRepository) scoped(ctx context.Context, scope access.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{})
	if cond, args := scope.Clause(); cond != "" {
		q = q.Where(cond, args...)
	}
	return q
}

func (r *UserRepository) List(ctx context.Context, scope access.Scope, filter user.ListFilter, params transport.ListParams) ([]*userDatamodel.User, int64, error) {
	query := func() *gorm.DB {
		q := r.scoped(ctx, scope)
		if filter.Role != "" {
			q = q.Where("users.role = ?", filter.Role)
		}
		if filter.CompanyID != nil {
			q = q.Where("users.company_id = ?", *filter.CompanyID)
		}
		if filter.Active != nil {
			q = q.Where("users.active = ?", *filter.Active)
		}
		if params.Search != "" {
			like := "%" + strings.ToLower(params.Search) + "%"
			q = q.Where("(LOWER(users.email) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.username) LIKE ?)",
				like, like, like, like)
		}
		return q
	}

	var count int64
	if err := query().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := query().
		Order("users." + params.Ordering.SQL()).
		Order("users.id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&users).Error
	return users, count, err
}

func (r *UserRepository) GetByID(ctx context.Context, scope access.Scope, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.scoped(ctx, scope).Where("users.id = ?", id).First(&u).Error
	return found(&u, err)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	return found(&u, err)
}

func (r *UserRepository) GetForUpdate(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&u).Error
	return found(&u, err)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("LOWER(email) = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CompanyExists(ctx context.Context, companyID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).Where("id = ?", companyID).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CompanyNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	var rows []companyDatamodel.Company
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&userDatamodel.User{}, id).Error
}

func (r *UserRepository) Transaction(ctx context.Context, fn func(repo user.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepository{db: tx, sqlx: r.sqlx})
	})
}

type statsRow struct {
	Total      int64 `db:"total"`
	Active     int64 `db:"active"`
	Inactive   int64 `db:"inactive"`
	Admin      int64 `db:"admin"`
	Employee   int64 `db:"employee"`
	SuperAdmin int64 `db:"super_admin"`
}

const statsSelect = `SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN users.active = ? THEN 1 ELSE 0 END), 0) AS active,
	COALESCE(SUM(CASE WHEN users.active = ? THEN 0 ELSE 1 END), 0) AS inactive,
	COALESCE(SUM(CASE WHEN users.role = ? THEN 1 ELSE 0 END), 0) AS admin,
	COALESCE(SUM(CASE WHEN users.role = ? THEN 1 ELSE 0 END), 0) AS employee,
	COALESCE(SUM(CASE WHEN users.role = ? THEN 1 ELSE 0 END), 0) AS super_admin
FROM users`

func (r *UserRepository) Stats(ctx context.Context, scope access.Scope) (*user.StatsResponse, error) {
	query := statsSelect
	args := []any{true, true, string(access.RoleAdmin), string(access.RoleEmployee), string(access.RoleSuperAdmin)}
	if cond, condArgs := scope.Clause(); cond != "" {
		query += " WHERE " + cond
		args = append(args, condArgs...)
	}

	var row statsRow
	if err := r.sqlx.GetContext(ctx, &row, r.sqlx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("user stats query: %w", err)
	}

	return &user.StatsResponse{
		Total:    row.Total,
		Active:   row.Active,
		Inactive: row.Inactive,
		ByRole: user.RoleCounts{
			Admin:      row.Admin,
			Employee:   row.Employee,
			SuperAdmin: row.SuperAdmin,
		},
	}, nil
}

func found(u *userDatamodel.User, err error) (*userDatamodel.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
