package user

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/internal/transport"
)

const minPasswordLength = 8

type RepositoryAPI interface {
	List(ctx context.Context, scope access.Scope, filter ListFilter, params transport.ListParams) ([]*userDatamodel.User, int64, error)
	// GetByID returns nil, nil when id is missing or outside scope.
	GetByID(ctx context.Context, scope access.Scope, id int64) (*userDatamodel.User, error)
	// GetByEmail is unscoped and returns nil, nil when no user has email.
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	// GetForUpdate loads id unscoped and locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*userDatamodel.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CompanyExists(ctx context.Context, companyID int64) (bool, error)
	CompanyNames(ctx context.Context, ids []int64) (map[int64]string, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	Update(ctx context.Context, user *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, scope access.Scope) (*StatsResponse, error)
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Authorizer interface {
	Authorize(ctx context.Context, id *access.Identity, res access.Resource, act access.Action) error
	CanAccess(ctx context.Context, id *access.Identity, act access.Action, target access.Target) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	authz     Authorizer
	hasher    PasswordHasher
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, hasher PasswordHasher, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		authz:     authz,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*User, int64, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionList); err != nil {
		return nil, 0, err
	}

	rows, count, err := s.repo.List(ctx, access.UserScope(actor), filter, params)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, errors.NewInternalError("Failed to list users", err)
	}

	users := make([]*User, len(rows))
	for i, row := range rows {
		users[i] = FromDataModel(row)
	}
	if err := s.attachCompanyNames(ctx, users); err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionRetrieve); err != nil {
		return nil, err
	}
	u, err := s.resolve(ctx, actor, access.UserScope(actor), id, access.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	return u, s.attachCompanyNames(ctx, []*User{u})
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, actor *access.Identity) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionMe); err != nil {
		return nil, err
	}
	u, err := s.resolve(ctx, actor, access.UserScope(actor), actor.ID, access.ActionMe)
	if err != nil {
		return nil, err
	}
	return u, s.attachCompanyNames(ctx, []*User{u})
}

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateUserDTO) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionCreate); err != nil {
		return nil, err
	}

	role := access.Role(dto.Role)
	if dto.Role == "" {
		role = access.RoleEmployee
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	if role == access.RoleSuperAdmin && !actor.IsSuperAdmin() {
		v.AddError("role", "You do not have permission to assign this role.", errors.ErrCodeRoleChange)
	}

	companyID := dto.CompanyID
	if !actor.IsSuperAdmin() {
		// non super admins always create inside their own tenant
		companyID = actor.TenantID
	}

	u, err := s.create(ctx, v, dto, role, companyID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "company_id", u.CompanyID, "actor_id", actor.ID)
	return u, nil
}

// Register creates a self-registered account. The role is always employee and no tenant is assigned.
func (s *Service) Register(ctx context.Context, dto CreateUserDTO) (*User, error) {
	v := validation.NewValidator().Merge(validation.Struct(dto))
	u, err := s.create(ctx, v, dto, access.RoleEmployee, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (s *Service) create(ctx context.Context, v *validation.ValidationBuilder, dto CreateUserDTO, role access.Role, companyID *int64) (*User, error) {
	email := strings.TrimSpace(dto.Email)
	if email != "" {
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, errors.NewInternalError("Failed to check email", err)
		}
		if taken {
			v.AddError("email", "user with this email already exists.", errors.ErrCodeDuplicateEmail)
		}
	}
	if companyID != nil {
		ok, err := s.repo.CompanyExists(ctx, *companyID)
		if err != nil {
			return nil, errors.NewInternalError("Failed to check company", err)
		}
		if !ok {
			v.AddError("company", "Invalid pk - object does not exist.", errors.ErrCodeUnknownCompany)
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash password", err)
	}

	data := &userDatamodel.User{
		Email:        email,
		Username:     dto.Username,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		PasswordHash: hash,
		Role:         string(role),
		CompanyID:    companyID,
		Active:       true,
	}
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	u := FromDataModel(data)
	return u, s.attachCompanyNames(ctx, []*User{u})
}

func (s *Service) Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateUserDTO) (*User, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionUpdate); err != nil {
		return nil, err
	}
	u, err := s.resolve(ctx, actor, access.UserScope(actor), id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	if dto.Role != nil && access.Role(*dto.Role) != u.Role && !actor.IsSuperAdmin() {
		v.AddError("role", "You do not have permission to change the role.", errors.ErrCodeRoleChange)
	}
	if actor.IsSuperAdmin() && dto.CompanyID.Set && dto.CompanyID.Value != nil {
		ok, err := s.repo.CompanyExists(ctx, *dto.CompanyID.Value)
		if err != nil {
			return nil, errors.NewInternalError("Failed to check company", err)
		}
		if !ok {
			v.AddError("company", "Invalid pk - object does not exist.", errors.ErrCodeUnknownCompany)
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Role != nil {
		u.Role = access.Role(*dto.Role)
	}
	// tenant reassignment is reserved to super admins, other actors' values are ignored
	if dto.CompanyID.Set && actor.IsSuperAdmin() {
		u.CompanyID = dto.CompanyID.Value
	}
	if dto.Active != nil && actor.IsAdmin() {
		u.Active = *dto.Active
	}

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("Failed to update user", err)
	}
	u.CompanyName = nil
	return u, s.attachCompanyNames(ctx, []*User{u})
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionDestroy); err != nil {
		return err
	}
	u, err := s.resolve(ctx, actor, access.UserScope(actor), id, access.ActionDestroy)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return errors.NewInternalError("Failed to delete user", err)
	}
	s.logger.Info("user deleted", "user_id", u.ID, "actor_id", actor.ID)
	return nil
}

// ChangePassword sets the password of user id. The old password is checked against the
// actor's own credentials. Every failing field is reported at once and nothing is written
// unless all checks pass.
func (s *Service) ChangePassword(ctx context.Context, actor *access.Identity, id int64, dto ChangePasswordDTO) error {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionChangePassword); err != nil {
		return err
	}
	target, err := s.resolve(ctx, actor, access.UserScope(actor), id, access.ActionChangePassword)
	if err != nil {
		return err
	}
	if !actor.SameAs(target.Identity()) && !actor.IsAdmin() {
		return errors.ErrInsufficientRole
	}

	err = s.repo.Transaction(ctx, func(repo RepositoryAPI) error {
		ids := []int64{actor.ID, target.ID}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		locked := make(map[int64]*userDatamodel.User, 2)
		for _, lockID := range ids {
			if _, ok := locked[lockID]; ok {
				continue
			}
			row, err := repo.GetForUpdate(ctx, lockID)
			if err != nil {
				return errors.NewInternalError("Failed to load user", err)
			}
			if row == nil {
				return errors.ErrUserNotFound
			}
			locked[lockID] = row
		}

		v := validation.NewValidator()
		v.Field("old_password", dto.OldPassword).Required()
		v.Field("new_password", dto.NewPassword).Required().MinLength(minPasswordLength)
		v.Field("confirm_password", dto.ConfirmPassword).Required()
		if dto.NewPassword != "" && dto.ConfirmPassword != "" && dto.NewPassword != dto.ConfirmPassword {
			v.AddError("confirm_password", "The new passwords do not match.", errors.ErrCodePasswordMismatch)
		}
		if dto.OldPassword != "" && !s.hasher.Compare(locked[actor.ID].PasswordHash, dto.OldPassword) {
			v.AddError("old_password", "Your current password is incorrect.", errors.ErrCodeWrongPassword)
		}
		if appErr := v.Validate(); appErr != nil {
			return appErr
		}

		hash, err := s.hasher.Hash(dto.NewPassword)
		if err != nil {
			return errors.NewInternalError("Failed to hash password", err)
		}
		return repo.UpdatePassword(ctx, target.ID, hash)
	})
	if err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return err
		}
		s.logger.Error("failed to change password", "error", err, "user_id", id)
		return errors.NewInternalError("Failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", target.ID, "actor_id", actor.ID)
	s.publish(ctx, events.NewUserPasswordChangedEvent(target.ID, actor.ID))
	return nil
}

// ToggleStatus flips the active flag of user id. Inactive users inside the actor's scope
// are found too so they can be re-activated.
func (s *Service) ToggleStatus(ctx context.Context, actor *access.Identity, id int64) (*ToggleStatusResponse, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionToggleStatus); err != nil {
		return nil, err
	}
	u, err := s.resolve(ctx, actor, access.UserScope(actor).WithInactive(), id, access.ActionToggleStatus)
	if err != nil {
		return nil, err
	}

	active := !u.Active
	if err := s.repo.SetActive(ctx, u.ID, active); err != nil {
		s.logger.Error("failed to toggle user status", "error", err, "user_id", id)
		return nil, errors.NewInternalError("Failed to update user status", err)
	}

	message := "User deactivated"
	if active {
		message = "User activated"
	}
	s.logger.Info("user status toggled", "user_id", u.ID, "active", active, "actor_id", actor.ID)
	s.publish(ctx, events.NewUserStatusToggledEvent(u.ID, actor.ID, active))
	return &ToggleStatusResponse{Message: message, Active: active}, nil
}

// Stats counts the users the actor can list, so Total always matches the list count.
func (s *Service) Stats(ctx context.Context, actor *access.Identity) (*StatsResponse, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceUsers, access.ActionStats); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, access.UserScope(actor))
	if err != nil {
		s.logger.Error("failed to compute user stats", "error", err)
		return nil, errors.NewInternalError("Failed to compute user stats", err)
	}
	return stats, nil
}

func (s *Service) resolve(ctx context.Context, actor *access.Identity, scope access.Scope, id int64, act access.Action) (*User, error) {
	data, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("Failed to get user", err)
	}
	if data == nil {
		return nil, errors.ErrUserNotFound
	}

	u := FromDataModel(data)
	if !s.authz.CanAccess(ctx, actor, act, access.IdentityTarget(*u.Identity())) {
		// identities outside the object gate are reported as missing
		return nil, errors.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) attachCompanyNames(ctx context.Context, users []*User) error {
	var ids []int64
	for _, u := range users {
		if u.CompanyID != nil {
			ids = append(ids, *u.CompanyID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	names, err := s.repo.CompanyNames(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load company names", "error", err)
		return errors.NewInternalError("Failed to load company names", err)
	}
	for _, u := range users {
		if u.CompanyID == nil {
			continue
		}
		if name, ok := names[*u.CompanyID]; ok {
			u.CompanyName = &name
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
