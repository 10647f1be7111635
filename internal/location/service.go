package location

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/core/common/validation"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	"github.com/frahmantamala/business-management/internal/transport"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope access.Scope, filter ListFilter, params transport.ListParams) ([]*locationDatamodel.Location, int64, error)
	// GetByID returns nil, nil when id is missing or outside scope.
	GetByID(ctx context.Context, scope access.Scope, id int64) (*locationDatamodel.Location, error)
	CompanyExists(ctx context.Context, companyID int64) (bool, error)
	// NameTaken reports whether another location of companyID already uses name.
	NameTaken(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, location *locationDatamodel.Location) error
	Update(ctx context.Context, location *locationDatamodel.Location) error
	Delete(ctx context.Context, id int64) error
}

type Authorizer interface {
	Authorize(ctx context.Context, id *access.Identity, res access.Resource, act access.Action) error
	CanAccess(ctx context.Context, id *access.Identity, act access.Action, target access.Target) bool
}

type Service struct {
	repo   RepositoryAPI
	authz  Authorizer
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		authz:  authz,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*Location, int64, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceLocations, access.ActionList); err != nil {
		return nil, 0, err
	}

	rows, count, err := s.repo.List(ctx, access.LocationScope(actor), filter, params)
	if err != nil {
		s.logger.Error("failed to list locations", "error", err)
		return nil, 0, errors.NewInternalError("Failed to list locations", err)
	}
	return FromDataModelSlice(rows), count, nil
}

func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*Location, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceLocations, access.ActionRetrieve); err != nil {
		return nil, err
	}
	return s.resolve(ctx, actor, id, access.ActionRetrieve)
}

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateLocationDTO) (*Location, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceLocations, access.ActionCreate); err != nil {
		return nil, err
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	if dto.CompanyID != 0 {
		if err := s.checkCompany(ctx, v, dto.CompanyID, dto.Name, 0); err != nil {
			return nil, err
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	data := ToDataModel(NewLocation(dto))
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create location", "error", err, "company_id", dto.CompanyID)
		return nil, errors.NewInternalError("Failed to create location", err)
	}

	s.logger.Info("location created", "location_id", data.ID, "company_id", data.CompanyID, "actor_id", actor.ID)
	return FromDataModel(data), nil
}

func (s *Service) Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateLocationDTO) (*Location, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceLocations, access.ActionUpdate); err != nil {
		return nil, err
	}
	l, err := s.resolve(ctx, actor, id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	companyID, name := l.CompanyID, l.Name
	if dto.CompanyID != nil {
		companyID = *dto.CompanyID
	}
	if dto.Name != nil {
		name = *dto.Name
	}
	// moving a location must keep it inside what the actor manages
	moved := access.LocationTarget(access.LocationRef{ID: l.ID, CompanyID: companyID})
	if companyID != l.CompanyID && !s.authz.CanAccess(ctx, actor, access.ActionUpdate, moved) {
		v.AddError("company", "Invalid pk - object does not exist.", errors.ErrCodeUnknownCompany)
	} else if companyID != l.CompanyID || name != l.Name {
		if err := s.checkCompany(ctx, v, companyID, name, l.ID); err != nil {
			return nil, err
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	l.Apply(dto)
	if err := s.repo.Update(ctx, ToDataModel(l)); err != nil {
		s.logger.Error("failed to update location", "error", err, "location_id", id)
		return nil, errors.NewInternalError("Failed to update location", err)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := s.authz.Authorize(ctx, actor, access.ResourceLocations, access.ActionDestroy); err != nil {
		return err
	}
	l, err := s.resolve(ctx, actor, id, access.ActionDestroy)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, l.ID); err != nil {
		s.logger.Error("failed to delete location", "error", err, "location_id", id)
		return errors.NewInternalError("Failed to delete location", err)
	}
	s.logger.Info("location deleted", "location_id", l.ID, "actor_id", actor.ID)
	return nil
}

func (s *Service) resolve(ctx context.Context, actor *access.Identity, id int64, act access.Action) (*Location, error) {
	data, err := s.repo.GetByID(ctx, access.LocationScope(actor), id)
	if err != nil {
		s.logger.Error("failed to get location", "error", err, "location_id", id)
		return nil, errors.NewInternalError("Failed to get location", err)
	}
	if data == nil {
		return nil, errors.ErrLocationNotFound
	}

	l := FromDataModel(data)
	if !s.authz.CanAccess(ctx, actor, act, access.LocationTarget(l.Ref())) {
		return nil, errors.ErrInsufficientRole
	}
	return l, nil
}

func (s *Service) checkCompany(ctx context.Context, v *validation.ValidationBuilder, companyID int64, name string, excludeID int64) error {
	ok, err := s.repo.CompanyExists(ctx, companyID)
	if err != nil {
		return errors.NewInternalError("Failed to check company", err)
	}
	if !ok {
		v.AddError("company", "Invalid pk - object does not exist.", errors.ErrCodeUnknownCompany)
		return nil
	}
	if name == "" {
		return nil
	}

	taken, err := s.repo.NameTaken(ctx, companyID, name, excludeID)
	if err != nil {
		return errors.NewInternalError("Failed to check location name", err)
	}
	if taken {
		v.AddError("name", "A location with this name already exists for this company.", errors.ErrCodeDuplicateName)
	}
	return nil
}
