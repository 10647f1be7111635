package company

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/core/common/validation"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/internal/transport"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope access.Scope, filter ListFilter, params transport.ListParams) ([]*companyDatamodel.Company, int64, error)
	// GetByID returns nil, nil when id is missing or outside scope.
	GetByID(ctx context.Context, scope access.Scope, id int64) (*companyDatamodel.Company, error)
	TaxIDExists(ctx context.Context, taxID string) (bool, error)
	Create(ctx context.Context, company *companyDatamodel.Company) error
	Update(ctx context.Context, company *companyDatamodel.Company) error
	// Delete removes the company together with its branches, locations and users.
	Delete(ctx context.Context, id int64) error
	Branches(ctx context.Context, ids []int64) (map[int64][]int64, error)
	Locations(ctx context.Context, ids []int64) (map[int64][]*locationDatamodel.Location, error)
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
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		authz:     authz,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*Company, int64, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceCompanies, access.ActionList); err != nil {
		return nil, 0, err
	}

	rows, count, err := s.repo.List(ctx, access.CompanyScope(actor), filter, params)
	if err != nil {
		s.logger.Error("failed to list companies", "error", err)
		return nil, 0, errors.NewInternalError("Failed to list companies", err)
	}

	companies := make([]*Company, len(rows))
	for i, row := range rows {
		companies[i] = FromDataModel(row)
	}
	if err := s.enrich(ctx, companies); err != nil {
		return nil, 0, err
	}
	return companies, count, nil
}

func (s *Service) Get(ctx context.Context, actor *access.Identity, id int64) (*Company, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceCompanies, access.ActionRetrieve); err != nil {
		return nil, err
	}
	c, err := s.resolve(ctx, actor, id, access.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, []*Company{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, actor *access.Identity, dto CreateCompanyDTO) (*Company, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceCompanies, access.ActionCreate); err != nil {
		return nil, err
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	if dto.TaxID != "" {
		taken, err := s.repo.TaxIDExists(ctx, dto.TaxID)
		if err != nil {
			return nil, errors.NewInternalError("Failed to check tax id", err)
		}
		if taken {
			v.AddError("tax_id", "company with this tax_id already exists.", errors.ErrCodeDuplicateTaxID)
		}
	}
	if dto.ParentID != nil {
		if err := s.checkParent(ctx, actor, v, 0, *dto.ParentID); err != nil {
			return nil, err
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	c := NewCompany(dto)
	data := ToDataModel(c)
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create company", "error", err, "tax_id", dto.TaxID)
		return nil, errors.NewInternalError("Failed to create company", err)
	}
	created := FromDataModel(data)

	s.logger.Info("company created", "company_id", created.ID, "parent_id", created.ParentID, "actor_id", actor.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateCompanyDTO) (*Company, error) {
	if err := s.authz.Authorize(ctx, actor, access.ResourceCompanies, access.ActionUpdate); err != nil {
		return nil, err
	}
	c, err := s.resolve(ctx, actor, id, access.ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator().Merge(validation.Struct(dto))
	if dto.TaxID != nil && *dto.TaxID != c.TaxID {
		v.AddError("tax_id", "tax_id cannot be changed.", errors.ErrCodeImmutableField)
	}
	if dto.ParentID.Set && dto.ParentID.Value != nil {
		if err := s.checkParent(ctx, actor, v, c.ID, *dto.ParentID.Value); err != nil {
			return nil, err
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	c.Apply(dto)
	if err := s.repo.Update(ctx, ToDataModel(c)); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", id)
		return nil, errors.NewInternalError("Failed to update company", err)
	}
	if err := s.enrich(ctx, []*Company{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := s.authz.Authorize(ctx, actor, access.ResourceCompanies, access.ActionDestroy); err != nil {
		return err
	}
	c, err := s.resolve(ctx, actor, id, access.ActionDestroy)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		s.logger.Error("failed to delete company", "error", err, "company_id", id)
		return errors.NewInternalError("Failed to delete company", err)
	}

	s.logger.Info("company deleted", "company_id", c.ID, "actor_id", actor.ID)
	s.publish(ctx, events.NewCompanyDeletedEvent(c.ID, c.ParentID, actor.ID))
	return nil
}

// resolve loads id from the actor's visible set. Anything outside it is reported as missing.
func (s *Service) resolve(ctx context.Context, actor *access.Identity, id int64, act access.Action) (*Company, error) {
	data, err := s.repo.GetByID(ctx, access.CompanyScope(actor), id)
	if err != nil {
		s.logger.Error("failed to get company", "error", err, "company_id", id)
		return nil, errors.NewInternalError("Failed to get company", err)
	}
	if data == nil {
		return nil, errors.ErrCompanyNotFound
	}

	c := FromDataModel(data)
	if !s.authz.CanAccess(ctx, actor, act, access.CompanyTarget(c.Ref())) {
		return nil, errors.ErrInsufficientRole
	}
	return c, nil
}

// checkParent accepts parentID when the actor can see it and, on update, when it is neither
// selfID nor one of selfID's descendants. Parents the actor cannot see are reported as missing.
func (s *Service) checkParent(ctx context.Context, actor *access.Identity, v *validation.ValidationBuilder, selfID, parentID int64) error {
	if selfID != 0 && parentID == selfID {
		v.AddError("parent", "A company cannot be its own parent.", errors.ErrCodeInvalidField)
		return nil
	}
	parent, err := s.lookup(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil || !access.CompanyScope(actor).WithInactive().AllowsCompany(parent.Ref()) {
		v.AddError("parent", "Invalid pk - object does not exist.", errors.ErrCodeUnknownCompany)
		return nil
	}
	if selfID == 0 {
		return nil
	}

	seen := map[int64]bool{parent.ID: true}
	ref := parent.Ref()
	for !ref.IsRoot() {
		next := *ref.ParentID
		if next == selfID {
			v.AddError("parent", "A company cannot be placed under one of its own branches.", errors.ErrCodeInvalidField)
			return nil
		}
		if seen[next] {
			return nil
		}
		seen[next] = true

		up, err := s.lookup(ctx, next)
		if err != nil || up == nil {
			return err
		}
		ref = up.Ref()
	}
	return nil
}

// lookup reads a company regardless of the caller's scope, inactive ones included.
func (s *Service) lookup(ctx context.Context, id int64) (*Company, error) {
	data, err := s.repo.GetByID(ctx, access.Unrestricted(access.EntityCompany), id)
	if err != nil {
		s.logger.Error("failed to check parent company", "error", err, "company_id", id)
		return nil, errors.NewInternalError("Failed to check parent company", err)
	}
	if data == nil {
		return nil, nil
	}
	return FromDataModel(data), nil
}

func (s *Service) enrich(ctx context.Context, companies []*Company) error {
	if len(companies) == 0 {
		return nil
	}
	ids := make([]int64, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}

	branches, err := s.repo.Branches(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load branches", "error", err)
		return errors.NewInternalError("Failed to load branches", err)
	}
	locations, err := s.repo.Locations(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load locations", "error", err)
		return errors.NewInternalError("Failed to load locations", err)
	}

	for _, c := range companies {
		c.Branches = append([]int64{}, branches[c.ID]...)
		c.Locations = make([]LocationSummary, 0, len(locations[c.ID]))
		for _, l := range locations[c.ID] {
			c.Locations = append(c.Locations, LocationSummaryFromDataModel(l))
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
