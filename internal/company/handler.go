package company

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*Company, int64, error)
	Get(ctx context.Context, actor *access.Identity, id int64) (*Company, error)
	Create(ctx context.Context, actor *access.Identity, dto CreateCompanyDTO) (*Company, error)
	Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateCompanyDTO) (*Company, error)
	Delete(ctx context.Context, actor *access.Identity, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	params := transport.ParseListParams(r, OrderingFields, transport.Ordering{Field: "created_at", Desc: true})
	filter := ListFilter{
		BusinessType:     r.URL.Query().Get("business_type"),
		SubscriptionPlan: r.URL.Query().Get("subscription_plan"),
		ParentID:         transport.QueryInt64(r, "parent"),
	}

	companies, count, err := h.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.NewPage(companies, count, params))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrCompanyNotFound)
	if !ok {
		return
	}

	c, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	var dto CreateCompanyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Create: company created", "company_id", c.ID)
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrCompanyNotFound)
	if !ok {
		return
	}

	var dto UpdateCompanyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrCompanyNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
