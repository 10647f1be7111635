package location

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*Location, int64, error)
	Get(ctx context.Context, actor *access.Identity, id int64) (*Location, error)
	Create(ctx context.Context, actor *access.Identity, dto CreateLocationDTO) (*Location, error)
	Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateLocationDTO) (*Location, error)
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
		CompanyID:          transport.QueryInt64(r, "company"),
		IsPrimaryWarehouse: transport.QueryBool(r, "is_primary_warehouse"),
	}

	locations, count, err := h.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.NewPage(locations, count, params))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrLocationNotFound)
	if !ok {
		return
	}

	l, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	var dto CreateLocationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	l, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrLocationNotFound)
	if !ok {
		return
	}

	var dto UpdateLocationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	l, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrLocationNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
