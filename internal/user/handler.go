package user

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *access.Identity, filter ListFilter, params transport.ListParams) ([]*User, int64, error)
	Get(ctx context.Context, actor *access.Identity, id int64) (*User, error)
	Me(ctx context.Context, actor *access.Identity) (*User, error)
	Create(ctx context.Context, actor *access.Identity, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, actor *access.Identity, id int64, dto UpdateUserDTO) (*User, error)
	Delete(ctx context.Context, actor *access.Identity, id int64) error
	ChangePassword(ctx context.Context, actor *access.Identity, id int64, dto ChangePasswordDTO) error
	ToggleStatus(ctx context.Context, actor *access.Identity, id int64) (*ToggleStatusResponse, error)
	Stats(ctx context.Context, actor *access.Identity) (*StatsResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	params := transport.ParseListParams(r, OrderingFields, transport.Ordering{Field: "created_at", Desc: true})
	filter := ListFilter{
		Role:      r.URL.Query().Get("role"),
		CompanyID: transport.QueryInt64(r, "company"),
		Active:    transport.QueryBool(r, "active"),
	}

	users, count, err := h.Service.List(r.Context(), actor, filter, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	results := make([]UserResponse, len(users))
	for i, u := range users {
		results[i] = u.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, transport.NewPage(results, count, params))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrUserNotFound)
	if !ok {
		return
	}

	u, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// Me handles GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	u, err := h.Service.Me(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	var dto CreateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrUserNotFound)
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /users/{id}/change_password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrUserNotFound)
	if !ok {
		return
	}

	var dto ChangePasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.ChangePassword(r.Context(), actor, id, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully."})
}

// ToggleStatus handles POST /users/{id}/toggle_status
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())
	id, ok := h.PathID(w, r, errors.ErrUserNotFound)
	if !ok {
		return
	}

	resp, err := h.Service.ToggleStatus(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Stats handles GET /users/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, _ := access.IdentityFromContext(r.Context())

	stats, err := h.Service.Stats(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
