package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RiqueAlvess/portal/internal/domain/model"
	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	userssvc "github.com/RiqueAlvess/portal/internal/services/users"
	"github.com/RiqueAlvess/portal/internal/transport/http/dto"
	httperrors "github.com/RiqueAlvess/portal/internal/transport/http/errors"
)

type AdminUsersHandler struct {
	service *userssvc.Service
	log     *zap.Logger
}

func NewAdminUsersHandler(service *userssvc.Service, log *zap.Logger) *AdminUsersHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminUsersHandler{service: service, log: log}
}

func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list users", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	resp := dto.AdminUsersResponse{Users: make([]dto.AdminUserResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, toAdminUser(user))
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *AdminUsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toAdminUser(user))
}

func (h *AdminUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.service.Create(r.Context(), userssvc.CreateInput{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toAdminUser(user))
}

func (h *AdminUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userssvc.UpdateInput{
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toAdminUser(user))
}

func (h *AdminUsersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AdminUsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminUsersHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), active); err != nil {
		h.handleUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminUsersHandler) handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user data")
	case errors.Is(err, userssvc.ErrEmailTaken):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "EMAIL_TAKEN",
			Message: "email already in use",
		})
	case errors.Is(err, authsvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		h.log.Error("admin user operation failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toAdminUser(user model.User) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		Active:       user.Active,
		LastAccessAt: user.LastAccessAt,
		CreatedAt:    user.CreatedAt,
	}
}
