package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/RiqueAlvess/portal/internal/pkg/validate"
	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
	"github.com/RiqueAlvess/portal/internal/transport/http/dto"
	httperrors "github.com/RiqueAlvess/portal/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
	guard   *authsvc.Guard
	cookies *cookies.Manager
	log     *zap.Logger
}

func NewAuthHandler(service *authsvc.Service, guard *authsvc.Guard, cookieManager *cookies.Manager, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		service: service,
		guard:   guard,
		cookies: cookieManager,
		log:     log,
	}
}

func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.guard.IssueToken(w, r)
	if err != nil {
		h.log.Error("issue csrf token", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CSRFTokenResponse{CSRFToken: token})
}

// Login validates CSRF before anything else: a forged request must not
// reach the credential check.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if !h.guard.Validate(r, req.CSRFToken) {
		writeForbidden(w, "CSRF_INVALID", "invalid csrf token")
		return
	}

	details := map[string]string{}
	if !validate.Email(req.Email) {
		details["email"] = "invalid email"
	}
	if !validate.Password(req.Password) {
		details["password"] = "password must be at least 6 characters"
	}
	if len(details) > 0 {
		httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "invalid login data",
			Details: details,
		})
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password, clientKey(r, req.Email))
	if err != nil {
		h.handleLoginError(w, err)
		return
	}

	h.cookies.SetSessionToken(w, token)

	httperrors.Write(w, http.StatusOK, dto.LoginResponse{
		Message: "login successful",
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionToken(w)
	h.cookies.ClearSelectedCompany(w)

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{Message: "logout successful"})
}

// Session answers from the gate-verified identity; the token is the only
// source of truth.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SessionResponse{
		User: dto.UserResponse{
			ID:    identity.UserID,
			Email: identity.Email,
			Role:  identity.Role,
		},
	})
}

func (h *AuthHandler) handleLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid login data")
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		writeUnauthorized(w, "INVALID_CREDENTIALS", "invalid credentials")
	case errors.Is(err, authsvc.ErrAccountDisabled):
		writeForbidden(w, "ACCOUNT_DISABLED", "account disabled")
	case errors.Is(err, authsvc.ErrTooManyAttempts):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
			Code:    "TOO_MANY_ATTEMPTS",
			Message: "too many login attempts, try again later",
		})
	default:
		h.log.Error("login failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

// clientKey scopes the attempt limiter to email+address so one client
// cannot exhaust another's budget.
func clientKey(r *http.Request, email string) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return email + "|" + ip
}
