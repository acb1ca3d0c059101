package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RiqueAlvess/portal/internal/domain/model"
	companiessvc "github.com/RiqueAlvess/portal/internal/services/companies"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
	"github.com/RiqueAlvess/portal/internal/transport/http/dto"
	httperrors "github.com/RiqueAlvess/portal/internal/transport/http/errors"
)

type CompaniesHandler struct {
	service *companiessvc.Service
	cookies *cookies.Manager
	log     *zap.Logger
}

func NewCompaniesHandler(service *companiessvc.Service, cookieManager *cookies.Manager, log *zap.Logger) *CompaniesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompaniesHandler{
		service: service,
		cookies: cookieManager,
		log:     log,
	}
}

func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list companies", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, toCompanies(companies))
}

func (h *CompaniesHandler) Selected(w http.ResponseWriter, r *http.Request) {
	resp := dto.SelectedCompanyResponse{}
	if id, ok := h.cookies.SelectedCompany(r); ok {
		resp.CompanyID = &id
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *CompaniesHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	company, err := h.service.Select(r.Context(), req.CompanyID)
	if err != nil {
		h.handleCompanyError(w, err)
		return
	}

	if err := h.cookies.SetSelectedCompany(w, company.ID); err != nil {
		h.log.Error("set company cookie", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, toCompany(company))
}

func (h *CompaniesHandler) ClearSelected(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSelectedCompany(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompaniesHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleCompanyError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toCompanies(companies))
}

func (h *CompaniesHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Assign(r.Context(), chi.URLParam(r, "id"), req.CompanyID); err != nil {
		h.handleCompanyError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CompaniesHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unassign(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "companyId")); err != nil {
		h.handleCompanyError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CompaniesHandler) handleCompanyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, companiessvc.ErrInvalidInput):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid company data")
	case errors.Is(err, companiessvc.ErrCompanyNotFound):
		writeNotFound(w, "COMPANY_NOT_FOUND", "company not found")
	default:
		h.log.Error("company operation failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func toCompany(company model.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:     company.ID,
		Name:   company.Name,
		Domain: company.Domain,
	}
}

func toCompanies(companies []model.Company) dto.CompaniesResponse {
	resp := dto.CompaniesResponse{Companies: make([]dto.CompanyResponse, 0, len(companies))}
	for _, company := range companies {
		resp.Companies = append(resp.Companies, toCompany(company))
	}
	return resp
}
