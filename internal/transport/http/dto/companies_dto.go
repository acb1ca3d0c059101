package dto

type CompanyResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type CompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

type SelectCompanyRequest struct {
	CompanyID string `json:"companyId"`
}

type SelectedCompanyResponse struct {
	CompanyID *string `json:"companyId"`
}

type AssignCompanyRequest struct {
	CompanyID string `json:"companyId"`
}
