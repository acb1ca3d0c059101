package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	companiessvc "github.com/RiqueAlvess/portal/internal/services/companies"
	userssvc "github.com/RiqueAlvess/portal/internal/services/users"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
	"github.com/RiqueAlvess/portal/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	CSRFGuard      *authsvc.Guard
	UserService    *userssvc.Service
	CompanyService *companiessvc.Service
	CookieManager  *cookies.Manager
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.CSRFGuard, deps.CookieManager, deps.Logger)
	adminUsersHandler := handlers.NewAdminUsersHandler(deps.UserService, deps.Logger)
	companiesHandler := handlers.NewCompaniesHandler(deps.CompanyService, deps.CookieManager, deps.Logger)

	adminRoleMW := RequireRole("ADMIN")

	r.Get("/healthz", healthHandler.Get)
	r.Get("/csrf-token", authHandler.CSRFToken)

	// Top-level aliases for the /api/auth namespace.
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Get("/session", authHandler.Session)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	r.Route("/api/companies", func(r chi.Router) {
		r.Get("/", companiesHandler.List)
		r.Get("/selected", companiesHandler.Selected)
		r.Put("/selected", companiesHandler.Select)
		r.Delete("/selected", companiesHandler.ClearSelected)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminRoleMW)
		r.Get("/users", adminUsersHandler.List)
		r.Post("/users", adminUsersHandler.Create)
		r.Get("/users/{id}", adminUsersHandler.Get)
		r.Put("/users/{id}", adminUsersHandler.Update)
		r.Delete("/users/{id}", adminUsersHandler.Delete)
		r.Post("/users/{id}/activate", adminUsersHandler.Activate)
		r.Post("/users/{id}/deactivate", adminUsersHandler.Deactivate)
		r.Get("/users/{id}/companies", companiesHandler.ListForUser)
		r.Post("/users/{id}/companies", companiesHandler.Assign)
		r.Delete("/users/{id}/companies/{companyId}", companiesHandler.Unassign)
	})
}
