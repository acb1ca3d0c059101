package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RiqueAlvess/portal/internal/domain/model"
	companiessvc "github.com/RiqueAlvess/portal/internal/services/companies"
)

type CompanyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, domain, created_at
FROM companies
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (model.Company, error) {
	if r.pool == nil {
		return model.Company{}, fmt.Errorf("postgres pool is nil")
	}

	var company model.Company
	err := r.pool.QueryRow(ctx, `
SELECT id, name, domain, created_at
FROM companies
WHERE id = $1
`, id).Scan(&company.ID, &company.Name, &company.Domain, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Company{}, companiessvc.ErrCompanyNotFound
		}
		return model.Company{}, fmt.Errorf("get company by id: %w", err)
	}

	return company, nil
}

func (r *CompanyRepo) ListForUser(ctx context.Context, userID string) ([]model.Company, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT c.id, c.name, c.domain, c.created_at
FROM companies c
JOIN user_companies uc ON uc.company_id = c.id
WHERE uc.user_id = $1
ORDER BY c.name
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies for user: %w", err)
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *CompanyRepo) AssignUser(ctx context.Context, userID, companyID string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO user_companies (user_id, company_id, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id, company_id) DO NOTHING
`, userID, companyID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return companiessvc.ErrCompanyNotFound
		}
		return fmt.Errorf("assign user to company: %w", err)
	}

	return nil
}

func (r *CompanyRepo) UnassignUser(ctx context.Context, userID, companyID string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM user_companies
WHERE user_id = $1 AND company_id = $2
`, userID, companyID); err != nil {
		return fmt.Errorf("unassign user from company: %w", err)
	}

	return nil
}

func collectCompanies(rows pgx.Rows) ([]model.Company, error) {
	var companies []model.Company
	for rows.Next() {
		var company model.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Domain, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company rows: %w", err)
	}

	return companies, nil
}
