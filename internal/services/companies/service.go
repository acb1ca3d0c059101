package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RiqueAlvess/portal/internal/domain/model"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrCompanyNotFound = errors.New("company not found")
)

type Store interface {
	List(ctx context.Context) ([]model.Company, error)
	GetByID(ctx context.Context, id string) (model.Company, error)
	ListForUser(ctx context.Context, userID string) ([]model.Company, error)
	AssignUser(ctx context.Context, userID, companyID string) error
	UnassignUser(ctx context.Context, userID, companyID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]model.Company, error) {
	companies, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// Select resolves a tenant choice; callers persist it in the company cookie.
func (s *Service) Select(ctx context.Context, companyID string) (model.Company, error) {
	if strings.TrimSpace(companyID) == "" {
		return model.Company{}, ErrInvalidInput
	}
	return s.store.GetByID(ctx, companyID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.Company, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.store.ListForUser(ctx, userID)
}

func (s *Service) Assign(ctx context.Context, userID, companyID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(companyID) == "" {
		return ErrInvalidInput
	}

	if _, err := s.store.GetByID(ctx, companyID); err != nil {
		return err
	}
	return s.store.AssignUser(ctx, userID, companyID)
}

func (s *Service) Unassign(ctx context.Context, userID, companyID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(companyID) == "" {
		return ErrInvalidInput
	}
	return s.store.UnassignUser(ctx, userID, companyID)
}
