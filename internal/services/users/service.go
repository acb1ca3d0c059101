package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RiqueAlvess/portal/internal/domain/enums"
	"github.com/RiqueAlvess/portal/internal/domain/model"
	"github.com/RiqueAlvess/portal/internal/pkg/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("email already in use")
)

type Store interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateInput struct {
	Email    string
	Name     string
	Role     string
	Password string
}

type UpdateInput struct {
	Name     *string
	Role     *string
	Password *string
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.User, error) {
	if strings.TrimSpace(id) == "" {
		return model.User{}, ErrInvalidInput
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return user.Sanitized(), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (model.User, error) {
	if !validate.Email(input.Email) || !validate.Required(input.Name) || !validate.Password(input.Password) {
		return model.User{}, ErrInvalidInput
	}
	role, ok := enums.ParseRole(input.Role)
	if !ok {
		return model.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         strings.TrimSpace(input.Name),
		Role:         string(role),
		PasswordHash: string(hash),
		Active:       true,
	})
	if err != nil {
		return model.User{}, err
	}

	return created.Sanitized(), nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (model.User, error) {
	if strings.TrimSpace(id) == "" {
		return model.User{}, ErrInvalidInput
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if input.Name != nil {
		if !validate.Required(*input.Name) {
			return model.User{}, ErrInvalidInput
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		role, ok := enums.ParseRole(*input.Role)
		if !ok {
			return model.User{}, ErrInvalidInput
		}
		user.Role = string(role)
	}
	if input.Password != nil {
		if !validate.Password(*input.Password) {
			return model.User{}, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	updated, err := s.store.Update(ctx, user)
	if err != nil {
		return model.User{}, err
	}

	return updated.Sanitized(), nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.store.SetActive(ctx, id, active)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}
