package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RiqueAlvess/portal/internal/domain/model"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	TouchLastAccess(ctx context.Context, userID string) error
}

// AttemptLimiter throttles credential checks per client key. A nil limiter
// means unlimited.
type AttemptLimiter interface {
	AllowLogin(ctx context.Context, key string) (int64, bool, error)
}

type Service struct {
	codec   *TokenCodec
	users   UserStore
	limiter AttemptLimiter
	log     *zap.Logger
}

func NewService(codec *TokenCodec, users UserStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		codec: codec,
		users: users,
		log:   log,
	}
}

func (s *Service) AttachLimiter(limiter AttemptLimiter) {
	s.limiter = limiter
}

// Login runs the credential check sequence and issues a session token.
// Unknown email and wrong password collapse into the same error so the
// response cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password, clientKey string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, "", ErrInvalidInput
	}

	if s.limiter != nil && clientKey != "" {
		retryAfter, allowed, err := s.limiter.AllowLogin(ctx, clientKey)
		if err != nil {
			s.log.Warn("login limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.log.Info("login throttled", zap.Int64("retry_after_sec", retryAfter))
			return User{}, "", ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", fmt.Errorf("find user by email: %w", err)
	}

	if !user.Active {
		return User{}, "", ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}

	// Best effort: a failed timestamp update must not block the login.
	if err := s.users.TouchLastAccess(ctx, user.ID); err != nil {
		s.log.Warn("update last access failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.codec.Issue(SessionPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return User{}, "", fmt.Errorf("issue session token: %w", err)
	}

	return User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, token, nil
}

// CurrentUser resolves a session token into the identity it carries.
func (s *Service) CurrentUser(token string) (User, error) {
	payload, ok := s.codec.Verify(token)
	if !ok {
		return User{}, ErrUnauthorized
	}

	return User{
		ID:    payload.UserID,
		Email: payload.Email,
		Role:  payload.Role,
	}, nil
}
