package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RiqueAlvess/portal/internal/domain/model"
	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	userssvc "github.com/RiqueAlvess/portal/internal/services/users"
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, name, role, password_hash, active, last_access_at, created_at, updated_at`

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, fmt.Errorf("email is required")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = $1
`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = $1
`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
ORDER BY created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, email, name, role, password_hash, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING `+userColumns+`
`, user.ID, strings.ToLower(user.Email), user.Name, user.Role, user.PasswordHash, user.Active)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, userssvc.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

func (r *UserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE users
SET name = $2, role = $3, password_hash = $4, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns+`
`, user.ID, user.Name, user.Role, user.PasswordHash)

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("update user: %w", err)
	}

	return updated, nil
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET active = $2, updated_at = NOW()
WHERE id = $1
`, id, active)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authsvc.ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM users
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authsvc.ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) TouchLastAccess(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET last_access_at = NOW()
WHERE id = $1
`, id); err != nil {
		return fmt.Errorf("touch last access: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.PasswordHash,
		&user.Active,
		&user.LastAccessAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
