package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
	var u user.User

	err := observe(r.prom, "users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'member'))
			RETURNING id, name, email, password_hash, role, created_at`,
			name, email, passwordHash, role,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := observe(r.prom, "users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, password_hash, role, created_at
			FROM users
			WHERE email = $1`,
			email,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := observe(r.prom, "users.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, password_hash, role, created_at
			FROM users
			WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}
