package db

import (
	"context"
	"errors"

	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/security"
)

type AdminSeedStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

// EnsureAdminUser creates the configured admin account once. It is a no-op
// when ADMIN_EMAIL/ADMIN_PASSWORD are unset or the email already exists.
func EnsureAdminUser(ctx context.Context, users AdminSeedStore, cfg config.Config) (created bool, err error) {
	email := user.NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	_, err = users.GetByEmail(ctx, email)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return false, err
	}

	_, err = users.Create(ctx, cfg.AdminName, email, hash, user.RoleAdmin)

	// lost a race with another instance
	if errors.Is(err, user.ErrEmailTaken) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
