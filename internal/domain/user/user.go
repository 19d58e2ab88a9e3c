package user

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleMember    = "member"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// NormalizeEmail is the stored and looked-up form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=120"`
	Email    string `json:"email" binding:"required,notblank,max=254"`
	Password string `json:"password" binding:"required,notblank,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=member organizer"`
}

// RoleOrDefault returns the requested role, falling back to member.
func (r CreateUserRequest) RoleOrDefault() string {
	if r.Role == "" {
		return RoleMember
	}
	return r.Role
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
