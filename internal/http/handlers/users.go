package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

type UsersHandler struct {
	users UserWriter
}

func NewUsersHandler(users UserWriter) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user", err)
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, strings.TrimSpace(req.Name), user.NormalizeEmail(req.Email), hash, req.RoleOrDefault())

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user", err)
		return
	}

	ctx.JSON(http.StatusCreated, u)
}
