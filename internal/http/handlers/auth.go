package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/koinonia/internal/auth"
	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/domain/user"
	"github.com/geocoder89/koinonia/internal/http/middlewares"
	"github.com/geocoder89/koinonia/internal/security"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users       UserReader
	jwt         *auth.Manager
	revocations auth.RevocationStore
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, revocations auth.RevocationStore) *AuthHandler {
	if revocations == nil {
		revocations = auth.NopRevocations{}
	}
	return &AuthHandler{
		users:       users,
		jwt:         jwtManager,
		revocations: revocations,
	}
}

type loginUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, user.NormalizeEmail(req.Email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password.")
			return
		}

		RespondInternal(ctx, "Could not log in", err)
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.jwt.GenerateAccessToken(auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name})

	if err != nil {
		RespondInternal(ctx, "Could not generate access token", err)
		return
	}

	ctx.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  loginUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}

// Logout always succeeds. A valid bearer token is denylisted until it
// would have expired; anything else is ignored.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if raw, ok := middlewares.BearerToken(ctx.GetHeader("Authorization")); ok {
		claims, err := h.jwt.VerifyAccessToken(raw)

		if err == nil {
			cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), 2*time.Second)
			defer cancel()

			if err := h.revocations.Revoke(cctx, claims.ID, claims.ExpiresAtTime()); err != nil {
				slog.ErrorContext(ctx.Request.Context(), "token revocation failed",
					"err", err,
					"user_id", claims.UserID,
					"request_id", requestIDFrom(ctx),
				)
			}
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}
