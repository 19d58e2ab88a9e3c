package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/koinonia/internal/actorctx"
	"github.com/geocoder89/koinonia/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	revoked RevocationChecker
}

func NewAuthMiddleware(jwt TokenVerifier, revoked RevocationChecker) *AuthMiddleware {
	if revoked == nil {
		revoked = auth.NopRevocations{}
	}
	return &AuthMiddleware{jwt: jwt, revoked: revoked}
}

// OptionalAuth attaches the caller identity when a bearer token is sent.
// Requests without an Authorization header pass through anonymously; a
// malformed, expired or revoked token is rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		raw, ok := BearerToken(authHeader)
		if !ok {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "revocation check failed", "err", err)
			abortError(c, http.StatusServiceUnavailable, "auth_unavailable", "Could not verify session")
			return
		}
		if revoked {
			abortUnauthorized(c, "Session has been logged out")
			return
		}

		id := claims.Identity()
		c.Set(CtxUserID, id.ID)
		c.Set(CtxRole, id.Role)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}

func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	return actorctx.IdentityFrom(c.Request.Context())
}

func abortUnauthorized(c *gin.Context, message string) {
	abortError(c, http.StatusUnauthorized, "unauthorized", message)
}
