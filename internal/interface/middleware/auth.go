package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/pkg/helpers"
	"github.com/roamtrails/tours-api/pkg/response"
)

const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

// UserLoader resolves a token's user id to a live account. Deactivated or
// deleted users resolve to an error.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Protect is the authentication stage chain: extract the Bearer token,
// verify signature and expiry, resolve the user, and reject tokens issued
// before the user's last password change. On success the user is attached to
// the request context.
func Protect(jwt *helpers.JWTManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "please log in to access this route")
			return
		}
		token := strings.TrimSpace(header[len("bearer "):])
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "please log in to access this route")
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.AbortError(c, http.StatusUnauthorized, "the user belonging to this token no longer exists")
			return
		}

		if claims.IssuedAt != nil && u.PasswordChangedAfter(claims.IssuedAt.Time) {
			response.AbortError(c, http.StatusUnauthorized, "password changed recently, please log in again")
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID.Hex())
		c.Next()
	}
}

// RestrictTo gates a route group to the given roles. Must run after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.AbortError(c, http.StatusUnauthorized, "please log in to access this route")
			return
		}
		if !u.HasRole(roles...) {
			response.AbortError(c, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by Protect, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}
