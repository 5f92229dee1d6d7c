// Package middleware holds the gin middleware of the API server.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/logging"
	"github.com/publiceyeusa/publiceye/internal/server/http/response"
	"github.com/publiceyeusa/publiceye/internal/server/models"
)

const userKey = "publiceye.user"

// Authenticator resolves a presented token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*models.User, error)
}

type AuthMiddleware struct {
	log  logging.Logger
	auth Authenticator
}

func NewAuthMiddleware(log logging.Logger, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "auth"), auth: auth}
}

// RequireAuth rejects requests without a live session token with 401 and
// stores the authenticated user on the context otherwise.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ExtractToken(c.GetHeader(common.AuthorizationHeaderName))
		if key == "" {
			response.AbortDetail(c, http.StatusUnauthorized, response.MsgNoCredentials)
			return
		}

		user, err := am.auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				am.log.Error(c.Request.Context(), "token authentication failed", "error", err)
				response.AbortDetail(c, http.StatusInternalServerError, response.MsgInternal)
				return
			}
			response.AbortDetail(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func (am *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			response.AbortDetail(c, http.StatusForbidden, response.MsgForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser stores user the way RequireAuth does.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

// ExtractToken accepts "Token <key>" and "Bearer <key>", schemes matched
// case-insensitively.
func ExtractToken(header string) string {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, common.TokenScheme) && !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(key)
}
