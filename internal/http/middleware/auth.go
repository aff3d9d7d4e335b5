package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelfcast/shelfcast-backend/internal/http/response"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/services"
)

const claimsContextKey = "auth_claims"

type AuthMiddleware struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, auth services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), auth: auth}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.RespondError(c, http.StatusUnauthorized, "missing_token", fmt.Errorf("authorization header required"))
			c.Abort()
			return
		}
		claims, err := m.auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.RespondFromError(c, err)
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	requireAuth := m.RequireAuth()
	return func(c *gin.Context) {
		requireAuth(c)
		if c.IsAborted() {
			return
		}
		claims := GetClaims(c)
		if claims == nil || !claims.IsAdmin {
			response.RespondError(c, http.StatusForbidden, "admin_required", fmt.Errorf("this operation requires an admin account"))
			c.Abort()
		}
	}
}

func GetClaims(c *gin.Context) *services.AuthClaims {
	val, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := val.(*services.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
