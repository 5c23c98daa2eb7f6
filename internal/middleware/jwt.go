package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/voxmind-backend/internal/response"
	"github.com/stemsi/voxmind-backend/internal/service"
)

// ContextKeyClaims is the Gin context key for session token claims.
const ContextKeyClaims = "claims"

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*service.SessionClaims, error)
}

// RequireSessionToken validates the session token issued at launch. Browsers
// cannot set headers on a WebSocket upgrade, so ?token= is accepted as well
// as a Bearer header.
func RequireSessionToken(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, service.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetSessionClaims retrieves the session claims from the Gin context.
func GetSessionClaims(c *gin.Context) *service.SessionClaims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}
