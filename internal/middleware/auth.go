package middleware

import (
	"net/http"
	"strings"

	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyClaims is the Gin context key for session claims.
	ContextKeyClaims = "claims"
)

// TokenVerifier validates signed tokens for a purpose.
type TokenVerifier interface {
	Verify(token string, purpose service.TokenPurpose) (*service.Claims, error)
}

// RequireSession validates a session token from the Authorization header.
// The ?token= query parameter is accepted for WebSocket upgrades, which
// cannot send headers from browsers.
func RequireSession(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := tokens.Verify(tokenStr, service.PurposeSession)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the session claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// Principal returns the authenticated caller, or false outside RequireSession.
func Principal(c *gin.Context) (service.Principal, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return service.Principal{}, false
	}
	return service.Principal{ID: claims.UserID, Role: claims.Role}, true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
