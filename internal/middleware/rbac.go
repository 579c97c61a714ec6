package middleware

import (
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the session belongs to an account of the given role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, roleOnlyCode(role))
			return
		}

		c.Next()
	}
}

// RequireAnyRole checks that the session belongs to one of the given roles.
func RequireAnyRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}

func roleOnlyCode(role model.Role) response.ErrCode {
	switch role {
	case model.RoleTutor:
		return response.ErrTutorAccessOnly
	case model.RoleStudent:
		return response.ErrStudentAccessOnly
	default:
		return response.ErrForbidden
	}
}
