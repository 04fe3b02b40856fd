package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mss-edu/school-api/internal/access"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/response"
)

// RequireModule gates a route group behind the role permission table. The
// same table drives the navigation endpoint, so a user can never reach a
// module that is absent from their menu.
func RequireModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !access.CanAccess(claims.Role, module) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "module not permitted for role"))
			c.Abort()
			return
		}

		c.Next()
	}
}
