package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ifrasafa/docree-project/internal/logging"
	"github.com/ifrasafa/docree-project/internal/utils"
)

// AuthMiddleware validates the bearer token and stores the subject id and
// role claim on the request context. The role claim is presentation-level;
// the attendance service re-resolves roles through its own directory.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, 401, "Unauthorized, token missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			logging.Debugf("auth: token rejected: %v", err)
			utils.ErrorResponse(c, 401, "Unauthorized, token missing or invalid")
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
