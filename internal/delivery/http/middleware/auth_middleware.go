package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvchain-backend/internal/delivery/http/response"
	"cvchain-backend/internal/domain"
	"cvchain-backend/pkg/auth"
)

// AuthMiddleware verifies the bearer token and stashes the caller's
// identity on the request context for the handlers behind it.
func AuthMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Missing or malformed Authorization header", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), claims.Subject)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Set(string(domain.KeyUserRole), claims.Role)
		c.Next()
	}
}
