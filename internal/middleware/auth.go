// Package middleware carries the bearer-token gate applied to every
// protected route.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/api/response"
	"taskdeck/internal/auth"
)

// usernameKey is the gin context key the authenticated identity is bound
// to for the remainder of a single request.
const usernameKey = "auth.username"

// RequireAuth verifies the Authorization header on each request. A missing
// header is 401; a present but malformed or unverifiable token is 403.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "token required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Error(c, http.StatusForbidden, "invalid token")
			return
		}

		username, err := tokens.Verify(tokenString)
		if err != nil {
			response.Error(c, http.StatusForbidden, "invalid token")
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// Username returns the identity bound by RequireAuth.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
