package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/pkg/errors"
	"storefront/pkg/token"
)

const (
	// UserIDKey is the context key for the authenticated user id
	UserIDKey = "user_id"
	// UserEmailKey is the context key for the authenticated user email
	UserEmailKey = "user_email"
	// UserRoleKey is the context key for the authenticated user role
	UserRoleKey = "user_role"

	// RoleAdmin is the role value granted administrative access
	RoleAdmin = "admin"
)

// RequireAuth rejects requests without a valid bearer token and stores
// the caller identity on the gin context.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose caller is not an admin.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != RoleAdmin {
			traceID := c.GetString(TraceIDKey)
			c.Header(TraceIDHeader, traceID)
			statusCode, body := errors.ToJSON(errors.NewForbidden("admin access required"), traceID)
			c.Abort()
			c.Data(statusCode, "application/json", body)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	traceID := c.GetString(TraceIDKey)
	c.Header(TraceIDHeader, traceID)
	statusCode, body := errors.ToJSON(errors.NewUnauthorized(message), traceID)
	c.Abort()
	c.Data(statusCode, "application/json", body)
}
