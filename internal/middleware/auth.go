package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"commerce-service/internal/auth"
	"commerce-service/internal/models"
)

// RequireAuth validates the bearer token and injects the principal into the
// request context under user_id / user_role.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Authorization header required",
				},
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Invalid authorization format, expected 'Bearer <token>'",
				},
			})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			message := "Invalid or malformed token"
			if err == auth.ErrExpiredToken {
				message = "Token has expired"
			}
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: message,
				},
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Set("user_role", string(claims.Role))
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated principal has one of
// the given roles. Must run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.UserRole(c.GetString("user_role"))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FORBIDDEN",
				Message: "Insufficient permissions for this operation",
			},
		})
		c.Abort()
	}
}

// RequireVendor allows vendor and admin principals.
func RequireVendor() gin.HandlerFunc {
	return RequireRole(models.RoleVendor, models.RoleAdmin)
}

// RequireAdmin allows admin principals only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// GetUserID retrieves the authenticated user id from gin context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetUserRole retrieves the authenticated role from gin context
func GetUserRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("user_role"))
}
