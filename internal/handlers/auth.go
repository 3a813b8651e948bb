package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/services"
)

// SessionAuthMiddleware authenticates requests against the session store via
// the auth service.
type SessionAuthMiddleware struct {
	authService services.AuthService
}

func NewSessionAuthMiddleware(authService services.AuthService) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{authService: authService}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware returns a Gin middleware that resolves the bearer token to a
// session and sets user_id and user_role in the request context.
func (m *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:     "unauthorized",
				Message:   "Authorization header missing or malformed",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		session, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:     "unauthorized",
				Message:   "Invalid or expired session",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		c.Set("user_id", session.UserID)
		c.Set("user_role", session.Role)
		c.Next()
	}
}

// RequireRoleMiddleware rejects authenticated users whose role is not listed.
func (m *SessionAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:     "unauthorized",
				Message:   "User not authenticated",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}
		userRole := role.(models.UserRole)
		for _, allowed := range roles {
			if userRole == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   "Insufficient permissions",
			Timestamp: time.Now(),
		})
		c.Abort()
	}
}
