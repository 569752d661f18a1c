package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

const (
	// ContextRoleKey holds the advisory role of the caller.
	ContextRoleKey = "advisory_role"
	// AdvisoryHeader is set on responses whose caller lacked one of the route roles.
	AdvisoryHeader = "X-Role-Advisory"
)

// Roles reads the advisory role from header and stores it on the context. Missing or
// unknown values fall back to ADMIN; nothing is enforced.
func Roles(header string) gin.HandlerFunc {
	if header == "" {
		header = "X-User-Role"
	}
	return func(c *gin.Context) {
		role := models.UserRole(strings.ToUpper(strings.TrimSpace(c.GetHeader(header))))
		switch role {
		case models.RoleAdmin, models.RoleTeacher, models.RoleStaff:
		default:
			role = models.RoleAdmin
		}
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RoleFromContext returns the advisory role of the request.
func RoleFromContext(c *gin.Context) models.UserRole {
	if value, ok := c.Get(ContextRoleKey); ok {
		if role, ok := value.(models.UserRole); ok {
			return role
		}
	}
	return models.RoleAdmin
}

// RequireRoles is advisory: callers outside the allowed roles are logged and flagged
// with AdvisoryHeader, and the request proceeds.
func RequireRoles(logger *zap.Logger, roles ...models.UserRole) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := RoleFromContext(c)
		if _, ok := allowed[role]; !ok {
			c.Header(AdvisoryHeader, "role-not-permitted")
			logger.Warn("role outside route policy",
				zap.String("role", string(role)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
			)
		}
		c.Next()
	}
}
