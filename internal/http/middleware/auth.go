package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "user_id"
	ContextFirmIDKey = "firm_id"
	ContextRoleKey   = "role"
)

// AccessParser проверяет access токен.
type AccessParser interface {
	ParseAccess(token string) (*service.Principal, error)
}

// AuthMiddleware проверяет JWT access токен и кладёт пользователя, фирму и роль в контекст.
func AuthMiddleware(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}

		principal, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, principal.UserID)
		c.Set(ContextFirmIDKey, principal.FirmID)
		c.Set(ContextRoleKey, principal.Role)
		c.Next()
	}
}

// RequireRole пропускает только пользователей с ролью не ниже min.
func RequireRole(min valueobject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		r, ok := role.(valueobject.Role)
		if !ok || !r.HasMinRole(min) {
			response.Forbidden(c, "недостаточно прав")
			c.Abort()
			return
		}
		c.Next()
	}
}
