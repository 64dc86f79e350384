package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/auth"
	"excelytics_backend/internal/repositories"
)

// AuthMiddleware - проверка JWT на каждом запросе.
// Пользователь перечитывается из базы: блокировка действует сразу,
// не дожидаясь истечения токена. Роль берется из строки базы,
// а не из claims - токен мог быть выдан до смены роли.
func AuthMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			appErrors.HandleError(c, appErrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			appErrors.HandleError(c, appErrors.ErrInvalidToken)
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			if appErrors.Is(err, repositories.ErrUserNotFound) {
				appErrors.HandleError(c, appErrors.ErrInvalidToken)
				return
			}
			appErrors.HandleError(c, appErrors.InternalError(err))
			return
		}

		if user.IsBlocked {
			appErrors.HandleError(c, appErrors.ErrUserBlocked)
			return
		}

		c.Set("userID", user.ID)
		c.Set("isAdmin", user.IsAdmin)
		c.Next()
	}
}

// AdminMiddleware пускает дальше только администраторов.
// Вешается после AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			appErrors.HandleError(c, appErrors.ErrAdminOnly)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// IsAdmin извлекает флаг администратора из контекста
func IsAdmin(c *gin.Context) bool {
	val, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}
