package appErrors

import (
	"excelytics_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Тело ответа об ошибке. Клиент ожидает строку в поле "error",
// код и детали добавляются для отладки.
type errorBody struct {
	Error   string      `json:"error"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// HandleError - обработка ошибок для Gin контекста
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.WithError(err).Error("server error", "path", c.Request.URL.Path)
	}

	c.AbortWithStatusJSON(err.HTTPCode, errorBody{
		Error:   err.Message,
		Code:    err.Code,
		Details: err.Details,
	})
}
