package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeUserBlocked        ErrorCode = "USER_BLOCKED"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	// Ресурсы
	CodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	CodeUploadNotFound ErrorCode = "UPLOAD_NOT_FOUND"

	// Бизнес-логика
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInvalidFileType    ErrorCode = "INVALID_FILE_TYPE"
	CodePasswordNotSet     ErrorCode = "PASSWORD_NOT_SET"
	CodeInvalidChartQuery  ErrorCode = "INVALID_CHART_QUERY"

	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)
