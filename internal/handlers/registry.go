package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UploadHandler  *UploadHandler
	InsightHandler *InsightHandler
}
