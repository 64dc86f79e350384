package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/chart"
	"excelytics_backend/internal/middleware"
	"excelytics_backend/internal/repositories"
	"excelytics_backend/internal/services"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	userRepo      repositories.UserRepository
	maxFileSize   int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, userRepo repositories.UserRepository, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		userRepo:      userRepo,
		maxFileSize:   maxFileSize,
	}
}

// RegisterRoutes регистрирует маршруты загрузок и графиков
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	upload := rg.Group("/upload")
	upload.Use(middleware.AuthMiddleware(h.userRepo))
	{
		upload.POST("", h.Upload)
		upload.GET("/history", h.History)
		upload.GET("/:id/chart", h.ChartData)
		upload.DELETE("/:id", h.Delete)

		admin := upload.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/all-uploads", h.ListAll)
			admin.DELETE("/:id", h.AdminDelete)
		}
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		appErrors.HandleError(c, appErrors.NewBadRequestError("No file uploaded"))
		return
	}
	if fileHeader.Size > h.maxFileSize {
		appErrors.HandleError(c, appErrors.NewBadRequestError("File is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.uploadService.Ingest(userID, fileHeader.Filename, data)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UploadHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	uploads, err := h.uploadService.History(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploads)
}

// ChartData отдает данные графика по query-параметрам type/x/y/z.
// Выбор осей живет только в этом запросе и нигде не сохраняется.
func (h *UploadHandler) ChartData(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	family, err := chart.ParseFamily(c.Query("type"))
	if err != nil {
		appErrors.HandleError(c, appErrors.New(appErrors.CodeInvalidChartQuery, err.Error(), http.StatusBadRequest))
		return
	}

	sel := chart.Selection{
		Family: family,
		X:      c.Query("x"),
		Y:      c.Query("y"),
		Z:      c.Query("z"),
	}

	result, err := h.uploadService.ChartData(userID, middleware.IsAdmin(c), c.Param("id"), sel)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	// Сцена освобождается на любом пути выхода
	defer result.Release()

	c.JSON(http.StatusOK, result)
}

func (h *UploadHandler) ListAll(c *gin.Context) {
	uploads, err := h.uploadService.ListAll()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploads)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.uploadService.Delete(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UploadHandler) AdminDelete(c *gin.Context) {
	response, err := h.uploadService.AdminDelete(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
