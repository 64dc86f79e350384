package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"excelytics_backend/internal/services"
	"excelytics_backend/internal/services/dto"
)

type InsightHandler struct {
	*BaseHandler
	insightService services.InsightService
}

func NewInsightHandler(base *BaseHandler, insightService services.InsightService) *InsightHandler {
	return &InsightHandler{
		BaseHandler:    base,
		insightService: insightService,
	}
}

func (h *InsightHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/insights", h.Generate)
}

// Generate - прокси к внешней модели. Данные приходят в теле запроса
// и на сервере не сохраняются.
func (h *InsightHandler) Generate(c *gin.Context) {
	var req dto.InsightRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.insightService.Generate(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
