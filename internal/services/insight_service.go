package services

import (
	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/gemini"
	"excelytics_backend/internal/logger"
	"excelytics_backend/internal/services/dto"
)

// InsightGenerator - генерация текста по готовому промпту
type InsightGenerator interface {
	Generate(prompt string) (string, error)
}

type InsightService interface {
	Generate(req *dto.InsightRequest) (*dto.InsightResponse, error)
}

type InsightServiceImpl struct {
	generator InsightGenerator
}

func NewInsightService(generator InsightGenerator) InsightService {
	return &InsightServiceImpl{generator: generator}
}

// Generate собирает промпт из строк и вопроса и проксирует его
// во внешнюю модель. Данные передаются в теле запроса, на сервере
// ничего не сохраняется.
func (s *InsightServiceImpl) Generate(req *dto.InsightRequest) (*dto.InsightResponse, error) {
	prompt := gemini.BuildPrompt(req.Data, req.Question)

	insight, err := s.generator.Generate(prompt)
	if err != nil {
		logger.WithError(err).Error("insight generation failed")
		return nil, appErrors.UpstreamError(err, "Failed to generate AI insight")
	}

	return &dto.InsightResponse{Insight: insight}, nil
}
