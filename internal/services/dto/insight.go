package dto

type InsightRequest struct {
	Data     []map[string]interface{} `json:"data" validate:"required,min=1"`
	Question string                   `json:"question" validate:"required"`
}

type InsightResponse struct {
	Insight string `json:"insight"`
}
