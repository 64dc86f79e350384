package dto

import (
	"time"

	"excelytics_backend/internal/spreadsheet"
)

// Сообщения ответа загрузки: клиент различает создание и перезапись
const (
	UploadCreatedMessage = "New file uploaded."
	UploadUpdatedMessage = "Existing file updated."
)

type UploadResponse struct {
	Data    []spreadsheet.Row `json:"data"`
	Message string            `json:"message"`
}

// UploadSummary - элемент истории загрузок владельца
type UploadSummary struct {
	ID        string            `json:"id"`
	FileName  string            `json:"fileName"`
	Timestamp time.Time         `json:"timestamp"`
	Data      []spreadsheet.Row `json:"data"`
}

// AdminUploadSummary - админская проекция с владельцем
type AdminUploadSummary struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
