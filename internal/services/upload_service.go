package services

import (
	"net/http"
	"time"

	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/chart"
	"excelytics_backend/internal/logger"
	"excelytics_backend/internal/models"
	"excelytics_backend/internal/repositories"
	"excelytics_backend/internal/services/dto"
	"excelytics_backend/internal/spreadsheet"
)

// ChartResult - результат построения графика. Для 3D-семейств
// удерживает открытую сцену; вызывающий обязан вызвать Release
// после сериализации ответа.
type ChartResult struct {
	Family chart.Family  `json:"type"`
	Chart  *chart.Data2D `json:"chart,omitempty"`
	Scene  *chart.Scene  `json:"scene,omitempty"`
}

// Release освобождает сцену. Безопасен при повторном вызове
// и для 2D-результатов без сцены.
func (r *ChartResult) Release() {
	if r != nil && r.Scene != nil {
		r.Scene.Close()
	}
}

type UploadService interface {
	Ingest(userID, fileName string, data []byte) (*dto.UploadResponse, error)
	History(userID string) ([]dto.UploadSummary, error)
	ListAll() ([]dto.AdminUploadSummary, error)
	Delete(userID, uploadID string) (*dto.DeleteResponse, error)
	AdminDelete(uploadID string) (*dto.DeleteResponse, error)
	ChartData(requesterID string, requesterIsAdmin bool, uploadID string, sel chart.Selection) (*ChartResult, error)
}

type UploadServiceImpl struct {
	uploadRepo  repositories.UploadRepository
	allowedExts []string
}

func NewUploadService(uploadRepo repositories.UploadRepository, allowedExts []string) UploadService {
	return &UploadServiceImpl{
		uploadRepo:  uploadRepo,
		allowedExts: allowedExts,
	}
}

// Ingest разбирает файл и сохраняет preview. Повторная загрузка
// той же пары (владелец, имя файла) перезаписывает существующую
// запись: последняя загрузка выигрывает.
func (s *UploadServiceImpl) Ingest(userID, fileName string, data []byte) (*dto.UploadResponse, error) {
	rows, err := spreadsheet.Parse(fileName, data, s.allowedExts)
	if err != nil {
		if appErrors.Is(err, spreadsheet.ErrUnsupportedExtension) {
			return nil, appErrors.ErrInvalidFileType
		}
		logger.WithError(err).Warn("spreadsheet parse failed", "fileName", fileName)
		return nil, appErrors.NewInternalError("Upload failed. Try again.")
	}

	existing, err := s.uploadRepo.FindByOwnerAndName(userID, fileName)
	switch {
	case err == nil:
		if err := existing.SetRows(rows); err != nil {
			return nil, appErrors.InternalError(err)
		}
		existing.Timestamp = time.Now()
		if err := s.uploadRepo.Save(existing); err != nil {
			return nil, appErrors.InternalError(err)
		}
		return &dto.UploadResponse{Data: rows, Message: dto.UploadUpdatedMessage}, nil

	case appErrors.Is(err, repositories.ErrUploadNotFound):
		upload := &models.Upload{
			UserID:    userID,
			FileName:  fileName,
			Timestamp: time.Now(),
		}
		if err := upload.SetRows(rows); err != nil {
			return nil, appErrors.InternalError(err)
		}
		if err := s.uploadRepo.Create(upload); err != nil {
			return nil, appErrors.InternalError(err)
		}
		return &dto.UploadResponse{Data: rows, Message: dto.UploadCreatedMessage}, nil

	default:
		return nil, appErrors.InternalError(err)
	}
}

// History - загрузки владельца, новые первыми
func (s *UploadServiceImpl) History(userID string) ([]dto.UploadSummary, error) {
	uploads, err := s.uploadRepo.FindByOwner(userID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	result := make([]dto.UploadSummary, 0, len(uploads))
	for i := range uploads {
		rows, err := uploads[i].Rows()
		if err != nil {
			return nil, appErrors.InternalError(err)
		}
		result = append(result, dto.UploadSummary{
			ID:        uploads[i].ID,
			FileName:  uploads[i].FileName,
			Timestamp: uploads[i].Timestamp,
			Data:      rows,
		})
	}
	return result, nil
}

// ListAll - админский список всех загрузок с владельцами.
// Preview не включается: админу достаточно метаданных.
func (s *UploadServiceImpl) ListAll() ([]dto.AdminUploadSummary, error) {
	uploads, err := s.uploadRepo.FindAllWithOwner()
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	result := make([]dto.AdminUploadSummary, 0, len(uploads))
	for i := range uploads {
		item := dto.AdminUploadSummary{
			ID:        uploads[i].ID,
			FileName:  uploads[i].FileName,
			Timestamp: uploads[i].Timestamp,
			UserID:    uploads[i].UserID,
		}
		if uploads[i].User != nil {
			item.UserName = uploads[i].User.Name
			item.UserEmail = uploads[i].User.Email
		}
		result = append(result, item)
	}
	return result, nil
}

// Delete удаляет загрузку только в пределах владельца:
// чужой id неотличим от несуществующего
func (s *UploadServiceImpl) Delete(userID, uploadID string) (*dto.DeleteResponse, error) {
	if err := s.uploadRepo.DeleteByIDScoped(uploadID, userID); err != nil {
		if appErrors.Is(err, repositories.ErrUploadNotFound) {
			return nil, appErrors.ErrUploadNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return &dto.DeleteResponse{Success: true, Message: "File deleted successfully."}, nil
}

func (s *UploadServiceImpl) AdminDelete(uploadID string) (*dto.DeleteResponse, error) {
	if err := s.uploadRepo.DeleteByID(uploadID); err != nil {
		if appErrors.Is(err, repositories.ErrUploadNotFound) {
			return nil, appErrors.ErrUploadNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return &dto.DeleteResponse{Success: true, Message: "File deleted successfully."}, nil
}

// ChartData строит данные графика по сохраненному preview.
// Чтение разрешено владельцу и админу.
func (s *UploadServiceImpl) ChartData(requesterID string, requesterIsAdmin bool, uploadID string, sel chart.Selection) (*ChartResult, error) {
	upload, err := s.uploadRepo.FindByID(uploadID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUploadNotFound) {
			return nil, appErrors.ErrUploadNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if upload.UserID != requesterID && !requesterIsAdmin {
		return nil, appErrors.ErrForbidden
	}

	rows, err := upload.Rows()
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	if err := sel.Validate(rows); err != nil {
		return nil, chartError(err)
	}

	if sel.Family.Is3D() {
		scene, err := chart.BuildScene(rows, sel)
		if err != nil {
			return nil, chartError(err)
		}
		return &ChartResult{Family: sel.Family, Scene: scene}, nil
	}

	data, err := chart.Map2D(rows, sel)
	if err != nil {
		return nil, chartError(err)
	}
	return &ChartResult{Family: sel.Family, Chart: data}, nil
}

// chartError переводит ошибки построения в клиентские 400
func chartError(err error) *appErrors.AppError {
	switch {
	case appErrors.Is(err, chart.ErrUnknownFamily),
		appErrors.Is(err, chart.ErrAxisNotBound),
		appErrors.Is(err, chart.ErrColumnNotFound),
		appErrors.Is(err, chart.ErrNoRenderableRows),
		appErrors.Is(err, chart.ErrZeroTotal):
		return appErrors.New(appErrors.CodeInvalidChartQuery, err.Error(), http.StatusBadRequest)
	default:
		return appErrors.InternalError(err)
	}
}
