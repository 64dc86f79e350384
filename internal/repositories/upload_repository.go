package repositories

import (
	"errors"

	"excelytics_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(upload *models.Upload) error
	Save(upload *models.Upload) error
	FindByID(id string) (*models.Upload, error)
	FindByOwnerAndName(userID, fileName string) (*models.Upload, error)
	FindByOwner(userID string) ([]models.Upload, error)
	FindAllWithOwner() ([]models.Upload, error)
	DeleteByIDScoped(id, userID string) error
	DeleteByID(id string) error
}

type UploadRepositoryImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

// Save перезаписывает запись целиком: одна запись - одна замена документа
func (r *UploadRepositoryImpl) Save(upload *models.Upload) error {
	return r.db.Save(upload).Error
}

func (r *UploadRepositoryImpl) FindByID(id string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.First(&upload, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) FindByOwnerAndName(userID, fileName string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.First(&upload, "user_id = ? AND file_name = ?", userID, fileName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) FindByOwner(userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Where("user_id = ?", userID).Order("timestamp DESC").Find(&uploads).Error
	return uploads, err
}

// FindAllWithOwner возвращает все загрузки с владельцем (админский список)
func (r *UploadRepositoryImpl) FindAllWithOwner() ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.Preload("User").Order("timestamp DESC").Find(&uploads).Error
	return uploads, err
}

// DeleteByIDScoped удаляет только запись, принадлежащую userID.
// Возвращает ErrUploadNotFound, а не молчаливый no-op.
func (r *UploadRepositoryImpl) DeleteByIDScoped(id, userID string) error {
	result := r.db.Delete(&models.Upload{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}

func (r *UploadRepositoryImpl) DeleteByID(id string) error {
	result := r.db.Delete(&models.Upload{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
