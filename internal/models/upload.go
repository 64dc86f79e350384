package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Upload - одна запись на пару (владелец, имя файла).
// Повторная загрузка того же имени перезаписывает preview и timestamp.
type Upload struct {
	BaseModel
	UserID    string         `gorm:"not null;index;uniqueIndex:idx_owner_filename" json:"userId"`
	FileName  string         `gorm:"not null;uniqueIndex:idx_owner_filename" json:"fileName"`
	Preview   datatypes.JSON `gorm:"type:jsonb" json:"preview"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Rows декодирует сохраненный preview в последовательность строк-записей
func (u *Upload) Rows() ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if len(u.Preview) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(u.Preview, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetRows сериализует строки в preview-колонку
func (u *Upload) SetRows(rows []map[string]interface{}) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	u.Preview = datatypes.JSON(data)
	return nil
}
