package models

type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"` // Пустой для аккаунтов, созданных через Google
	IsAdmin      bool   `gorm:"default:false" json:"isAdmin"`
	IsBlocked    bool   `gorm:"default:false" json:"isBlocked"`
	GoogleID     string `gorm:"index" json:"-"`
	AvatarURL    string `json:"avatar,omitempty"`
	IsGoogleUser bool   `gorm:"default:false" json:"isGoogleUser"`

	Uploads []Upload `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasPassword сообщает, задан ли у аккаунта локальный пароль
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
