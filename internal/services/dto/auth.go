package dto

import "excelytics_backend/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type BlockRequest struct {
	IsBlocked *bool `json:"isBlocked" validate:"required"`
}

// UserResponse - публичная проекция пользователя (без хеша)
type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	IsGoogleUser bool   `json:"isGoogleUser"`
	Avatar       string `json:"avatar,omitempty"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ProfileResponse - проекция для страницы профиля
type ProfileResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	IsGoogleUser bool   `json:"isGoogleUser"`
	HasPassword  bool   `json:"hasPassword"`
}

// AdminUserResponse - проекция для админского списка
type AdminUserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	IsBlocked bool   `json:"isBlocked"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		IsGoogleUser: u.IsGoogleUser,
		Avatar:       u.AvatarURL,
	}
}

func NewAdminUserResponse(u *models.User) *AdminUserResponse {
	return &AdminUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		IsBlocked: u.IsBlocked,
	}
}
