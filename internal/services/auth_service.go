package services

import (
	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/auth"
	"excelytics_backend/internal/googleauth"
	"excelytics_backend/internal/logger"
	"excelytics_backend/internal/models"
	"excelytics_backend/internal/repositories"
	"excelytics_backend/internal/services/dto"

	"excelytics_backend/internal/email"
)

// GoogleExchanger - обмен authorization code на профиль провайдера
type GoogleExchanger interface {
	Exchange(code string) (*googleauth.Profile, error)
}

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	GoogleLogin(code string) (*dto.LoginResponse, error)
	SetPassword(userID, newPassword string) (*dto.UserResponse, error)
	GetProfile(requesterID string, requesterIsAdmin bool, targetID string) (*dto.ProfileResponse, error)
	UpdateProfile(requesterID string, requesterIsAdmin bool, targetID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsers() ([]dto.AdminUserResponse, error)
	SetBlocked(userID string, blocked bool) (*dto.AdminUserResponse, error)
	DeleteUser(userID string) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	google   GoogleExchanger
	mailer   email.Sender
}

func NewAuthService(userRepo repositories.UserRepository, google GoogleExchanger, mailer email.Sender) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		google:   google,
		mailer:   mailer,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(user); err != nil {
		if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, appErrors.ErrEmailAlreadyExists
		}
		return nil, appErrors.InternalError(err)
	}

	// Письмо некритично: ошибку логируем, регистрацию не откатываем
	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		logger.WithError(err).Warn("failed to send welcome email", "email", user.Email)
	}

	return dto.NewUserResponse(user), nil
}

// Login - аутентификация по email и паролю
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if user.IsBlocked {
		return nil, appErrors.ErrUserBlocked
	}

	// Акк, созданный через Google, пароля не имеет - это BadRequest,
	// а не неверные креды
	if !user.HasPassword() {
		return nil, appErrors.ErrPasswordNotSet
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	return s.buildLoginResponse(user)
}

// GoogleLogin - вход через провайдера идентичности.
// Создает пользователя при первом входе, на совпадении email
// дозаполняет внешние поля существующего аккаунта.
func (s *AuthServiceImpl) GoogleLogin(code string) (*dto.LoginResponse, error) {
	profile, err := s.google.Exchange(code)
	if err != nil {
		return nil, appErrors.UpstreamError(err, "Google sign-in failed")
	}

	user, err := s.userRepo.FindByEmail(profile.Email)
	switch {
	case err == nil:
		// Дозаполняем внешнюю идентичность
		changed := false
		if user.GoogleID == "" {
			user.GoogleID = profile.ID
			user.IsGoogleUser = true
			changed = true
		}
		if user.AvatarURL == "" && profile.Picture != "" {
			user.AvatarURL = profile.Picture
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(user); err != nil {
				return nil, appErrors.InternalError(err)
			}
		}
	case appErrors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{
			Name:         profile.Name,
			Email:        profile.Email,
			GoogleID:     profile.ID,
			AvatarURL:    profile.Picture,
			IsGoogleUser: true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, appErrors.InternalError(err)
		}
	default:
		return nil, appErrors.InternalError(err)
	}

	if user.IsBlocked {
		return nil, appErrors.ErrUserBlocked
	}

	return s.buildLoginResponse(user)
}

// SetPassword задает локальный пароль. После этого аккаунт перестает
// быть identity-only: hasPassword в профиле становится true.
func (s *AuthServiceImpl) SetPassword(userID, newPassword string) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return nil, appErrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return dto.NewUserResponse(user), nil
}

// GetProfile - чтение профиля: свой собственный либо админом
func (s *AuthServiceImpl) GetProfile(requesterID string, requesterIsAdmin bool, targetID string) (*dto.ProfileResponse, error) {
	if requesterID != targetID && !requesterIsAdmin {
		return nil, appErrors.ErrForbidden
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	return &dto.ProfileResponse{
		Name:         user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		IsGoogleUser: user.IsGoogleUser,
		HasPassword:  user.HasPassword(),
	}, nil
}

// UpdateProfile - обновление имени/email и смена пароля.
// Асимметрия намеренная и исторически закреплена: identity-only
// аккаунт (без локального пароля) меняет пароль без проверки
// текущего; аккаунт с паролем обязан предъявить действующий.
func (s *AuthServiceImpl) UpdateProfile(requesterID string, requesterIsAdmin bool, targetID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if requesterID != targetID && !requesterIsAdmin {
		return nil, appErrors.ErrForbidden
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if req.NewPassword != "" {
		if err := auth.ValidatePassword(req.NewPassword); err != nil {
			return nil, appErrors.ErrWeakPassword
		}

		if user.HasPassword() {
			// Обычный аккаунт: текущий пароль обязателен
			if req.CurrentPassword == "" {
				return nil, appErrors.NewBadRequestError("Current password is required")
			}
			if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
				return nil, appErrors.ErrInvalidCredentials
			}
		}
		// Identity-only ветка: текущего пароля нет, проверять нечего

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, appErrors.InternalError(err)
		}
		user.PasswordHash = hash
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
			return nil, appErrors.ErrEmailAlreadyExists
		} else if !appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.InternalError(err)
		}
		user.Email = req.Email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return dto.NewUserResponse(user), nil
}

// ListUsers - админская проекция всех пользователей, хеш не отдается
func (s *AuthServiceImpl) ListUsers() ([]dto.AdminUserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		result = append(result, *dto.NewAdminUserResponse(&users[i]))
	}
	return result, nil
}

// SetBlocked переключает флаг блокировки.
// Действует немедленно: middleware перечитывает пользователя
// на каждом запросе, дожидаться истечения токена не нужно.
func (s *AuthServiceImpl) SetBlocked(userID string, blocked bool) (*dto.AdminUserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	user.IsBlocked = blocked
	if err := s.userRepo.Update(user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return dto.NewAdminUserResponse(user), nil
}

func (s *AuthServiceImpl) DeleteUser(userID string) error {
	if err := s.userRepo.Delete(userID); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}
