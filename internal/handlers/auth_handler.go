package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"excelytics_backend/internal/middleware"
	"excelytics_backend/internal/repositories"
	"excelytics_backend/internal/services"
	"excelytics_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации и управления
// пользователями
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware(h.userRepo))
		{
			authed.POST("/set-password", h.SetPassword)
			authed.GET("/profile/users/:id", h.GetProfile)
			authed.PUT("/profile/users/:id", h.UpdateProfile)
		}

		admin := auth.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.userRepo))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/users", h.ListUsers)
			admin.PATCH("/users/:id/block", h.SetBlocked)
			admin.DELETE("/users/:id", h.DeleteUser)
		}
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.GoogleLogin(req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) SetPassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.SetPassword(userID, req.NewPassword)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password set successfully.",
		"user":    user,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(userID, middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(userID, middleware.IsAdmin(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) SetBlocked(c *gin.Context) {
	var req dto.BlockRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.SetBlocked(c.Param("id"), *req.IsBlocked)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "User unblocked."
	if user.IsBlocked {
		message = "User blocked."
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    user,
	})
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.authService.DeleteUser(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}
