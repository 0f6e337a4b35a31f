package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/internal/services"
	"analytics-dashboard/pkg/logger"
)

type AuthHandler struct {
	authService *services.AuthService
	log         logger.Logger
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type UserSummary struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

func NewAuthHandler(authService *services.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		case errors.Is(err, domain.ErrUserInactive):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Account is deactivated"})
		default:
			h.log.Error("Login failed", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		}
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: UserSummary{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}
