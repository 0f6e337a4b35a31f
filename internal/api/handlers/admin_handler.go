package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"analytics-dashboard/internal/services"
	"analytics-dashboard/pkg/logger"
)

// AdminHandler exposes the broadcast endpoints reserved for admin users:
// notifications (room-wide or targeted at one user) and admin-only messages.
type AdminHandler struct {
	notifications *services.NotificationService
	log           logger.Logger
}

type NotifyRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

type AdminMessageRequest struct {
	Message map[string]interface{} `json:"message"`
}

func NewAdminHandler(notifications *services.NotificationService, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		notifications: notifications,
		log:           log,
	}
}

func (h *AdminHandler) SendNotification(c echo.Context) error {
	var req NotifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Title == "" && req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title or message is required"})
	}
	if req.Type == "" {
		req.Type = "info"
	}

	n, err := h.notifications.Notify(c.Request().Context(), req.Type, req.Title, req.Message, req.UserID)
	if err != nil {
		h.log.Error("Failed to send notification", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send notification"})
	}

	return c.JSON(http.StatusCreated, n)
}

func (h *AdminHandler) SendAdminMessage(c echo.Context) error {
	var req AdminMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if len(req.Message) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	if err := h.notifications.SendAdminMessage(c.Request().Context(), req.Message); err != nil {
		h.log.Error("Failed to send admin message", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send admin message"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Admin message queued"})
}
