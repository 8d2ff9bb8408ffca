package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daytrack/internal/repository"
)

type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewNotificationHandler(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List handles GET /notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	list, err := h.notificationRepo.ListByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notificationRepo.MarkRead(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}
