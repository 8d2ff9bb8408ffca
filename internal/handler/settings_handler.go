package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/repository"
)

type SettingsHandler struct {
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

func NewSettingsHandler(settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get handles GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsRepo.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /settings. Changed knobs take effect on the next stats
// read or recompute; nothing stored needs migrating.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		RolloverHour    int `json:"rollover_hour"`
		WeekStartDay    int `json:"week_start_day"`
		ScoreWindowDays int `json:"score_window_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.RolloverHour < 0 || req.RolloverHour > 23 ||
		req.WeekStartDay < 0 || req.WeekStartDay > 6 ||
		req.ScoreWindowDays < 1 || req.ScoreWindowDays > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings out of range"})
		return
	}

	settings := &model.UserSettings{
		UserID:          userID,
		RolloverHour:    req.RolloverHour,
		WeekStartDay:    req.WeekStartDay,
		ScoreWindowDays: req.ScoreWindowDays,
	}
	if err := h.settingsRepo.Upsert(c.Request.Context(), settings); err != nil {
		h.logger.Error("Failed to save settings", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
