package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daytrack/internal/engine"
	"daytrack/internal/model"
	"daytrack/internal/service/habits"
	"daytrack/internal/service/habitstats"
)

type HabitHandler struct {
	habitService *habits.Service
	statsService *habitstats.Service
	logger       *zap.Logger
}

func NewHabitHandler(habitService *habits.Service, statsService *habitstats.Service, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		statsService: statsService,
		logger:       logger,
	}
}

func getUserID(c *gin.Context) (int, bool) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	return userID.(int), true
}

func habitID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return 0, false
	}
	return id, true
}

type habitRequest struct {
	Title      string            `json:"title" binding:"required"`
	Emoji      string            `json:"emoji"`
	Color      string            `json:"color"`
	ValueType  string            `json:"value_type" binding:"required"`
	Target     *float64          `json:"target"`
	Recurrence engine.Recurrence `json:"recurrence" binding:"required"`
	CreatedOn  string            `json:"created_on"`
}

// Create handles POST /habits
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	habit := &model.Habit{
		UserID:     userID,
		Title:      req.Title,
		Emoji:      req.Emoji,
		Color:      req.Color,
		ValueType:  req.ValueType,
		Target:     req.Target,
		Recurrence: req.Recurrence,
		CreatedOn:  req.CreatedOn,
	}
	if err := h.habitService.CreateHabit(c.Request.Context(), habit); err != nil {
		if errors.Is(err, engine.ErrInvalidRecurrence) || errors.Is(err, habits.ErrInvalidValueType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create habit", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List handles GET /habits
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	includeArchived := c.Query("include_archived") == "true"
	list, err := h.habitService.ListHabits(c.Request.Context(), userID, includeArchived)
	if err != nil {
		h.logger.Error("Failed to list habits", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list habits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": list})
}

// Get handles GET /habits/:id
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	habit, err := h.habitService.GetHabit(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get habit"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update handles PUT /habits/:id
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	habit := &model.Habit{
		ID:         id,
		Title:      req.Title,
		Emoji:      req.Emoji,
		Color:      req.Color,
		ValueType:  req.ValueType,
		Target:     req.Target,
		Recurrence: req.Recurrence,
	}
	if err := h.habitService.UpdateHabit(c.Request.Context(), userID, habit); err != nil {
		switch {
		case errors.Is(err, habits.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, engine.ErrInvalidRecurrence), errors.Is(err, habits.ErrInvalidValueType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to update habit", zap.Int64("habit_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update habit"})
		}
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Archive handles POST /habits/:id/archive and /habits/:id/unarchive.
func (h *HabitHandler) Archive(archived bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		id, ok := habitID(c)
		if !ok {
			return
		}

		if err := h.habitService.ArchiveHabit(c.Request.Context(), id, userID, archived); err != nil {
			if errors.Is(err, habits.ErrHabitNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive habit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"archived": archived})
	}
}

// Delete handles DELETE /habits/:id
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete habit"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Log handles PUT /habits/:id/logs/:date (and PUT /habits/:id/logs for
// "today").
func (h *HabitHandler) Log(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	var req struct {
		Done  bool    `json:"done"`
		Value float64 `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	log, err := h.habitService.LogHabit(c.Request.Context(), userID, id, c.Param("date"), req.Done, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, habits.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case isDateError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to log habit", zap.Int64("habit_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log habit"})
		}
		return
	}

	c.JSON(http.StatusOK, log)
}

// GetLog handles GET /habits/:id/logs/:date
func (h *HabitHandler) GetLog(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	log, err := h.habitService.GetLog(c.Request.Context(), userID, id, c.Param("date"))
	if err != nil {
		switch {
		case errors.Is(err, habits.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, habits.ErrLogNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
		case isDateError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get log"})
		}
		return
	}

	c.JSON(http.StatusOK, log)
}

// DeleteLog handles DELETE /habits/:id/logs/:date
func (h *HabitHandler) DeleteLog(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	err := h.habitService.DeleteLog(c.Request.Context(), userID, id, c.Param("date"))
	if err != nil {
		switch {
		case errors.Is(err, habits.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, habits.ErrLogNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "log not found"})
		case isDateError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete log"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListLogs handles GET /habits/:id/logs
func (h *HabitHandler) ListLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	logs, err := h.habitService.ListLogs(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// Stats handles GET /habits/:id/stats
func (h *HabitHandler) Stats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := habitID(c)
	if !ok {
		return
	}

	// Ownership check before touching the cache.
	if _, err := h.habitService.GetHabit(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, habits.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	stats, err := h.statsService.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("Failed to get habit stats", zap.Int64("habit_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func isDateError(err error) bool {
	return errors.Is(err, engine.ErrInvalidDate)
}
