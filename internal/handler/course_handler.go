package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/repository"
)

type CourseHandler struct {
	courseRepo *repository.CourseRepository
	logger     *zap.Logger
}

func NewCourseHandler(courseRepo *repository.CourseRepository, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

type courseRequest struct {
	Title      string `json:"title" binding:"required"`
	Code       string `json:"code"`
	Instructor string `json:"instructor"`
	Term       string `json:"term"`
}

// Create handles POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	course := &model.Course{
		UserID:     userID,
		Title:      req.Title,
		Code:       req.Code,
		Instructor: req.Instructor,
		Term:       req.Term,
	}
	if err := h.courseRepo.Insert(c.Request.Context(), course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// List handles GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	includeArchived := c.Query("include_archived") == "true"
	list, err := h.courseRepo.ListByUser(c.Request.Context(), userID, includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": list})
}

// Update handles PUT /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	course := &model.Course{
		ID:         id,
		UserID:     userID,
		Title:      req.Title,
		Code:       req.Code,
		Instructor: req.Instructor,
		Term:       req.Term,
	}
	if err := h.courseRepo.Update(c.Request.Context(), course); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// Archive handles POST /courses/:id/archive and /courses/:id/unarchive.
func (h *CourseHandler) Archive(archived bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
			return
		}

		if err := h.courseRepo.SetArchived(c.Request.Context(), id, userID, archived); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"archived": archived})
	}
}
