package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/logger"
)

// Handler exposes Local over HTTP.
type Handler struct {
	local *Local
	log   *logger.Logger
}

// NewHandler creates the HTTP handlers.
func NewHandler(local *Local, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{local: local, log: log}
}

// GET /lessons
func (h *Handler) ListLessons(c *gin.Context) {
	lessons, err := h.local.Lessons(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GET /lessons/:id
func (h *Handler) GetLesson(c *gin.Context) {
	l, err := h.local.Lesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.local.User(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /users/:id/complete-lesson
func (h *Handler) CompleteLesson(c *gin.Context) {
	var req api.Completion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completion body"})
		return
	}
	if strings.TrimSpace(req.LessonID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lessonId is required"})
		return
	}
	if req.Score < 0 || req.Score > 100 || req.TimeSpent < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be 0-100 and timeSpent non-negative"})
		return
	}

	p, err := h.local.CompleteLesson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// HealthCheck answers liveness probes.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, api.ErrDuplicateCompletion):
		c.JSON(http.StatusConflict, gin.H{"error": "lesson already completed"})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
