package handler

import (
	"net/http"
	"strconv"
	"time"

	"medicore/internal/domain"
	"medicore/internal/middleware"
	"medicore/internal/repository"
	"medicore/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc      *service.NotificationService
	userRepo *repository.UserRepository
}

func NewNotificationHandler(svc *service.NotificationService, userRepo *repository.UserRepository) *NotificationHandler {
	return &NotificationHandler{svc: svc, userRepo: userRepo}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Message      string `json:"message" binding:"required"`
		TargetRole   string `json:"target_role"`
		TargetUserID *uint  `json:"target_user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.TargetRole == "" && req.TargetUserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "target_role or target_user_id is required"})
		return
	}
	sender := &service.Sender{ID: middleware.GetUserID(c), Role: middleware.GetRole(c)}
	if u, err := h.userRepo.GetByID(sender.ID); err == nil {
		sender.Name = u.Name
	}
	n, err := h.svc.Create(service.CreateNotificationInput{
		Title:        req.Title,
		Message:      req.Message,
		TargetRole:   req.TargetRole,
		TargetUserID: req.TargetUserID,
		Sender:       sender,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

// List supports ?unread=true&from=2026-01-01&to=2026-01-31&q=stock.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	var f domain.NotificationFilter
	f.UnreadOnly = c.Query("unread") == "true" || c.Query("unread") == "1"
	f.Query = c.Query("q")
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "from must be YYYY-MM-DD"})
			return
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "to must be YYYY-MM-DD"})
			return
		}
		// inclusive upper bound: end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	list, err := h.svc.ListFor(userID, role, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid notification id"})
		return
	}
	if err := h.svc.MarkRead(userID, role, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
