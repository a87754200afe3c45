package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"medicore/internal/domain"
	"medicore/internal/models"
	"medicore/internal/repository"
	"medicore/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryHandler struct {
	items    *repository.InventoryRepository
	notifier *service.NotificationService
}

func NewInventoryHandler(items *repository.InventoryRepository, notifier *service.NotificationService) *InventoryHandler {
	return &InventoryHandler{items: items, notifier: notifier}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req struct {
		Name             string `json:"name" binding:"required"`
		Unit             string `json:"unit"`
		Quantity         int    `json:"quantity"`
		ReorderThreshold int    `json:"reorder_threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	item := &models.InventoryItem{
		Name:             req.Name,
		Unit:             req.Unit,
		Quantity:         req.Quantity,
		ReorderThreshold: req.ReorderThreshold,
	}
	if err := h.items.Create(item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *InventoryHandler) List(c *gin.Context) {
	list, err := h.items.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// Adjust applies a stock delta. Dropping below the reorder threshold
// alerts the managers through the notification dispatcher.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
		return
	}
	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	item, err := h.items.Adjust(uint(id), req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not found"})
			return
		}
		respondError(c, err)
		return
	}
	if item.BelowThreshold() {
		_ = h.notifier.NotifyRole(domain.RoleManager, "Low stock",
			fmt.Sprintf("%s is down to %d %s (threshold %d)", item.Name, item.Quantity, item.Unit, item.ReorderThreshold))
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
