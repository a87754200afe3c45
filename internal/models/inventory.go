package models

import (
	"time"

	"gorm.io/gorm"
)

type InventoryItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Unit             string         `gorm:"size:32" json:"unit"`
	Quantity         int            `gorm:"not null;default:0" json:"quantity"`
	ReorderThreshold int            `gorm:"not null;default:0" json:"reorder_threshold"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BelowThreshold() bool {
	return i.Quantity < i.ReorderThreshold
}
