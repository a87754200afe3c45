package repository

import (
	"medicore/internal/models"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(i *models.InventoryItem) error {
	return r.db.Create(i).Error
}

func (r *InventoryRepository) GetByID(id uint) (*models.InventoryItem, error) {
	var i models.InventoryItem
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InventoryRepository) List() ([]models.InventoryItem, error) {
	var list []models.InventoryItem
	err := r.db.Order("name ASC").Find(&list).Error
	return list, err
}

// Adjust applies a quantity delta and returns the updated row.
func (r *InventoryRepository) Adjust(id uint, delta int) (*models.InventoryItem, error) {
	if err := r.db.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}
