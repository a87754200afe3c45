package repository

import (
	"errors"

	"medicore/internal/models"

	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(c *models.InsuranceClaim) error {
	return r.db.Create(c).Error
}

func (r *ClaimRepository) GetByID(id uint) (*models.InsuranceClaim, error) {
	var c models.InsuranceClaim
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Exists reports whether the invoice already has a claim with this number.
func (r *ClaimRepository) Exists(invoiceID uint, claimNumber string) (bool, error) {
	var c models.InsuranceClaim
	err := r.db.Where("invoice_id = ? AND claim_number = ?", invoiceID, claimNumber).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ClaimRepository) Update(c *models.InsuranceClaim) error {
	return r.db.Save(c).Error
}

func (r *ClaimRepository) ListByInvoice(invoiceID uint) ([]models.InsuranceClaim, error) {
	var list []models.InsuranceClaim
	err := r.db.Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&list).Error
	return list, err
}
