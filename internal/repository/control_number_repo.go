package repository

import (
	"errors"
	"time"

	"medicore/internal/domain"
	"medicore/internal/models"

	"gorm.io/gorm"
)

type ControlNumberRepository struct {
	db *gorm.DB
}

func NewControlNumberRepository(db *gorm.DB) *ControlNumberRepository {
	return &ControlNumberRepository{db: db}
}

func (r *ControlNumberRepository) Create(cn *models.ControlNumber) error {
	return r.db.Create(cn).Error
}

func (r *ControlNumberRepository) GetByID(id uint) (*models.ControlNumber, error) {
	var cn models.ControlNumber
	if err := r.db.First(&cn, id).Error; err != nil {
		return nil, err
	}
	return &cn, nil
}

func (r *ControlNumberRepository) GetByNumber(number string) (*models.ControlNumber, error) {
	var cn models.ControlNumber
	if err := r.db.Where("number = ?", number).First(&cn).Error; err != nil {
		return nil, err
	}
	return &cn, nil
}

// ActiveByInvoice returns the invoice's ACTIVE control number, or nil.
func (r *ControlNumberRepository) ActiveByInvoice(invoiceID uint) (*models.ControlNumber, error) {
	var cn models.ControlNumber
	err := r.db.Where("invoice_id = ? AND status = ?", invoiceID, domain.ControlNumberActive).First(&cn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cn, nil
}

// Transition applies a guarded ACTIVE -> {CANCELLED, EXPIRED, REISSUED}
// update. Returns whether a row changed.
func (r *ControlNumberRepository) Transition(id uint, from, to string) (bool, error) {
	res := r.db.Model(&models.ControlNumber{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

// Reissue deactivates the old number and creates its replacement in one
// transaction, keeping the at-most-one-ACTIVE-per-invoice invariant even
// under concurrent reissue calls.
func (r *ControlNumberRepository) Reissue(oldID uint, replacement *models.ControlNumber) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ControlNumber{}).
			Where("id = ? AND status = ?", oldID, domain.ControlNumberActive).
			Update("status", domain.ControlNumberReissued)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}
		return tx.Create(replacement).Error
	})
}

// ExpireOlderThan flips every ACTIVE number whose validity window has
// lapsed to EXPIRED and returns how many rows changed.
func (r *ControlNumberRepository) ExpireOlderThan(asOf time.Time) (int64, error) {
	res := r.db.Model(&models.ControlNumber{}).
		Where("status = ? AND expires_at < ?", domain.ControlNumberActive, asOf).
		Update("status", domain.ControlNumberExpired)
	return res.RowsAffected, res.Error
}
