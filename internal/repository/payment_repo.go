package repository

import (
	"time"

	"medicore/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByReference(ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("provider_ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByInvoice(invoiceID uint) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&list).Error
	return list, err
}

// Transition applies a guarded status update: the row moves to `to` only
// if its current status is one of `from`. Returns whether a row changed,
// so callers can distinguish a transition from a duplicate report.
func (r *PaymentRepository) Transition(id uint, from []string, to, externalTxID string, completedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if externalTxID != "" {
		updates["external_tx_id"] = externalTxID
	}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}
