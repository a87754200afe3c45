package repository

import (
	"time"

	"medicore/internal/domain"
	"medicore/internal/models"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(i *models.Invoice) error {
	return r.db.Create(i).Error
}

func (r *InvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var i models.Invoice
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InvoiceRepository) ListByPatient(patientID uint, limit, offset int) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.Where("patient_id = ?", patientID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *InvoiceRepository) List(limit, offset int) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkPaid flips PENDING -> PAID with a compare-and-set so concurrent
// success reports settle the invoice exactly once. Returns whether this
// call performed the flip.
func (r *InvoiceRepository) MarkPaid(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, domain.InvoiceStatusPending).
		Updates(map[string]interface{}{"status": domain.InvoiceStatusPaid, "paid_at": at})
	return res.RowsAffected > 0, res.Error
}

// Void flips PENDING -> VOID; settled invoices cannot be voided.
func (r *InvoiceRepository) Void(id uint) (bool, error) {
	res := r.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, domain.InvoiceStatusPending).
		Update("status", domain.InvoiceStatusVoid)
	return res.RowsAffected > 0, res.Error
}

// OverdueAsOf lists PENDING invoices whose due date has passed.
func (r *InvoiceRepository) OverdueAsOf(asOf time.Time) ([]models.Invoice, error) {
	var list []models.Invoice
	err := r.db.Where("status = ? AND due_at < ?", domain.InvoiceStatusPending, asOf).
		Order("due_at ASC").Find(&list).Error
	return list, err
}
