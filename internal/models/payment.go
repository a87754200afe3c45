package models

import (
	"time"
)

// Payment is one settlement attempt against an invoice. Rows are audit
// records: a retry creates a new row, prior attempts are never mutated
// except for the forward-only status transition.
type Payment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvoiceID    *uint     `gorm:"index" json:"invoice_id"`
	PatientID    *uint     `gorm:"index" json:"patient_id"`
	AmountCents  int64     `gorm:"not null" json:"amount_cents"`
	Method       string    `gorm:"size:50;not null" json:"method"` // provider tag, e.g. mobile_money, control_number
	Status       string    `gorm:"size:20;not null;index" json:"status"` // INITIATED, SUCCESS, FAILED
	ProviderRef  string    `gorm:"size:128;uniqueIndex" json:"provider_ref"`
	ExternalTxID string    `gorm:"size:128" json:"external_tx_id"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
