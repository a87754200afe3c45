package models

import (
	"time"
)

// InsuranceClaim records one claim submission per (invoice, claim number).
// Adjudication happens at the payer; we only store what was submitted and
// whatever status the payer reported. Claims are not retried automatically.
type InsuranceClaim struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvoiceID    uint      `gorm:"not null;index" json:"invoice_id"`
	ClaimNumber  string    `gorm:"size:64;not null" json:"claim_number"`
	Provider     string    `gorm:"size:64;not null" json:"provider"`
	AmountCents  int64     `gorm:"not null" json:"amount_cents"`
	Status       string    `gorm:"size:20;not null;default:'SUBMITTED'" json:"status"`
	DocumentURL  string    `gorm:"size:512" json:"document_url"`
	PayerRef     string    `gorm:"size:128" json:"payer_ref"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

func (InsuranceClaim) TableName() string {
	return "insurance_claims"
}
