package models

import (
	"testing"

	"medicore/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceOpen(t *testing.T) {
	assert.True(t, (&Invoice{Status: domain.InvoiceStatusPending}).Open())
	assert.False(t, (&Invoice{Status: domain.InvoiceStatusPaid}).Open())
	assert.False(t, (&Invoice{Status: domain.InvoiceStatusVoid}).Open())
	assert.False(t, (&Invoice{}).Open())
}
