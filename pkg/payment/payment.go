package payment

import (
	"context"
	"time"
)

// InitiateRequest carries everything a provider needs to start a payment
// attempt for one invoice.
type InitiateRequest struct {
	InvoiceID   uint
	Reference   string // our order reference; echoed back in the callback
	AmountCents int64
	Currency    string
	Description string
	CallbackURL string
	// Buyer details for STK-style push payments
	BuyerPhone     string
	BuyerFirstName string
	BuyerLastName  string
	BuyerEmail     string
}

type InitiateResponse struct {
	Reference    string
	Status       string
	CheckoutURL  string
	ExternalTxID string
	ExpiresAt    time.Time
}

// Callback is the normalized asynchronous status report parsed out of a
// provider's webhook body or poll result.
type Callback struct {
	Reference    string `json:"reference"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amount_cents"`
	ExternalTxID string `json:"external_tx_id"`
}

// Provider is one payment modality. Initiate dispatches an attempt;
// VerifyCallbackSignature and ParseCallback handle the asynchronous leg.
type Provider interface {
	Name() string
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	VerifyCallbackSignature(body []byte, signature string) bool
	ParseCallback(body []byte) (*Callback, error)
}
