package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BankProvider issues control numbers against the bank gateway. Settlement
// happens at the bank counter/agent; the gateway reports it via callback.
type BankProvider struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	client        *http.Client
}

func NewBankProvider(baseURL, apiKey, webhookSecret string) *BankProvider {
	return &BankProvider{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *BankProvider) Name() string { return "control_number" }

type issueNumberReq struct {
	Reference   string `json:"reference"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

type issueNumberResp struct {
	ControlNumber string `json:"control_number"`
	Status        string `json:"status"`
	ExpiresAt     string `json:"expires_at"`
}

// IssueNumber requests a fresh control number for the given reference.
func (p *BankProvider) IssueNumber(ctx context.Context, req InitiateRequest) (string, error) {
	payload := issueNumberReq{
		Reference:   req.Reference,
		Amount:      fmt.Sprintf("%d.%02d", req.AmountCents/100, req.AmountCents%100),
		Currency:    req.Currency,
		Description: req.Description,
		CallbackURL: req.CallbackURL,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/control-numbers", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("X-Api-Key", p.APIKey)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("issue control number: %d", resp.StatusCode)
	}
	var out issueNumberResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ControlNumber == "" {
		return "", fmt.Errorf("issue control number: empty number in response")
	}
	return out.ControlNumber, nil
}

// Initiate records a bank attempt; the buyer pays against the already
// issued control number, so dispatch is a no-op beyond acknowledging.
func (p *BankProvider) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	return &InitiateResponse{
		Reference: req.Reference,
		Status:    "PENDING",
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}, nil
}

func (p *BankProvider) VerifyCallbackSignature(body []byte, signature string) bool {
	if p.WebhookSecret == "" {
		return true
	}
	return VerifyBody(p.WebhookSecret, body, signature)
}

type bankCallback struct {
	Reference     string `json:"reference"`
	ControlNumber string `json:"control_number"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount_cents"`
	ReceiptNumber string `json:"receipt_number"`
}

func (p *BankProvider) ParseCallback(body []byte) (*Callback, error) {
	var raw bankCallback
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Callback{
		Reference:    raw.Reference,
		Status:       raw.Status,
		AmountCents:  raw.Amount,
		ExternalTxID: raw.ReceiptNumber,
	}, nil
}
