package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// MobileMoneyProvider implements STK push payments via the gateway API.
// The gateway calls back asynchronously; Initiate only confirms dispatch.
type MobileMoneyProvider struct {
	BaseURL       string
	Email         string
	Password      string
	WebhookSecret string
	client        *http.Client
}

func NewMobileMoneyProvider(baseURL, email, password, webhookSecret string) *MobileMoneyProvider {
	return &MobileMoneyProvider{
		BaseURL:       baseURL,
		Email:         email,
		Password:      password,
		WebhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *MobileMoneyProvider) Name() string { return "mobile_money" }

type gatewayLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gatewayLoginResp struct {
	Token string `json:"token"`
}

// getToken logs in and returns a fresh token (per transaction as recommended).
func (p *MobileMoneyProvider) getToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(gatewayLoginReq{Email: p.Email, Password: p.Password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/merchants/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: %d", resp.StatusCode)
	}
	var out gatewayLoginResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

type stkPushReq struct {
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Description       string `json:"description"`
	CustomerPhone     string `json:"customer_phone"`
	CustomerFirstName string `json:"customer_first_name"`
	CustomerLastName  string `json:"customer_last_name"`
	CustomerEmail     string `json:"customer_email"`
	CallbackURL       string `json:"callback_url"`
	OrderID           string `json:"order_id"`
}

type stkPushResp struct {
	UUID                string `json:"uuid"`
	OrderID             string `json:"order_id"`
	MerchantOrderID     string `json:"merchant_order_id"`
	CheckoutRequestID   string `json:"checkout_request_id"`
	Status              string `json:"status"`
	ResponseCode        string `json:"response_code"`
	ResponseDescription string `json:"response_description"`
}

func (p *MobileMoneyProvider) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("mobile money login: %w", err)
	}
	currency := req.Currency
	if currency == "" {
		currency = "TZS"
	}
	payload := stkPushReq{
		Amount:            strconv.FormatInt(req.AmountCents/100, 10),
		Currency:          currency,
		Description:       req.Description,
		CustomerPhone:     req.BuyerPhone,
		CustomerFirstName: req.BuyerFirstName,
		CustomerLastName:  req.BuyerLastName,
		CustomerEmail:     req.BuyerEmail,
		CallbackURL:       req.CallbackURL,
		OrderID:           req.Reference,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/transactions/push", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[MOBILE_MONEY] push failed status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("mobile money push: %d", resp.StatusCode)
	}
	var out stkPushResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	log.Printf("[MOBILE_MONEY] push dispatched reference=%s checkout_request_id=%s status=%s", req.Reference, out.CheckoutRequestID, out.Status)
	return &InitiateResponse{
		Reference:    req.Reference,
		Status:       out.Status,
		ExternalTxID: out.CheckoutRequestID,
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}, nil
}

func (p *MobileMoneyProvider) VerifyCallbackSignature(body []byte, signature string) bool {
	if p.WebhookSecret == "" {
		return true
	}
	return VerifyBody(p.WebhookSecret, body, signature)
}

// gatewayCallback is the raw webhook shape from the gateway.
type gatewayCallback struct {
	Amount            string `json:"amount"`
	MerchantOrderID   string `json:"merchant_order_id"`
	OrderID           string `json:"order_id"`
	ReferenceOrderID  string `json:"reference_order_id"`
	Status            string `json:"status"`
	StatusCode        string `json:"status_code"`
	TransactionUUID   string `json:"transaction_uuid"`
	CheckoutRequestID string `json:"checkout_request_id"`
}

func (p *MobileMoneyProvider) ParseCallback(body []byte) (*Callback, error) {
	var raw gatewayCallback
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	ref := raw.MerchantOrderID
	if ref == "" {
		ref = raw.OrderID
	}
	if ref == "" {
		ref = raw.ReferenceOrderID
	}
	var cents int64
	if raw.Amount != "" {
		if v, err := strconv.ParseFloat(raw.Amount, 64); err == nil {
			cents = int64(v * 100)
		}
	}
	txID := raw.TransactionUUID
	if txID == "" {
		txID = raw.CheckoutRequestID
	}
	return &Callback{
		Reference:    ref,
		Status:       raw.Status,
		AmountCents:  cents,
		ExternalTxID: txID,
	}, nil
}
