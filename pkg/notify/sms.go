package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSGateway sends texts through the SMS gateway's REST API.
type SMSGateway struct {
	BaseURL  string
	APIKey   string
	SenderID string
	client   *http.Client
}

func NewSMSGateway(baseURL, apiKey, senderID string) *SMSGateway {
	return &SMSGateway{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		SenderID: senderID,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *SMSGateway) Name() string { return "sms" }

type smsSendReq struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (g *SMSGateway) Send(ctx context.Context, target, message string) (*DeliveryResult, error) {
	body, _ := json.Marshal(smsSendReq{To: target, From: g.SenderID, Message: message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &DeliveryResult{OK: false, ProviderResponse: string(respBody)},
			fmt.Errorf("sms send: %d", resp.StatusCode)
	}
	return &DeliveryResult{OK: true, ProviderResponse: string(respBody)}, nil
}

// StubChannel swallows sends; used when no gateway is configured.
type StubChannel struct{}

func (StubChannel) Name() string { return "stub" }

func (StubChannel) Send(ctx context.Context, target, message string) (*DeliveryResult, error) {
	return &DeliveryResult{OK: true, ProviderResponse: "stub"}, nil
}
