package insurance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the payer claims API. The payer authenticates partners
// with OAuth2 client credentials; the oauth2 transport handles token
// acquisition and refresh.
type Client struct {
	BaseURL string
	http    *http.Client
}

func NewClient(baseURL, tokenURL, clientID, clientSecret string) *Client {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 30 * time.Second
	return &Client{BaseURL: baseURL, http: httpClient}
}

// ClaimSubmission is the payload forwarded to the payer.
type ClaimSubmission struct {
	ClaimNumber string `json:"claim_number"`
	Provider    string `json:"provider"`
	MemberNo    string `json:"member_no"`
	AmountCents int64  `json:"amount_cents"`
	InvoiceRef  string `json:"invoice_ref"`
	ServiceDate string `json:"service_date"`
}

// ClaimAck is the payer's synchronous acknowledgment. Adjudication is
// asynchronous and out of scope; Status is whatever the payer reports
// at submission time.
type ClaimAck struct {
	PayerRef string `json:"payer_ref"`
	Status   string `json:"status"`
}

func (c *Client) SubmitClaim(ctx context.Context, claim ClaimSubmission) (*ClaimAck, error) {
	body, _ := json.Marshal(claim)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/claims", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("submit claim: %d", resp.StatusCode)
	}
	var ack ClaimAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
