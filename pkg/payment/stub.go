package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a deterministic local provider for development and tests.
type StubProvider struct {
	ProviderName string
}

func (s *StubProvider) Name() string {
	if s.ProviderName != "" {
		return s.ProviderName
	}
	return "stub"
}

func (s *StubProvider) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	ref := req.Reference
	if ref == "" {
		ref = fmt.Sprintf("stub-%d", time.Now().UnixNano())
	}
	return &InitiateResponse{
		Reference: ref,
		Status:    "PENDING",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, nil
}

func (s *StubProvider) VerifyCallbackSignature(body []byte, signature string) bool {
	return true
}

func (s *StubProvider) ParseCallback(body []byte) (*Callback, error) {
	var cb Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cb.Reference) == "" {
		return nil, fmt.Errorf("stub callback: reference required")
	}
	return &cb, nil
}
