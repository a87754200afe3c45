package notify

import (
	"context"
)

// DeliveryResult is what an out-of-band channel reports back for one send.
type DeliveryResult struct {
	OK               bool
	ProviderResponse string
}

// Channel is one out-of-band delivery mechanism (SMS, email). Target is a
// phone number or email address depending on the channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, target, message string) (*DeliveryResult, error)
}
