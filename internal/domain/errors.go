package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the HTTP layer. Handlers translate these into
// structured {message, details?} responses; nothing else leaks to clients.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrUnauthorized = errors.New("unauthorized")
)

// Validationf wraps ErrValidation with a human-readable message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// ProviderError marks a failure of an external collaborator (payment
// gateway, SMS sender, payer API). Timeouts are ProviderErrors too: the
// true outcome is unknown until reconciliation resolves it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
