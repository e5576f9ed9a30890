package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	// ErrInvalidInput wraps a domain validation error. When returned no
	// side effects have occurred.
	ErrInvalidInput = errors.New("invalid subscription input")

	// ErrStorageFailure means a subscription or token write failed. No
	// email is sent after a storage failure.
	ErrStorageFailure = errors.New("subscription storage failure")

	// ErrDeliveryFailure means the confirmation email could not be sent.
	// The subscription row and token remain persisted.
	ErrDeliveryFailure = errors.New("confirmation email delivery failure")

	// ErrUnknownToken covers absent, malformed and already-invalidated
	// tokens alike, so callers cannot enumerate issued tokens.
	ErrUnknownToken = errors.New("unknown subscription token")
)
