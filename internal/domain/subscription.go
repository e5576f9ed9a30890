package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus enumerates the states a subscription can be in.
// The lifecycle is one-directional: pending_confirmation → confirmed.
type SubscriptionStatus string

const (
	StatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
	StatusConfirmed           SubscriptionStatus = "confirmed"
)

// Subscription is the persisted record of a sign-up. SubscribedAt is set
// once at creation; Status is the only mutable field.
type Subscription struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	Email        string             `json:"email" db:"email"`
	Name         string             `json:"name" db:"name"`
	Status       SubscriptionStatus `json:"status" db:"status"`
	SubscribedAt time.Time          `json:"subscribed_at" db:"subscribed_at"`
}

// ConfirmationToken is the opaque credential mailed to a subscriber and
// exchanged to activate the subscription. High entropy; never derived from
// subscriber data.
type ConfirmationToken string
