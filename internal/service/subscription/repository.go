package subscription

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for subscriptions and their
// confirmation tokens.
type Repository interface {
	// InsertSubscription persists a new subscription. Email is the
	// natural identity key: if a row for the email already exists, the
	// existing row is kept (original id, subscribed_at and status are
	// preserved) and sub.ID is updated to the canonical row's id.
	InsertSubscription(ctx context.Context, sub *domain.Subscription) error

	// InsertToken durably associates a token with a subscription id.
	InsertToken(ctx context.Context, token domain.ConfirmationToken, subscriptionID uuid.UUID) error

	// FindSubscriptionIDByToken resolves a token to the subscription it
	// confirms. found is false when the token was never issued.
	FindSubscriptionIDByToken(ctx context.Context, token domain.ConfirmationToken) (id uuid.UUID, found bool, err error)

	// ConfirmSubscription sets the subscription's status to confirmed.
	// Idempotent: confirming an already-confirmed row is a no-op write.
	ConfirmSubscription(ctx context.Context, subscriptionID uuid.UUID) error
}

// EmailSender is the outbound email transport used for confirmation mail.
type EmailSender interface {
	Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error
}

// TokenGenerator produces unguessable confirmation tokens.
type TokenGenerator interface {
	Generate() domain.ConfirmationToken
}
