// Package postgres implements the subscription repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
)

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct{ db *sql.DB }

// NewSubscriptionRepo creates a Postgres-backed subscription repository.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// InsertSubscription persists sub. Email is the identity key: a repeated
// submission keeps the existing row (id, subscribed_at and status are all
// untouched) and sub.ID is rewritten to the canonical row's id. The no-op
// conflict update exists only to make RETURNING yield that id.
func (r *SubscriptionRepo) InsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, sub.ID, sub.Email, sub.Name, sub.SubscribedAt, sub.Status).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// InsertToken durably records the token → subscription association.
func (r *SubscriptionRepo) InsertToken(ctx context.Context, token domain.ConfirmationToken, subscriptionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscription_id)
		VALUES ($1, $2)
	`, string(token), subscriptionID)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// FindSubscriptionIDByToken resolves a token. found is false when no such
// token was ever issued.
func (r *SubscriptionRepo) FindSubscriptionIDByToken(ctx context.Context, token domain.ConfirmationToken) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT subscription_id FROM subscription_tokens WHERE subscription_token = $1`,
		string(token),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find subscription by token: %w", err)
	}
	return id, true, nil
}

// ConfirmSubscription marks the subscription confirmed. Writing confirmed
// over confirmed is the idempotent no-op the service relies on.
func (r *SubscriptionRepo) ConfirmSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`,
		domain.StatusConfirmed, subscriptionID,
	)
	if err != nil {
		return fmt.Errorf("confirm subscription: %w", err)
	}
	return nil
}
