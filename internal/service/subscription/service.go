package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// Service orchestrates the sign-up and confirmation workflow. It is safe
// for concurrent use; each call is an independent unit of work and shared
// state lives behind the Repository.
type Service struct {
	repo    Repository
	email   EmailSender
	tokens  TokenGenerator
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

// NewService creates a subscription service. baseURL is the public origin
// confirmation links point at, without a trailing slash.
func NewService(repo Repository, email EmailSender, tokens TokenGenerator, baseURL string, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		email:   email,
		tokens:  tokens,
		baseURL: baseURL,
		log:     log,
		now:     time.Now,
	}
}

// Subscribe validates a raw submission, persists it as pending_confirmation
// and sends the confirmation email. Steps run strictly in order; the first
// failure aborts. A validation failure guarantees zero side effects; a
// delivery failure leaves the row and token persisted.
func (s *Service) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	sub, err := domain.ParseNewSubscriber(rawName, rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	record := &domain.Subscription{
		ID:           uuid.New(),
		Email:        sub.Email.String(),
		Name:         sub.Name.String(),
		Status:       domain.StatusPendingConfirmation,
		SubscribedAt: s.now(),
	}
	if err := s.repo.InsertSubscription(ctx, record); err != nil {
		s.log.Error("inserting subscription", "subscriber_email", record.Email, "error", err)
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	// The token must be durable before the email goes out; a link that
	// cannot be exchanged is worse than no email at all.
	token := s.tokens.Generate()
	if err := s.repo.InsertToken(ctx, token, record.ID); err != nil {
		s.log.Error("inserting confirmation token", "subscription_id", record.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	if err := s.email.Send(ctx, sub.Email, confirmationSubject, confirmationHTML(link), confirmationText(link)); err != nil {
		s.log.Error("sending confirmation email", "subscriber_email", record.Email, "error", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}

	s.log.Info("new pending subscription", "subscription_id", record.ID, "subscriber_email", record.Email)
	return nil
}

// Confirm exchanges a token for the pending_confirmation → confirmed
// transition. Idempotent: confirming an already-confirmed subscription
// succeeds. Every lookup miss is ErrUnknownToken, undifferentiated.
func (s *Service) Confirm(ctx context.Context, token string) error {
	id, found, err := s.repo.FindSubscriptionIDByToken(ctx, domain.ConfirmationToken(token))
	if err != nil {
		s.log.Error("looking up confirmation token", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !found {
		return ErrUnknownToken
	}

	if err := s.repo.ConfirmSubscription(ctx, id); err != nil {
		s.log.Error("confirming subscription", "subscription_id", id, "error", err)
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.log.Info("subscription confirmed", "subscription_id", id)
	return nil
}

const confirmationSubject = "Please confirm your subscription"

func confirmationHTML(link string) string {
	return fmt.Sprintf(
		"Welcome to our newsletter!<br />Click <a href=\"%s\">here</a> to confirm your subscription.",
		link,
	)
}

func confirmationText(link string) string {
	return fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		link,
	)
}
