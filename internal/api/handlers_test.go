package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/ratelimit"
	"github.com/ignite/newsletter/internal/service/subscription"
	"github.com/ignite/newsletter/internal/token"
)

// memRepo is an in-memory subscription.Repository for handler tests.
type memRepo struct {
	mu     sync.Mutex
	subs   map[string]*domain.Subscription
	tokens map[domain.ConfirmationToken]uuid.UUID
}

func newMemRepo() *memRepo {
	return &memRepo{
		subs:   make(map[string]*domain.Subscription),
		tokens: make(map[domain.ConfirmationToken]uuid.UUID),
	}
}

func (m *memRepo) InsertSubscription(_ context.Context, sub *domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.subs[sub.Email]; ok {
		sub.ID = existing.ID
		return nil
	}
	copied := *sub
	m.subs[sub.Email] = &copied
	return nil
}

func (m *memRepo) InsertToken(_ context.Context, tok domain.ConfirmationToken, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tok] = id
	return nil
}

func (m *memRepo) FindSubscriptionIDByToken(_ context.Context, tok domain.ConfirmationToken) (uuid.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[tok]
	return id, ok, nil
}

func (m *memRepo) ConfirmSubscription(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.ID == id {
			sub.Status = domain.StatusConfirmed
			return nil
		}
	}
	return errors.New("subscription not found")
}

func (m *memRepo) firstToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok := range m.tokens {
		return string(tok)
	}
	return ""
}

func (m *memRepo) status(email string) domain.SubscriptionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[email]; ok {
		return sub.Status
	}
	return ""
}

// memSender records sends.
type memSender struct {
	mu   sync.Mutex
	sent int
}

func (m *memSender) Send(context.Context, domain.SubscriberEmail, string, string, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func newTestRouter(t *testing.T, limiter *ratelimit.Limiter) (http.Handler, *memRepo, *memSender) {
	t.Helper()
	log := logger.New(logger.ERROR, io.Discard)
	repo := newMemRepo()
	sender := &memSender{}
	svc := subscription.NewService(repo, sender, token.NewGenerator(), "https://newsletter.example.com", log)
	h := NewHandlers(svc, limiter, log)
	return SetupRoutes(h, log), repo, sender
}

func postForm(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleSubscribe_FormEncoded(t *testing.T) {
	router, repo, sender := newTestRouter(t, nil)

	rec := postForm(router, url.Values{
		"name":  {"le guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusPendingConfirmation, repo.status("ursula_le_guin@gmail.com"))
	assert.Equal(t, 1, sender.sent)
}

func TestHandleSubscribe_JSON(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)

	body := `{"name":"le guin","email":"ursula_le_guin@gmail.com"}`
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusPendingConfirmation, repo.status("ursula_le_guin@gmail.com"))
}

func TestHandleSubscribe_InvalidInput(t *testing.T) {
	router, _, sender := newTestRouter(t, nil)

	cases := []url.Values{
		{"name": {""}, "email": {"ursula_le_guin@gmail.com"}},
		{"name": {"Ursula"}, "email": {"not-an-email"}},
		{"name": {"le/guin"}, "email": {"ursula_le_guin@gmail.com"}},
	}
	for _, form := range cases {
		rec := postForm(router, form)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "form: %v", form)
	}
	assert.Equal(t, 0, sender.sent)
}

func TestHandleConfirm_HappyPathAndIdempotence(t *testing.T) {
	router, repo, _ := newTestRouter(t, nil)

	rec := postForm(router, url.Values{
		"name":  {"le guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	tok := repo.firstToken()
	require.NotEmpty(t, tok)

	confirm := func() int {
		req := httptest.NewRequest(http.MethodGet, "/subscriptions/confirm?subscription_token="+tok, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, confirm())
	assert.Equal(t, domain.StatusConfirmed, repo.status("ursula_le_guin@gmail.com"))

	// Idempotent: a second exchange of the same token succeeds.
	assert.Equal(t, http.StatusOK, confirm())
	assert.Equal(t, domain.StatusConfirmed, repo.status("ursula_le_guin@gmail.com"))
}

func TestHandleConfirm_UnknownToken(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	for _, target := range []string{
		"/subscriptions/confirm?subscription_token=not-a-real-token",
		"/subscriptions/confirm", // missing parameter is just as unknown
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "target: %s", target)
	}
}

func TestHandleHealthCheck(t *testing.T) {
	router, _, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health_check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleSubscribe_RateLimited(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := ratelimit.NewLimiter(client, 1, time.Minute)
	router, _, sender := newTestRouter(t, limiter)

	form := url.Values{
		"name":  {"le guin"},
		"email": {"ursula_le_guin@gmail.com"},
	}
	assert.Equal(t, http.StatusOK, postForm(router, form).Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(router, form).Code)
	assert.Equal(t, 1, sender.sent)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{subscription.ErrInvalidInput, http.StatusBadRequest},
		{subscription.ErrUnknownToken, http.StatusUnauthorized},
		{subscription.ErrStorageFailure, http.StatusInternalServerError},
		{subscription.ErrDeliveryFailure, http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapError(tc.err))
	}
}
