// Package api exposes the subscription workflow over HTTP.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/ratelimit"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Handlers holds the HTTP handlers and their collaborators. The limiter is
// optional; a nil limiter disables intake rate limiting.
type Handlers struct {
	subs    *subscription.Service
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(subs *subscription.Service, limiter *ratelimit.Limiter, log *logger.Logger) *Handlers {
	return &Handlers{subs: subs, limiter: limiter, log: log}
}

// subscribeRequest is a raw, unvalidated submission.
type subscribeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// decodeSubscribeRequest accepts both the browser form encoding and JSON.
func decodeSubscribeRequest(r *http.Request) (subscribeRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req subscribeRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return subscribeRequest{}, err
	}
	return subscribeRequest{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}, nil
}

// HandleSubscribe accepts a sign-up submission: POST /subscriptions.
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		// middleware.RealIP has already rewritten RemoteAddr.
		allowed, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Fail open: intake must not depend on Redis availability.
			h.log.Warn("rate limiter unavailable", "error", err)
		} else if !allowed {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
	}

	req, err := decodeSubscribeRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.subs.Subscribe(r.Context(), req.Name, req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleConfirm activates a pending subscription:
// GET /subscriptions/confirm?subscription_token={token}.
func (h *Handlers) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")

	if err := h.subs.Confirm(r.Context(), token); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleHealthCheck reports liveness: GET /health_check.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
