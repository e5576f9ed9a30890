package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ignite/newsletter/internal/service/subscription"
)

// mapError translates the service error taxonomy to an HTTP status. It is
// a pure function kept entirely outside the service layer so the core stays
// transport-agnostic.
func mapError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, subscription.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, subscription.ErrUnknownToken):
		// One undifferentiated status for absent, malformed and consumed
		// tokens; anything finer is a token-enumeration side channel.
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := mapError(err)
	msg := http.StatusText(status)
	if errors.Is(err, subscription.ErrInvalidInput) {
		msg = "invalid name or email"
	}
	writeJSONError(w, status, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
