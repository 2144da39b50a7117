package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"ieee-quiz-service/internal/domain"
)

type errorPayload struct {
	Error       string     `json:"error"`
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// writeError maps domain errors to HTTP statuses; anything unknown is a 500.
func writeError(w http.ResponseWriter, err error) {
	var attempted *domain.AlreadyAttemptedError
	switch {
	case errors.As(err, &attempted):
		at := attempted.LastAttempt
		writeJSON(w, http.StatusTooManyRequests, errorPayload{Error: domain.ErrAlreadyAttemptedToday.Error(), LastAttempt: &at})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorPayload{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Error: domain.ErrUserNotFound.Error()})
	case errors.Is(err, domain.ErrMalformedSubmission):
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: domain.ErrMalformedSubmission.Error()})
	case errors.Is(err, domain.ErrInvalidRegistration):
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: domain.ErrInvalidRegistration.Error()})
	case errors.Is(err, domain.ErrUserExists):
		writeJSON(w, http.StatusConflict, errorPayload{Error: domain.ErrUserExists.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "Internal server error"})
	}
}
