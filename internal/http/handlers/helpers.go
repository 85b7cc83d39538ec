package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/slack-go/slack"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, draw.ErrInsufficientPlayers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, draw.ErrEmptyGuestName):
		return http.StatusBadRequest
	case errors.Is(err, matchmaking.ErrAttendeeNotFound), errors.Is(err, club.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, matchmaking.ErrAlreadyAttending), errors.Is(err, matchmaking.ErrMemberInactive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// decodeBody reads a JSON request body into v and answers 400 when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("Invalid request body", "error", err, "url", r.URL.String())
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithJSON(w, http.StatusOK, slackMsg)
}
