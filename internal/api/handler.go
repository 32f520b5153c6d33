// Package api provides HTTP handlers for the NexusCoach API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/nexuscoach/nexuscoach/internal/coach"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
	"github.com/nexuscoach/nexuscoach/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	svc  *coach.Service
	repo store.Repository
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(svc *coach.Service, repo store.Repository) *Handler {
	return &Handler{svc: svc, repo: repo}
}

// errorPayload is the error half of the response envelope.
type errorPayload struct {
	Code          string `json:"code"`
	UserMessage   string `json:"user_message"`
	CorrelationID string `json:"correlation_id"`
}

// OK writes the success envelope {ok: true, data}.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}

// Fail writes the error envelope with a fresh correlation id.
func Fail(w http.ResponseWriter, status int, code, userMessage string) {
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": errorPayload{
			Code:          code,
			UserMessage:   userMessage,
			CorrelationID: uuid.NewString(),
		},
	})
}

// FailErr maps an error to the envelope. CoachErrors keep their code
// and status; anything else becomes a logged internal error.
func FailErr(w http.ResponseWriter, err error) {
	var coachErr *domain.CoachError
	if errors.As(err, &coachErr) {
		slog.Warn("request failed", "code", coachErr.Code)
		Fail(w, coachErr.Status, coachErr.Code, coachErr.UserMessage)
		return
	}
	slog.Error("unhandled error", "error", err)
	Fail(w, http.StatusInternalServerError, domain.CodeInternalError,
		i18n.Message("", "internal_error", nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"ok":false}`, http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
