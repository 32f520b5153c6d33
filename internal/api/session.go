package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
)

// maxAudioBytes caps a single uploaded voice clip.
const maxAudioBytes = 10 << 20

// CoachHandler handles the session and turn endpoints.
type CoachHandler struct {
	*Handler
}

// NewCoachHandler creates the session/turn handler.
func NewCoachHandler(base *Handler) *CoachHandler {
	return &CoachHandler{Handler: base}
}

// RegisterRoutes registers the coaching routes.
func (h *CoachHandler) RegisterRoutes(r chi.Router) {
	r.Post("/session/start", h.SessionStart)
	r.Post("/session/end", h.SessionEnd)
	r.Post("/turn", h.Turn)
	r.Post("/turn/audio", h.TurnAudio)
}

type initialContext struct {
	Champion string `json:"champion"`
	Lane     string `json:"lane"`
	Enemy    string `json:"enemy,omitempty"`
}

type sessionStartRequest struct {
	DeviceID       string         `json:"device_id"`
	Locale         string         `json:"locale"`
	InitialContext initialContext `json:"initial_context"`
}

// SessionStart creates a live session locked to the given champion and lane.
func (h *CoachHandler) SessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest
	if err := decodeJSON(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}
	if req.Locale == "" {
		req.Locale = "pt-BR"
	}

	session := h.svc.StartSession(domain.StateUpdate{
		Champion: req.InitialContext.Champion,
		Lane:     req.InitialContext.Lane,
		Enemy:    req.InitialContext.Enemy,
	}, req.Locale)

	OK(w, map[string]any{
		"session_id": session.ID,
		"state":      session.State.Clone(),
	})
}

type clientStateHint struct {
	GamePhase string         `json:"game_phase,omitempty"`
	Status    string         `json:"status,omitempty"`
	Gold      *int           `json:"gold,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

type turnRequest struct {
	SessionID       string           `json:"session_id"`
	Text            string           `json:"text"`
	Timestamp       *time.Time       `json:"timestamp,omitempty"`
	ClientStateHint *clientStateHint `json:"client_state_hint,omitempty"`
}

// Turn processes one text utterance.
func (h *CoachHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeJSON(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}

	var hint domain.StateUpdate
	if req.ClientStateHint != nil {
		hint = domain.StateUpdate{
			GamePhase: req.ClientStateHint.GamePhase,
			Status:    req.ClientStateHint.Status,
			Gold:      req.ClientStateHint.Gold,
			Extra:     req.ClientStateHint.Extra,
		}
	}

	resp, err := h.svc.Turn(r.Context(), req.SessionID, req.Text, req.Timestamp, hint)
	if err != nil {
		FailErr(w, err)
		return
	}
	OK(w, resp)
}

// TurnAudio transcribes an uploaded voice clip and processes it as a turn.
func (h *CoachHandler) TurnAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "invalid multipart form")
		return
	}
	sessionID := r.FormValue("session_id")
	locale := r.FormValue("locale")

	file, _, err := r.FormFile("audio")
	if err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "failed to read audio")
		return
	}
	if len(audio) == 0 {
		Fail(w, http.StatusBadRequest, domain.CodeSTTUnclear,
			i18n.Message(locale, "stt_unclear", nil))
		return
	}

	resp, err := h.svc.TurnAudio(r.Context(), sessionID, audio, locale)
	if err != nil {
		FailErr(w, err)
		return
	}
	OK(w, resp)
}

type sessionEndRequest struct {
	SessionID string           `json:"session_id"`
	Feedback  *domain.Feedback `json:"feedback,omitempty"`
}

// SessionEnd removes the session and durably logs it with feedback.
func (h *CoachHandler) SessionEnd(w http.ResponseWriter, r *http.Request) {
	var req sessionEndRequest
	if err := decodeJSON(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}
	if req.Feedback != nil && !req.Feedback.Valid() {
		Fail(w, http.StatusBadRequest, domain.CodeBadRequest, "rating must be good or bad")
		return
	}

	if err := h.svc.EndSession(r.Context(), req.SessionID, req.Feedback); err != nil {
		FailErr(w, err)
		return
	}
	OK(w, map[string]any{"ok": true})
}
