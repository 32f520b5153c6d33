package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/nexuscoach/nexuscoach/internal/coach"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
)

// wsTurnTimeout bounds one turn processed over the socket.
const wsTurnTimeout = 30 * time.Second

// WebSocketHandler serves the live coaching channel: the client streams
// utterances as JSON messages and receives replies on the same socket.
type WebSocketHandler struct {
	svc           *coach.Service
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(svc *coach.Service, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsMessage is one client frame.
type wsMessage struct {
	Type string `json:"type"` // "turn" | "ping"
	Text string `json:"text,omitempty"`
}

// wsReply is one server frame.
type wsReply struct {
	Type         string            `json:"type"` // "reply" | "error" | "pong"
	ReplyText    string            `json:"reply_text,omitempty"`
	UpdatedState *domain.GameState `json:"updated_state,omitempty"`
	SuggestedTTS *coach.TTS        `json:"suggested_tts,omitempty"`
	Code         string            `json:"code,omitempty"`
	UserMessage  string            `json:"user_message,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	slog.Info("WebSocket connection request", "session_id", sessionID, "ip", r.RemoteAddr)

	opts := &websocket.AcceptOptions{}
	if h.isDev {
		opts.OriginPatterns = []string{"*"}
	} else if h.allowedOrigin != "" {
		opts.OriginPatterns = []string{h.allowedOrigin}
	}

	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("WebSocket close error", "error", closeErr)
		}
	}()

	h.readLoop(r.Context(), ws, sessionID)
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sessionID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.writeReply(ws, wsReply{
				Type:        "error",
				Code:        domain.CodeBadRequest,
				UserMessage: "invalid message",
			})
			continue
		}

		switch msg.Type {
		case "ping":
			h.writeReply(ws, wsReply{Type: "pong"})
		case "turn":
			h.handleTurn(ctx, ws, sessionID, msg.Text)
		default:
			h.writeReply(ws, wsReply{
				Type:        "error",
				Code:        domain.CodeBadRequest,
				UserMessage: "unknown message type",
			})
		}
	}
}

func (h *WebSocketHandler) handleTurn(ctx context.Context, ws *websocket.Conn, sessionID, text string) {
	turnCtx, cancel := context.WithTimeout(ctx, wsTurnTimeout)
	defer cancel()

	resp, err := h.svc.Turn(turnCtx, sessionID, text, nil, domain.StateUpdate{})
	if err != nil {
		var coachErr *domain.CoachError
		if errors.As(err, &coachErr) {
			h.writeReply(ws, wsReply{
				Type:        "error",
				Code:        coachErr.Code,
				UserMessage: coachErr.UserMessage,
			})
			return
		}
		slog.Error("WebSocket turn failed", "error", err, "session_id", sessionID)
		h.writeReply(ws, wsReply{
			Type:        "error",
			Code:        domain.CodeInternalError,
			UserMessage: i18n.Message("", "internal_error", nil),
		})
		return
	}

	h.writeReply(ws, wsReply{
		Type:         "reply",
		ReplyText:    resp.ReplyText,
		UpdatedState: &resp.UpdatedState,
		SuggestedTTS: &resp.SuggestedTTS,
	})
}

func (h *WebSocketHandler) writeReply(ws *websocket.Conn, reply wsReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("Failed to marshal WebSocket reply", "error", err)
		return
	}
	if err := ws.Write(context.Background(), websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}
