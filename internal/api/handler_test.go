package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nexuscoach/nexuscoach/internal/coach"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/llm"
	"github.com/nexuscoach/nexuscoach/internal/session"
	"github.com/nexuscoach/nexuscoach/internal/store"
	"github.com/nexuscoach/nexuscoach/internal/stt"
)

// stubRepo satisfies store.Repository with canned reference data.
type stubRepo struct {
	champions map[string]*domain.ChampionInfo
	items     map[string]*domain.Item
}

func (s *stubRepo) LogSessionEnd(context.Context, *domain.Session, *domain.Feedback) error {
	return nil
}

func (s *stubRepo) SaveTurn(context.Context, string, string, domain.TurnRecord) error { return nil }

func (s *stubRepo) SessionTurns(context.Context, string, int) ([]store.StoredTurn, error) {
	return nil, nil
}

func (s *stubRepo) RecentTurns(context.Context, int) ([]store.StoredTurn, error) { return nil, nil }

func (s *stubRepo) QueryAdviceCandidates(context.Context, domain.GameState, string, int) ([]domain.AdviceRecord, error) {
	return nil, nil
}

func (s *stubRepo) SaveCorrection(context.Context, domain.Correction) (bool, error) {
	return true, nil
}

func (s *stubRepo) Corrections(context.Context, string, int) ([]domain.Correction, error) {
	return nil, nil
}

func (s *stubRepo) ChampionInfo(_ context.Context, name string) (*domain.ChampionInfo, error) {
	return s.champions[name], nil
}

func (s *stubRepo) ChampionAbilities(context.Context, string) ([]domain.Ability, error) {
	return nil, nil
}

func (s *stubRepo) ChampionWinrate(context.Context, string, string) (*domain.Winrate, error) {
	return nil, nil
}

func (s *stubRepo) ItemInfo(_ context.Context, name string) (*domain.Item, error) {
	return s.items[name], nil
}

func (s *stubRepo) ItemsByCategory(context.Context, string, int) ([]domain.Item, error) {
	return nil, nil
}

func (s *stubRepo) CounterItems(context.Context, domain.CounterItemFilter) ([]domain.Item, error) {
	return nil, nil
}

func (s *stubRepo) MatchupTips(context.Context, string, string, string) (*domain.MatchupTips, error) {
	return nil, nil
}

func (s *stubRepo) Ping(context.Context) error { return nil }
func (s *stubRepo) Close() error               { return nil }

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *errorPayload   `json:"error"`
}

func newTestRouter(repo *stubRepo) chi.Router {
	svc := coach.NewService(session.NewManager(20), repo, llm.Disabled{}, stt.Disabled{}, coach.Options{})
	base := NewHandler(svc, repo)

	r := chi.NewRouter()
	NewCoachHandler(base).RegisterRoutes(r)
	NewAdminHandler(base).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, env
}

func TestSessionStart(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, env := doJSON(t, router, http.MethodPost, "/session/start",
		`{"device_id":"dev-1","locale":"pt-BR","initial_context":{"champion":"yasuo","lane":"mid"}}`)

	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("status = %d, envelope = %s", rec.Code, rec.Body.String())
	}

	var data struct {
		SessionID string           `json:"session_id"`
		State     domain.GameState `json:"state"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if data.SessionID == "" {
		t.Error("missing session_id")
	}
	if data.State.Champion != "yasuo" || data.State.Lane != "mid" {
		t.Errorf("state = %+v", data.State)
	}
}

func TestSessionStart_BadBody(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, env := doJSON(t, router, http.MethodPost, "/session/start", `{broken`)
	if rec.Code != http.StatusBadRequest || env.OK {
		t.Fatalf("status = %d, envelope = %s", rec.Code, rec.Body.String())
	}
	if env.Error == nil || env.Error.Code != domain.CodeBadRequest {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestTurn_UnknownSessionEnvelope(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, env := doJSON(t, router, http.MethodPost, "/turn",
		`{"session_id":"missing","text":"oi"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.OK || env.Error == nil {
		t.Fatalf("envelope = %s", rec.Body.String())
	}
	if env.Error.Code != domain.CodeSessionNotFound {
		t.Errorf("code = %q", env.Error.Code)
	}
	if env.Error.CorrelationID == "" {
		t.Error("missing correlation_id")
	}
}

func TestSessionFlow_StartTurnEnd(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	_, startEnv := doJSON(t, router, http.MethodPost, "/session/start",
		`{"locale":"pt-BR","initial_context":{"champion":"yasuo","lane":"mid"}}`)
	var start struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(startEnv.Data, &start); err != nil {
		t.Fatalf("invalid start data: %v", err)
	}

	rec, env := doJSON(t, router, http.MethodPost, "/turn",
		`{"session_id":"`+start.SessionID+`","text":"contra zed, qual item?","client_state_hint":{"game_phase":"mid","gold":2500}}`)
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("turn: status = %d, envelope = %s", rec.Code, rec.Body.String())
	}

	var turn coach.TurnResponse
	if err := json.Unmarshal(env.Data, &turn); err != nil {
		t.Fatalf("invalid turn data: %v", err)
	}
	if turn.ReplyText == "" {
		t.Error("empty reply")
	}
	if turn.UpdatedState.Enemy != "zed" {
		t.Errorf("enemy = %q", turn.UpdatedState.Enemy)
	}
	if turn.UpdatedState.GamePhase != domain.PhaseMid {
		t.Errorf("phase = %q, client hint not merged", turn.UpdatedState.GamePhase)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/session/end",
		`{"session_id":"`+start.SessionID+`","feedback":{"rating":"good"}}`)
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("end: status = %d, envelope = %s", rec.Code, rec.Body.String())
	}

	// Ending again reports the session as gone.
	rec, _ = doJSON(t, router, http.MethodPost, "/session/end",
		`{"session_id":"`+start.SessionID+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second end: status = %d, want 404", rec.Code)
	}
}

func TestSessionEnd_InvalidFeedback(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, env := doJSON(t, router, http.MethodPost, "/session/end",
		`{"session_id":"whatever","feedback":{"rating":"meh"}}`)
	if rec.Code != http.StatusBadRequest || env.OK {
		t.Fatalf("status = %d, envelope = %s", rec.Code, rec.Body.String())
	}
}

func TestTurnAudio_EmptyClip(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("session_id", "some-session")
	if _, err := mw.CreateFormFile("audio", "clip.wav"); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/turn/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Error == nil || env.Error.Code != domain.CodeSTTUnclear {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAdminGetChampion(t *testing.T) {
	damage := 8
	repo := &stubRepo{champions: map[string]*domain.ChampionInfo{
		"yasuo": {Name: "yasuo", Roles: []string{domain.RoleFighter}, Damage: &damage},
	}}
	router := newTestRouter(repo)

	rec, env := doJSON(t, router, http.MethodGet, "/admin/champion/yasuo", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("status = %d, envelope = %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, router, http.MethodGet, "/admin/champion/teemo", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != domain.CodeChampionNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAdminGetItem_NotFound(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, env := doJSON(t, router, http.MethodGet, "/admin/item/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != domain.CodeItemNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAdminGetMatchup_MissingParams(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec, _ := doJSON(t, router, http.MethodGet, "/admin/matchup?champion=yasuo", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQueryLimit(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=0", 50},
		{"limit=-3", 50},
		{"limit=9999", 50},
		{"limit=abc", 50},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/turns?"+tc.query, nil)
		if got := queryLimit(req, 50); got != tc.want {
			t.Errorf("queryLimit(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}
