package coach

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
	"github.com/nexuscoach/nexuscoach/internal/llm"
	"github.com/nexuscoach/nexuscoach/internal/session"
	"github.com/nexuscoach/nexuscoach/internal/store"
	"github.com/nexuscoach/nexuscoach/internal/stt"
)

// fakeRepo is an in-memory Repository for pipeline tests.
type fakeRepo struct {
	mu         sync.Mutex
	advice     []domain.AdviceRecord
	savedTurns []store.StoredTurn
	endedIDs   []string
	champions  map[string]*domain.ChampionInfo
}

func (f *fakeRepo) LogSessionEnd(_ context.Context, s *domain.Session, _ *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endedIDs = append(f.endedIDs, s.ID)
	return nil
}

func (f *fakeRepo) SaveTurn(_ context.Context, sessionID, _ string, turn domain.TurnRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedTurns = append(f.savedTurns, store.StoredTurn{SessionID: sessionID, Turn: turn})
	return nil
}

func (f *fakeRepo) SessionTurns(context.Context, string, int) ([]store.StoredTurn, error) {
	return nil, nil
}

func (f *fakeRepo) RecentTurns(context.Context, int) ([]store.StoredTurn, error) {
	return nil, nil
}

func (f *fakeRepo) QueryAdviceCandidates(context.Context, domain.GameState, string, int) ([]domain.AdviceRecord, error) {
	return f.advice, nil
}

func (f *fakeRepo) SaveCorrection(context.Context, domain.Correction) (bool, error) {
	return true, nil
}

func (f *fakeRepo) Corrections(context.Context, string, int) ([]domain.Correction, error) {
	return nil, nil
}

func (f *fakeRepo) ChampionInfo(_ context.Context, name string) (*domain.ChampionInfo, error) {
	return f.champions[name], nil
}

func (f *fakeRepo) ChampionAbilities(context.Context, string) ([]domain.Ability, error) {
	return nil, nil
}

func (f *fakeRepo) ChampionWinrate(context.Context, string, string) (*domain.Winrate, error) {
	return nil, nil
}

func (f *fakeRepo) ItemInfo(context.Context, string) (*domain.Item, error) { return nil, nil }

func (f *fakeRepo) ItemsByCategory(context.Context, string, int) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeRepo) CounterItems(context.Context, domain.CounterItemFilter) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeRepo) MatchupTips(context.Context, string, string, string) (*domain.MatchupTips, error) {
	return nil, nil
}

func (f *fakeRepo) Ping(context.Context) error { return nil }
func (f *fakeRepo) Close() error               { return nil }

func intScore(n int) *int { return &n }

func newTestService(repo *fakeRepo) *Service {
	return NewService(session.NewManager(20), repo, llm.Disabled{}, stt.Disabled{}, Options{})
}

func TestTurn_FullPipeline(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{}, "pt-BR")

	resp, err := svc.Turn(context.Background(), sess.ID, "estou com Yasuo mid contra Zed", nil, domain.StateUpdate{})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}

	if resp.UpdatedState.Champion != "yasuo" || resp.UpdatedState.Lane != "mid" || resp.UpdatedState.Enemy != "zed" {
		t.Errorf("state = %+v", resp.UpdatedState)
	}
	if resp.ReplyText == "" {
		t.Error("expected a reply")
	}
	if resp.SuggestedTTS.Rate != 1.0 || resp.SuggestedTTS.Voice != "pt-BR" {
		t.Errorf("tts = %+v", resp.SuggestedTTS)
	}
	if len(repo.savedTurns) != 1 || repo.savedTurns[0].SessionID != sess.ID {
		t.Errorf("saved turns = %+v", repo.savedTurns)
	}
}

func TestTurn_ChampionWriteOnceAcrossTurns(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{Champion: "yasuo", Lane: "mid"}, "pt-BR")

	resp, err := svc.Turn(context.Background(), sess.ID, "agora to jogando de zed", nil, domain.StateUpdate{})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}
	if resp.UpdatedState.Champion != "yasuo" {
		t.Errorf("champion = %q, want yasuo (locked at session start)", resp.UpdatedState.Champion)
	}
}

func TestTurn_ResponseStateDetachedFromSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{Champion: "yasuo", Lane: "mid"}, "pt-BR")

	first, err := svc.Turn(context.Background(), sess.ID, "zed fechou yomuu", nil, domain.StateUpdate{})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}
	if got := len(first.UpdatedState.EnemyItems["zed"]); got != 1 {
		t.Fatalf("zed items = %d, want 1", got)
	}

	// A later turn must not mutate the state already handed out.
	if _, err := svc.Turn(context.Background(), sess.ID, "zed fechou gume da noite", nil, domain.StateUpdate{}); err != nil {
		t.Fatalf("second Turn failed: %v", err)
	}
	if got := len(first.UpdatedState.EnemyItems["zed"]); got != 1 {
		t.Errorf("first response mutated by later turn, zed items = %d, want 1", got)
	}
}

func TestTurn_EmptyTextIsUnclear(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	sess := svc.StartSession(domain.StateUpdate{}, "pt-BR")

	_, err := svc.Turn(context.Background(), sess.ID, "   ", nil, domain.StateUpdate{})
	coachErr, ok := err.(*domain.CoachError)
	if !ok || coachErr.Code != domain.CodeSTTUnclear {
		t.Fatalf("err = %v, want STT_UNCLEAR", err)
	}

	// No state mutation and no persisted turn for discarded input.
	if len(svc.sessions.Get(sess.ID).History) != 0 {
		t.Error("discarded input appended to history")
	}
}

func TestTurn_UnknownSession(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	_, err := svc.Turn(context.Background(), "missing", "oi", nil, domain.StateUpdate{})
	coachErr, ok := err.(*domain.CoachError)
	if !ok || coachErr.Code != domain.CodeSessionNotFound {
		t.Fatalf("err = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestTurn_AdviceSurfacesInReply(t *testing.T) {
	repo := &fakeRepo{advice: []domain.AdviceRecord{
		{Champion: "yasuo", ReplyText: "ward no rio antes de trocar", Score: 5},
	}}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{Champion: "yasuo"}, "pt-BR")

	// "general" intent with no item events falls to the advice step.
	resp, err := svc.Turn(context.Background(), sess.ID, "me ajuda nessa partida", nil, domain.StateUpdate{})
	if err != nil {
		t.Fatalf("Turn failed: %v", err)
	}
	if resp.ReplyText != "ward no rio antes de trocar" {
		t.Errorf("reply = %q, want the stored advice", resp.ReplyText)
	}
}

func TestEndSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{}, "pt-BR")

	if err := svc.EndSession(context.Background(), sess.ID, nil); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if len(repo.endedIDs) != 1 || repo.endedIDs[0] != sess.ID {
		t.Errorf("logged sessions = %v", repo.endedIDs)
	}

	err := svc.EndSession(context.Background(), sess.ID, nil)
	coachErr, ok := err.(*domain.CoachError)
	if !ok || coachErr.Code != domain.CodeSessionNotFound {
		t.Fatalf("second end: err = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestAnalyzeSession(t *testing.T) {
	repo := &fakeRepo{champions: map[string]*domain.ChampionInfo{
		"malzahar": {Name: "malzahar", Roles: []string{domain.RoleMage}, Damage: intScore(8), Survivability: intScore(3)},
	}}
	svc := newTestService(repo)
	sess := svc.StartSession(domain.StateUpdate{}, "pt-BR")

	if _, err := svc.Turn(context.Background(), sess.ID, "malzahar ta forte", nil, domain.StateUpdate{}); err != nil {
		t.Fatalf("Turn failed: %v", err)
	}

	report, err := svc.AnalyzeSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("AnalyzeSession failed: %v", err)
	}
	if report.Analysis.DamageMagic != 8 {
		t.Errorf("magic damage = %d, want 8", report.Analysis.DamageMagic)
	}
	if len(report.Analysis.Threats) != 1 {
		t.Errorf("threats = %v", report.Analysis.Threats)
	}
}

func TestGenerateReply_BuildTemplateDeterministic(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	in := replyInput{
		State:  domain.GameState{GamePhase: domain.PhaseEarly},
		Intent: "build",
		Locale: "pt-BR",
	}

	want := i18n.Message("pt-BR", "build_defensive", nil)
	for i := 0; i < 5; i++ {
		if got := svc.generateReply(context.Background(), in); got != want {
			t.Fatalf("run %d: reply = %q, want %q", i, got, want)
		}
	}
}

func TestGenerateReply_AllInPhaseSplit(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	early := svc.generateReply(context.Background(), replyInput{
		State: domain.GameState{GamePhase: domain.PhaseEarly}, Intent: "all_in", Locale: "pt-BR",
	})
	if early != i18n.Message("pt-BR", "all_in_early", nil) {
		t.Errorf("early reply = %q", early)
	}

	late := svc.generateReply(context.Background(), replyInput{
		State: domain.GameState{GamePhase: domain.PhaseLate}, Intent: "all_in", Locale: "pt-BR",
	})
	if late != i18n.Message("pt-BR", "all_in_advantage", nil) {
		t.Errorf("late reply = %q", late)
	}
}

func TestGenerateReply_FollowUpWithoutLastReplyFallsThrough(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	got := svc.generateReply(context.Background(), replyInput{
		State:  domain.GameState{},
		Intent: "follow_up",
		Locale: "pt-BR",
	})
	if got != i18n.Message("pt-BR", "need_context", nil) {
		t.Errorf("reply = %q, want need_context fallback", got)
	}
}

func TestGenerateReply_EnemyItemStep(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	got := svc.generateReply(context.Background(), replyInput{
		State: domain.GameState{
			LastEnemyItem: &domain.ItemEvent{Champion: "zed", Item: "yomuu", Status: domain.ItemHas},
		},
		Intent: "general",
		Locale: "pt-BR",
	})
	if !strings.Contains(got, "zed") || !strings.Contains(got, "yomuu") {
		t.Errorf("reply = %q, want enemy item reference", got)
	}
}

func TestGenerateReply_MatchupTemplateWithContext(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	gold := 2500

	got := svc.generateReply(context.Background(), replyInput{
		State: domain.GameState{
			Champion:  "yasuo",
			Enemy:     "zed",
			Lane:      "mid",
			Gold:      &gold,
			Status:    domain.StatusAhead,
			GamePhase: domain.PhaseMid,
		},
		Intent: "general",
		Locale: "pt-BR",
	})
	if !strings.Contains(got, "yasuo vs zed na mid (2500 de ouro, na frente, mid)") {
		t.Errorf("reply = %q", got)
	}
}

func TestGenerateReply_ContinueStrategyAndNeedContext(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	withLast := svc.generateReply(context.Background(), replyInput{
		State:  domain.GameState{LastReply: "faz ward"},
		Intent: "general",
		Locale: "pt-BR",
	})
	if !strings.Contains(withLast, "faz ward") {
		t.Errorf("reply = %q, want continuation of last reply", withLast)
	}

	bare := svc.generateReply(context.Background(), replyInput{Intent: "general", Locale: "pt-BR"})
	if bare != i18n.Message("pt-BR", "need_context", nil) {
		t.Errorf("reply = %q, want need_context", bare)
	}
}
