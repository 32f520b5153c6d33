// Package coach runs the dialogue-turn pipeline: extraction, state
// merge, advice ranking, and the reply strategy cascade.
package coach

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nexuscoach/nexuscoach/internal/advice"
	"github.com/nexuscoach/nexuscoach/internal/analysis"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
	"github.com/nexuscoach/nexuscoach/internal/llm"
	"github.com/nexuscoach/nexuscoach/internal/nlu"
	"github.com/nexuscoach/nexuscoach/internal/session"
	"github.com/nexuscoach/nexuscoach/internal/store"
	"github.com/nexuscoach/nexuscoach/internal/stt"
)

const (
	adviceCandidateLimit = 50
	adviceQueryTimeout   = 2 * time.Second
	persistTimeout       = 5 * time.Second
)

// Service is the coaching engine behind the HTTP and websocket surfaces.
type Service struct {
	sessions    *session.Manager
	repo        store.Repository
	generator   llm.Generator
	transcriber stt.Transcriber
	topK        int
	llmTimeout  time.Duration
}

// Options tunes the service beyond its collaborators.
type Options struct {
	AdviceTopK int
	LLMTimeout time.Duration
}

// NewService wires the pipeline together.
func NewService(sessions *session.Manager, repo store.Repository, generator llm.Generator, transcriber stt.Transcriber, opts Options) *Service {
	if opts.AdviceTopK <= 0 {
		opts.AdviceTopK = advice.DefaultTopK
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}
	return &Service{
		sessions:    sessions,
		repo:        repo,
		generator:   generator,
		transcriber: transcriber,
		topK:        opts.AdviceTopK,
		llmTimeout:  opts.LLMTimeout,
	}
}

// TTS is the suggested speech-synthesis hint attached to each reply.
type TTS struct {
	Rate  float64 `json:"rate"`
	Voice string  `json:"voice"`
}

// TurnResponse is the result of one processed turn.
type TurnResponse struct {
	ReplyText    string           `json:"reply_text"`
	UpdatedState domain.GameState `json:"updated_state"`
	SuggestedTTS TTS              `json:"suggested_tts"`
}

// StartSession creates a live session seeded with the caller's initial
// context. Champion and lane given here are locked for the session.
func (s *Service) StartSession(initial domain.StateUpdate, locale string) *domain.Session {
	sess := s.sessions.Create(initial, locale)
	slog.Info("session started",
		"session_id", sess.ID,
		"locale", sess.Locale,
		"champion", sess.State.Champion,
		"lane", sess.State.Lane)
	return sess
}

// Turn processes one text utterance for a session.
func (s *Service) Turn(ctx context.Context, sessionID, text string, timestamp *time.Time, hint domain.StateUpdate) (*TurnResponse, error) {
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		return nil, domain.ErrSessionNotFound(i18n.Message("", "session_not_found", nil))
	}
	return s.processTurn(ctx, sess.ID, sess.Locale, text, timestamp, hint)
}

// TurnAudio transcribes a voice clip and runs it through the same turn
// pipeline as text.
func (s *Service) TurnAudio(ctx context.Context, sessionID string, audio []byte, locale string) (*TurnResponse, error) {
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		return nil, domain.ErrSessionNotFound(i18n.Message("", "session_not_found", nil))
	}
	if locale == "" {
		locale = sess.Locale
	}
	if len(audio) == 0 {
		return nil, domain.ErrUnclearInput(i18n.Message(locale, "stt_unclear", nil))
	}

	text, err := s.transcriber.Transcribe(ctx, audio, locale)
	if err != nil {
		return nil, err
	}
	return s.processTurn(ctx, sess.ID, sess.Locale, text, nil, domain.StateUpdate{})
}

func (s *Service) processTurn(ctx context.Context, sessionID, locale, text string, timestamp *time.Time, hint domain.StateUpdate) (*TurnResponse, error) {
	textClean := strings.TrimSpace(text)
	if textClean == "" {
		return nil, domain.ErrUnclearInput(i18n.Message(locale, "stt_unclear", nil))
	}

	normalized := nlu.Normalize(textClean)
	update := nlu.ExtractStateHints(normalized)
	items := nlu.ExtractItemHints(normalized)
	update.SelfItem = items.SelfItem
	update.EnemyItem = items.EnemyItem

	turnAt := time.Now().UTC()
	if timestamp != nil {
		turnAt = timestamp.UTC()
	}

	var response *TurnResponse
	var record domain.TurnRecord

	found, err := s.sessions.WithTurn(sessionID, func(sess *domain.Session) error {
		session.MergeState(&sess.State, hint)
		session.MergeState(&sess.State, update)
		sess.State.LastUserText = textClean

		intent := nlu.InferIntent(normalized)
		ranked := s.rankedAdvice(ctx, sess.State, intent)

		reply := s.generateReply(ctx, replyInput{
			State:       sess.State,
			Intent:      intent,
			History:     sess.History,
			Advice:      ranked,
			Corrections: s.corrections(ctx, sess.State),
			Locale:      sess.Locale,
			UserText:    textClean,
		})

		sess.State.LastIntent = intent
		sess.State.LastReply = reply

		record = domain.TurnRecord{
			Text:      textClean,
			Reply:     reply,
			Intent:    intent,
			Context:   sess.Snapshot(),
			Timestamp: turnAt,
		}
		s.sessions.AppendHistory(sess, record)

		response = &TurnResponse{
			ReplyText:    reply,
			UpdatedState: sess.State.Clone(),
			SuggestedTTS: TTS{Rate: 1.0, Voice: sess.Locale},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionNotFound(i18n.Message(locale, "session_not_found", nil))
	}

	s.persistTurn(sessionID, locale, record)
	return response, nil
}

// rankedAdvice queries the advice bank and ranks candidates against the
// current context. Read failures degrade to no advice.
func (s *Service) rankedAdvice(ctx context.Context, state domain.GameState, intent string) []string {
	ctx, cancel := context.WithTimeout(ctx, adviceQueryTimeout)
	defer cancel()

	candidates, err := s.repo.QueryAdviceCandidates(ctx, state, intent, adviceCandidateLimit)
	if err != nil {
		slog.Warn("advice query failed", "error", err)
		return nil
	}
	return advice.Rank(candidates, state, intent, s.topK)
}

// corrections loads verified facts about the champions in play for the
// generative prompt. Failures degrade to none.
func (s *Service) corrections(ctx context.Context, state domain.GameState) []domain.Correction {
	if s.generator.Name() == "disabled" {
		return nil
	}

	var out []domain.Correction
	for _, champion := range []string{state.Champion, state.Enemy} {
		if champion == "" {
			continue
		}
		found, err := s.repo.Corrections(ctx, champion, 3)
		if err != nil {
			slog.Warn("corrections lookup failed", "champion", champion, "error", err)
			continue
		}
		out = append(out, found...)
	}
	return out
}

// persistTurn durably logs a completed turn. Failures never fail the
// turn that produced them.
func (s *Service) persistTurn(sessionID, locale string, record domain.TurnRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.repo.SaveTurn(ctx, sessionID, locale, record); err != nil {
		slog.Warn("failed to persist turn", "session_id", sessionID, "error", err)
	}
}

// EndSession removes the session from the live store and durably logs
// it together with optional feedback.
func (s *Service) EndSession(ctx context.Context, sessionID string, feedback *domain.Feedback) error {
	sess := s.sessions.End(sessionID)
	if sess == nil {
		return domain.ErrSessionNotFound(i18n.Message("", "session_already_ended", nil))
	}

	if err := s.repo.LogSessionEnd(ctx, sess, feedback); err != nil {
		slog.Warn("failed to log session end", "session_id", sessionID, "error", err)
	}
	slog.Info("session ended", "session_id", sessionID, "turns", len(sess.History))
	return nil
}

// CompositionReport is the enemy-team analysis for a live session.
type CompositionReport struct {
	SessionID    string                `json:"session_id"`
	Analysis     analysis.TeamAnalysis `json:"analysis"`
	CounterItems []domain.Item         `json:"counter_items"`
}

// AnalyzeSession derives team-composition signals from the session's
// known enemies and suggests counter items for them.
func (s *Service) AnalyzeSession(ctx context.Context, sessionID string) (*CompositionReport, error) {
	state, ok := s.sessions.StateSnapshot(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound(i18n.Message("", "session_not_found", nil))
	}

	result := analysis.AnalyzeComposition(state.Enemies, s.infoSource(ctx))
	report := &CompositionReport{SessionID: sessionID, Analysis: result}

	items, err := s.repo.CounterItems(ctx, result.CounterFilter())
	if err != nil {
		slog.Warn("counter item lookup failed", "session_id", sessionID, "error", err)
	} else {
		report.CounterItems = items
	}
	return report, nil
}

// infoSource adapts the repository to the analyzer's lookup interface,
// swallowing read errors into "unknown champion".
func (s *Service) infoSource(ctx context.Context) analysis.ChampionInfoSource {
	return championInfoFunc(func(name string) *domain.ChampionInfo {
		info, err := s.repo.ChampionInfo(ctx, name)
		if err != nil {
			slog.Warn("champion info lookup failed", "champion", name, "error", err)
			return nil
		}
		return info
	})
}

type championInfoFunc func(name string) *domain.ChampionInfo

func (f championInfoFunc) ChampionInfo(name string) *domain.ChampionInfo { return f(name) }
