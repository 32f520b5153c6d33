package coach

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
	"github.com/nexuscoach/nexuscoach/internal/llm"
	"github.com/nexuscoach/nexuscoach/internal/nlu"
)

// replyInput is everything the cascade needs for one turn.
type replyInput struct {
	State       domain.GameState
	Intent      string
	History     []domain.TurnRecord
	Advice      []string
	Corrections []domain.Correction
	Locale      string
	UserText    string
}

// generateReply walks the reply cascade in strict order and returns the
// first applicable reply. The generative provider goes first; every
// failure there degrades silently to the deterministic steps.
func (s *Service) generateReply(ctx context.Context, in replyInput) string {
	if reply := s.llmReply(ctx, in); reply != "" {
		return reply
	}

	locale := in.Locale
	state := in.State

	switch in.Intent {
	case nlu.IntentBuild:
		return i18n.Message(locale, "build_defensive", nil)
	case nlu.IntentAllIn:
		if state.GamePhase == domain.PhaseEarly {
			return i18n.Message(locale, "all_in_early", nil)
		}
		return i18n.Message(locale, "all_in_advantage", nil)
	case nlu.IntentObjective:
		return i18n.Message(locale, "objective", nil)
	case nlu.IntentMacro:
		return i18n.Message(locale, "macro", nil)
	case nlu.IntentFollowUp:
		if state.LastReply != "" {
			return i18n.Message(locale, "follow_up", i18n.Params{"last_reply": state.LastReply})
		}
	}

	itemIntent := in.Intent == nlu.IntentBuild || in.Intent == nlu.IntentGeneral

	if itemIntent && state.LastEnemyItem != nil &&
		state.LastEnemyItem.Champion != "" && state.LastEnemyItem.Item != "" {
		return i18n.Message(locale, "enemy_item", i18n.Params{
			"champion": state.LastEnemyItem.Champion,
			"item":     state.LastEnemyItem.Item,
		})
	}

	if itemIntent && state.LastSelfItem != "" {
		return i18n.Message(locale, "self_item", i18n.Params{"item": state.LastSelfItem})
	}

	if len(in.Advice) > 0 {
		return in.Advice[0]
	}

	if state.Champion != "" && state.Enemy != "" && state.Lane != "" {
		return i18n.Message(locale, "matchup", i18n.Params{
			"champion": state.Champion,
			"enemy":    state.Enemy,
			"lane":     state.Lane,
			"context":  contextHint(state, locale),
		})
	}

	if state.LastReply != "" {
		return i18n.Message(locale, "continue_strategy", i18n.Params{"last_reply": state.LastReply})
	}

	return i18n.Message(locale, "need_context", nil)
}

func (s *Service) llmReply(ctx context.Context, in replyInput) string {
	ctx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	reply, err := s.generator.Generate(ctx, llm.PromptContext{
		State:       in.State,
		Intent:      in.Intent,
		History:     in.History,
		Advice:      in.Advice,
		Corrections: in.Corrections,
		Locale:      in.Locale,
		UserText:    in.UserText,
	})
	if err != nil {
		slog.Warn("generative reply failed", "provider", s.generator.Name(), "error", err)
		return ""
	}
	return strings.TrimSpace(reply)
}

// contextHint renders the optional parenthesized clause for the matchup
// template from gold, status, and phase.
func contextHint(state domain.GameState, locale string) string {
	english := i18n.IsEnglish(locale)

	var bits []string
	if state.Gold != nil {
		if english {
			bits = append(bits, strconv.Itoa(*state.Gold)+" gold")
		} else {
			bits = append(bits, strconv.Itoa(*state.Gold)+" de ouro")
		}
	}
	switch state.Status {
	case domain.StatusAhead:
		if english {
			bits = append(bits, "ahead")
		} else {
			bits = append(bits, "na frente")
		}
	case domain.StatusBehind:
		if english {
			bits = append(bits, "behind")
		} else {
			bits = append(bits, "atrás")
		}
	case domain.StatusEven:
		if english {
			bits = append(bits, "even")
		} else {
			bits = append(bits, "empatado")
		}
	}
	switch state.GamePhase {
	case domain.PhaseEarly, domain.PhaseMid, domain.PhaseLate:
		bits = append(bits, state.GamePhase)
	}

	if len(bits) == 0 {
		return ""
	}
	return " (" + strings.Join(bits, ", ") + ")"
}

// defaultLLMTimeout bounds the generative call so a slow provider
// degrades to the template cascade instead of stalling the turn.
const defaultLLMTimeout = 10 * time.Second
