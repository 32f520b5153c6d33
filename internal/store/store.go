// Package store provides durable persistence for ended sessions, the
// advice bank, corrections, and the synced game reference data.
package store

import (
	"context"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// StoredTurn is a durably logged turn together with its session id.
type StoredTurn struct {
	SessionID string            `json:"session_id"`
	Turn      domain.TurnRecord `json:"turn"`
}

// Repository is the durable store contract. All write failures on the
// turn path are logged and swallowed by callers; reads that fail degrade
// to empty results.
type Repository interface {
	// LogSessionEnd durably records an ended session and, when feedback
	// is present, reinforces the advice bank from its history (+1/-1
	// additive counters keyed by the composite advice key).
	LogSessionEnd(ctx context.Context, session *domain.Session, feedback *domain.Feedback) error

	// SaveTurn appends one completed turn to the durable turn log.
	SaveTurn(ctx context.Context, sessionID, locale string, turn domain.TurnRecord) error

	// SessionTurns returns the logged turns for one session, oldest first.
	SessionTurns(ctx context.Context, sessionID string, limit int) ([]StoredTurn, error)

	// RecentTurns returns the most recently logged turns across sessions.
	RecentTurns(ctx context.Context, limit int) ([]StoredTurn, error)

	// QueryAdviceCandidates returns advice rows already filtered to the
	// subset relevant to the state and intent. Ranking happens in the
	// advice package, not here.
	QueryAdviceCandidates(ctx context.Context, state domain.GameState, intent string, limit int) ([]domain.AdviceRecord, error)

	// SaveCorrection stores a factual amendment. A duplicate for the
	// same (champion, ability, topic) and normalized correct_info bumps
	// confidence instead of inserting. Returns true when a row was
	// inserted or reinforced.
	SaveCorrection(ctx context.Context, correction domain.Correction) (bool, error)

	// Corrections returns amendments for a champion, most confident first.
	Corrections(ctx context.Context, champion string, limit int) ([]domain.Correction, error)

	// ChampionInfo returns the reference record for a champion, matched
	// by name or alias. Nil when unknown.
	ChampionInfo(ctx context.Context, name string) (*domain.ChampionInfo, error)

	// ChampionAbilities returns abilities in passive/q/w/e/r order.
	ChampionAbilities(ctx context.Context, name string) ([]domain.Ability, error)

	// ChampionWinrate returns the latest winrate snapshot, optionally
	// pinned to a position; otherwise the most-picked position wins.
	ChampionWinrate(ctx context.Context, name, position string) (*domain.Winrate, error)

	// ItemInfo returns one item by exact, normalized, or fuzzy name.
	ItemInfo(ctx context.Context, name string) (*domain.Item, error)

	// ItemsByCategory lists items in a category, most expensive first.
	ItemsByCategory(ctx context.Context, category string, limit int) ([]domain.Item, error)

	// CounterItems lists items answering the composition filter flags.
	CounterItems(ctx context.Context, filter domain.CounterItemFilter) ([]domain.Item, error)

	// MatchupTips returns curated guidance for a champion/enemy pairing.
	MatchupTips(ctx context.Context, champion, enemy, lane string) (*domain.MatchupTips, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying database.
	Close() error
}
