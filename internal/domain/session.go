// Package domain contains core domain types for the NexusCoach application.
package domain

import (
	"maps"
	"slices"
	"time"
)

// Match phases.
const (
	PhaseEarly = "early"
	PhaseMid   = "mid"
	PhaseLate  = "late"
)

// Advantage statuses.
const (
	StatusAhead  = "ahead"
	StatusBehind = "behind"
	StatusEven   = "even"
)

// Item event statuses.
const (
	ItemHas      = "has"
	ItemBuilding = "building"
)

// EnemyEntry is one enemy champion observed during a turn.
type EnemyEntry struct {
	Champion string `json:"champion"`
	Status   string `json:"status"` // ahead | behind | even
	IsLaner  bool   `json:"is_laner"`
}

// ItemEvent describes an item someone has finished or is building.
// Champion is empty when the event refers to the speaker.
type ItemEvent struct {
	Champion string `json:"champion,omitempty"`
	Item     string `json:"item"`
	Status   string `json:"status"` // has | building
}

// GameState is the per-session match context, merged across turns.
// Champion and Lane are write-once: once set they never change for the
// life of the session. Extra carries forward-compatible client hints
// that no typed field covers.
type GameState struct {
	Champion string `json:"champion,omitempty"`
	Lane     string `json:"lane,omitempty"`

	// Enemy is the singular laning opponent kept for backward
	// compatibility; Enemies holds the latest full extraction.
	Enemy   string       `json:"enemy,omitempty"`
	Enemies []EnemyEntry `json:"enemies,omitempty"`

	GamePhase string `json:"game_phase,omitempty"`
	Status    string `json:"status,omitempty"`
	Gold      *int   `json:"gold,omitempty"`

	SelfItems     []string            `json:"self_items,omitempty"`
	SelfBuilding  string              `json:"self_building,omitempty"`
	EnemyItems    map[string][]string `json:"enemy_items,omitempty"`
	EnemyBuilding map[string]string   `json:"enemy_building,omitempty"`
	LastSelfItem  string              `json:"last_self_item,omitempty"`
	LastEnemyItem *ItemEvent          `json:"last_enemy_item,omitempty"`

	LastUserText string `json:"last_user_text,omitempty"`
	LastIntent   string `json:"last_intent,omitempty"`
	LastReply    string `json:"last_reply,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy of the state whose slices, maps and pointers are
// independent of the receiver's. Use it whenever state leaves the turn
// lock, such as in a turn response.
func (g GameState) Clone() GameState {
	out := g
	out.Enemies = slices.Clone(g.Enemies)
	out.SelfItems = slices.Clone(g.SelfItems)
	out.EnemyBuilding = maps.Clone(g.EnemyBuilding)
	out.Extra = maps.Clone(g.Extra)
	if g.EnemyItems != nil {
		out.EnemyItems = make(map[string][]string, len(g.EnemyItems))
		for champion, items := range g.EnemyItems {
			out.EnemyItems[champion] = slices.Clone(items)
		}
	}
	if g.Gold != nil {
		gold := *g.Gold
		out.Gold = &gold
	}
	if g.LastEnemyItem != nil {
		event := *g.LastEnemyItem
		out.LastEnemyItem = &event
	}
	return out
}

// StateUpdate is a partial GameState produced by one turn's extraction.
// Zero-valued fields mean "no hint this turn" and leave prior state intact.
type StateUpdate struct {
	Champion  string
	Lane      string
	Enemy     string
	Enemies   []EnemyEntry
	GamePhase string
	Status    string
	Gold      *int
	SelfItem  *ItemEvent
	EnemyItem *ItemEvent
	Extra     map[string]any
}

// IsEmpty reports whether the update carries no hints at all.
func (u StateUpdate) IsEmpty() bool {
	return u.Champion == "" && u.Lane == "" && u.Enemy == "" &&
		len(u.Enemies) == 0 && u.GamePhase == "" && u.Status == "" &&
		u.Gold == nil && u.SelfItem == nil && u.EnemyItem == nil &&
		len(u.Extra) == 0
}

// TurnContext is the state snapshot captured when a turn completed.
type TurnContext struct {
	Champion  string `json:"champion,omitempty"`
	Lane      string `json:"lane,omitempty"`
	Enemy     string `json:"enemy,omitempty"`
	GamePhase string `json:"game_phase,omitempty"`
	Status    string `json:"status,omitempty"`
	Gold      *int   `json:"gold,omitempty"`
}

// TurnRecord is one completed dialogue turn. Immutable once appended.
type TurnRecord struct {
	Text      string      `json:"text"`
	Reply     string      `json:"reply"`
	Intent    string      `json:"intent"`
	Context   TurnContext `json:"context"`
	Timestamp time.Time   `json:"timestamp"`
}

// Session is a live coaching conversation for one match.
type Session struct {
	ID         string       `json:"session_id"`
	Locale     string       `json:"locale"`
	State      GameState    `json:"state"`
	History    []TurnRecord `json:"history"`
	CreatedAt  time.Time    `json:"created_at"`
	LastSeenAt time.Time    `json:"last_seen_at"`
}

// Snapshot captures the session's current context for a TurnRecord.
func (s *Session) Snapshot() TurnContext {
	return TurnContext{
		Champion:  s.State.Champion,
		Lane:      s.State.Lane,
		Enemy:     s.State.Enemy,
		GamePhase: s.State.GamePhase,
		Status:    s.State.Status,
		Gold:      s.State.Gold,
	}
}

// Idle reports whether the session has been inactive longer than ttl.
func (s *Session) Idle(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.LastSeenAt) > ttl
}
