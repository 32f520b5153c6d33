package session

import (
	"slices"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// MergeState applies a partial update to the session state. Champion and
// lane are write-once: an incoming value for either is dropped when the
// state already holds one. Item events accumulate instead of
// overwriting. Unknown client-hint keys shallow-merge into Extra.
func MergeState(state *domain.GameState, update domain.StateUpdate) {
	if update.Champion != "" && state.Champion == "" {
		state.Champion = update.Champion
	}
	if update.Lane != "" && state.Lane == "" {
		state.Lane = update.Lane
	}
	if update.Enemy != "" {
		state.Enemy = update.Enemy
	}
	if len(update.Enemies) > 0 {
		// Latest extraction replaces the list; no history of lists kept.
		state.Enemies = update.Enemies
	}
	if update.GamePhase != "" {
		state.GamePhase = update.GamePhase
	}
	if update.Status != "" {
		state.Status = update.Status
	}
	if update.Gold != nil {
		state.Gold = update.Gold
	}
	if update.SelfItem != nil {
		mergeSelfItem(state, update.SelfItem)
	}
	if update.EnemyItem != nil {
		mergeEnemyItem(state, update.EnemyItem)
	}
	if len(update.Extra) > 0 {
		if state.Extra == nil {
			state.Extra = make(map[string]any, len(update.Extra))
		}
		for key, value := range update.Extra {
			state.Extra[key] = value
		}
	}
}

func mergeSelfItem(state *domain.GameState, event *domain.ItemEvent) {
	if event.Item == "" {
		return
	}
	if event.Status == domain.ItemHas && !slices.Contains(state.SelfItems, event.Item) {
		state.SelfItems = append(state.SelfItems, event.Item)
	}
	if event.Status == domain.ItemBuilding {
		// The pointer survives a later "has" for the same item; only a
		// different building item supersedes it.
		state.SelfBuilding = event.Item
	}
	state.LastSelfItem = event.Item
}

func mergeEnemyItem(state *domain.GameState, event *domain.ItemEvent) {
	if event.Champion == "" || event.Item == "" {
		return
	}
	if state.EnemyItems == nil {
		state.EnemyItems = make(map[string][]string)
	}
	current := state.EnemyItems[event.Champion]
	if event.Status == domain.ItemHas && !slices.Contains(current, event.Item) {
		current = append(current, event.Item)
	}
	state.EnemyItems[event.Champion] = current

	if event.Status == domain.ItemBuilding {
		if state.EnemyBuilding == nil {
			state.EnemyBuilding = make(map[string]string)
		}
		state.EnemyBuilding[event.Champion] = event.Item
	}

	state.LastEnemyItem = &domain.ItemEvent{
		Champion: event.Champion,
		Item:     event.Item,
		Status:   event.Status,
	}
}
