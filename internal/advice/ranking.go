// Package advice scores previously stored advice snippets against the
// current session state.
package advice

import (
	"sort"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// Rank-score weights. Champion match dominates; lane, enemy, and intent
// matter equally; phase and status are weak signals.
const (
	weightChampion = 3
	weightLane     = 2
	weightEnemy    = 2
	weightIntent   = 2
	weightPhase    = 1
	weightStatus   = 1
)

// DefaultTopK is the number of reply texts returned when no limit is
// configured.
const DefaultTopK = 3

// Score computes the rank score of one record against the current state
// and intent: match weights plus the record's stored feedback score.
func Score(record domain.AdviceRecord, state domain.GameState, intent string) int {
	score := record.Score
	if record.Champion != "" && record.Champion == state.Champion {
		score += weightChampion
	}
	if record.Lane != "" && record.Lane == state.Lane {
		score += weightLane
	}
	if record.Enemy != "" && record.Enemy == state.Enemy {
		score += weightEnemy
	}
	if record.Intent != "" && record.Intent == intent {
		score += weightIntent
	}
	if record.GamePhase != "" && record.GamePhase == state.GamePhase {
		score += weightPhase
	}
	if record.Status != "" && record.Status == state.Status {
		score += weightStatus
	}
	return score
}

// Rank orders candidates by rank score descending, breaking ties by
// stored score descending and then last_seen descending, and returns the
// top-k reply texts. Records with empty reply text are skipped. The
// ordering is total and stable: the same rows, state, and intent always
// produce the same output.
func Rank(candidates []domain.AdviceRecord, state domain.GameState, intent string, k int) []string {
	if k <= 0 {
		k = DefaultTopK
	}

	type ranked struct {
		record domain.AdviceRecord
		score  int
	}
	rows := make([]ranked, 0, len(candidates))
	for _, record := range candidates {
		rows = append(rows, ranked{record: record, score: Score(record, state, intent)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		if rows[i].record.Score != rows[j].record.Score {
			return rows[i].record.Score > rows[j].record.Score
		}
		return rows[i].record.LastSeen.After(rows[j].record.LastSeen)
	})

	replies := make([]string, 0, k)
	for _, row := range rows {
		if row.record.ReplyText == "" {
			continue
		}
		replies = append(replies, row.record.ReplyText)
		if len(replies) == k {
			break
		}
	}
	return replies
}
