package advice

import (
	"reflect"
	"testing"
	"time"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

func TestScore_MatchWeights(t *testing.T) {
	state := domain.GameState{
		Champion:  "yasuo",
		Lane:      "mid",
		Enemy:     "zed",
		GamePhase: domain.PhaseEarly,
		Status:    domain.StatusEven,
	}

	cases := []struct {
		name   string
		record domain.AdviceRecord
		want   int
	}{
		{"champion only", domain.AdviceRecord{Champion: "yasuo"}, 3},
		{"lane and intent", domain.AdviceRecord{Lane: "mid", Intent: "build"}, 4},
		{"phase and status", domain.AdviceRecord{GamePhase: "early", Status: "even"}, 2},
		{"full match plus stored score", domain.AdviceRecord{
			Champion: "yasuo", Lane: "mid", Enemy: "zed", Intent: "build",
			GamePhase: "early", Status: "even", Score: 2,
		}, 13},
		{"no match", domain.AdviceRecord{Champion: "jax", Lane: "top"}, 0},
	}
	for _, tc := range cases {
		if got := Score(tc.record, state, "build"); got != tc.want {
			t.Errorf("%s: score = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestScore_EmptyFieldsNeverMatch(t *testing.T) {
	// An all-empty record against an all-empty state must not rack up
	// "matches" on equal empty strings.
	if got := Score(domain.AdviceRecord{}, domain.GameState{}, ""); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestRank_LaneIntentBeatsChampionOnly(t *testing.T) {
	state := domain.GameState{Champion: "yasuo", Lane: "mid"}
	candidates := []domain.AdviceRecord{
		{Champion: "yasuo", ReplyText: "champion tip", Score: 1},
		{Lane: "mid", Intent: "build", ReplyText: "lane tip", Score: -1},
	}

	got := Rank(candidates, state, "build", 3)
	want := []string{"lane tip", "champion tip"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	state := domain.GameState{Champion: "yasuo", GamePhase: domain.PhaseEarly, Status: domain.StatusEven}
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	// All three land on rank score 3. Stored score decides first (the
	// phase+status record carries 1), then recency between the two
	// champion records.
	candidates := []domain.AdviceRecord{
		{Champion: "yasuo", ReplyText: "old champion", Score: 0, LastSeen: older},
		{Champion: "yasuo", ReplyText: "recent champion", Score: 0, LastSeen: newer},
		{GamePhase: domain.PhaseEarly, Status: domain.StatusEven, ReplyText: "reinforced", Score: 1, LastSeen: older},
	}

	got := Rank(candidates, state, "general", 3)
	want := []string{"reinforced", "recent champion", "old champion"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRank_Deterministic(t *testing.T) {
	state := domain.GameState{Champion: "yasuo", Lane: "mid", Enemy: "zed"}
	candidates := []domain.AdviceRecord{
		{Champion: "yasuo", ReplyText: "a", Score: 1},
		{Lane: "mid", Enemy: "zed", ReplyText: "b", Score: 1},
		{Intent: "build", ReplyText: "c", Score: 3},
		{GamePhase: "early", ReplyText: "d", Score: 4},
	}

	first := Rank(candidates, state, "build", 4)
	for i := 0; i < 10; i++ {
		if again := Rank(candidates, state, "build", 4); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, first, again)
		}
	}
}

func TestRank_SkipsEmptyRepliesAndHonorsTopK(t *testing.T) {
	state := domain.GameState{Champion: "yasuo"}
	candidates := []domain.AdviceRecord{
		{Champion: "yasuo", ReplyText: "", Score: 100},
		{Champion: "yasuo", ReplyText: "one", Score: 3},
		{Champion: "yasuo", ReplyText: "two", Score: 2},
		{Champion: "yasuo", ReplyText: "three", Score: 1},
		{Champion: "yasuo", ReplyText: "four", Score: 0},
	}

	got := Rank(candidates, state, "general", 3)
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRank_NoCandidates(t *testing.T) {
	if got := Rank(nil, domain.GameState{}, "build", 3); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}
