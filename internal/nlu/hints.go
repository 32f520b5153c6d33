package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

var goldPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{3,5})\s*(gold|ouro|g)\b`),
	regexp.MustCompile(`tenho\s*(\d{3,5})\b`),
}

// statusPhrases maps normalized phrases to advantage statuses, scanned
// in declared order.
var statusPhrases = []struct {
	Phrase string
	Status string
}{
	{"na frente", domain.StatusAhead},
	{"vantagem", domain.StatusAhead},
	{"atras", domain.StatusBehind},
	{"desvantagem", domain.StatusBehind},
	{"empatado", domain.StatusEven},
	{"even", domain.StatusEven},
	{"ahead", domain.StatusAhead},
	{"behind", domain.StatusBehind},
}

var phaseKeywords = []struct {
	Keyword string
	Phase   string
}{
	{"early", domain.PhaseEarly},
	{"inicio", domain.PhaseEarly},
	{"comeco", domain.PhaseEarly},
	{"mid", domain.PhaseMid},
	{"meio", domain.PhaseMid},
	{"late", domain.PhaseLate},
	{"fim", domain.PhaseLate},
}

var laneKeywords = []struct {
	Keyword string
	Lane    string
}{
	{"top", "top"},
	{"mid", "mid"},
	{"meio", "mid"},
	{"bot", "bot"},
	{"bottom", "bot"},
	{"dragao", "bot"},
	{"jg", "jungle"},
	{"jungle", "jungle"},
	{"selva", "jungle"},
	{"sup", "support"},
	{"support", "support"},
}

// ExtractStateHints derives a partial state update from one utterance.
// Each sub-extractor runs independently; a sub-extractor that finds
// nothing simply leaves its field zero so prior state survives the merge.
// Never fails: garbage in, empty update out.
func ExtractStateHints(text string) domain.StateUpdate {
	normalized := Normalize(text)
	update := domain.StateUpdate{
		Gold:      extractGold(normalized),
		Status:    extractStatus(normalized),
		GamePhase: extractPhase(normalized),
		Lane:      extractLane(normalized),
	}

	mentions := ExtractChampions(text)
	if mentions.PlayerChampion != "" {
		update.Champion = mentions.PlayerChampion
	}
	if len(mentions.Enemies) > 0 {
		update.Enemies = mentions.Enemies
		update.Enemy = PrimaryEnemy(mentions.Enemies)
	}
	return update
}

// PrimaryEnemy derives the singular enemy kept for backward
// compatibility: the laning opponent if one was marked, else the first
// enemy in extraction order.
func PrimaryEnemy(enemies []domain.EnemyEntry) string {
	for _, e := range enemies {
		if e.IsLaner {
			return e.Champion
		}
	}
	if len(enemies) > 0 {
		return enemies[0].Champion
	}
	return ""
}

func extractGold(text string) *int {
	for _, pattern := range goldPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		gold, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return &gold
	}
	return nil
}

func extractStatus(text string) string {
	for _, row := range statusPhrases {
		if strings.Contains(text, row.Phrase) {
			return row.Status
		}
	}
	return ""
}

func extractPhase(text string) string {
	for _, row := range phaseKeywords {
		if strings.Contains(text, row.Keyword) {
			return row.Phase
		}
	}
	return ""
}

func extractLane(text string) string {
	for _, row := range laneKeywords {
		if strings.Contains(text, row.Keyword) {
			return row.Lane
		}
	}
	return ""
}
