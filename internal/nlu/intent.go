package nlu

import (
	"strings"
)

// Intent labels.
const (
	IntentBuild     = "build"
	IntentAllIn     = "all_in"
	IntentObjective = "objective"
	IntentStatus    = "status"
	IntentMacro     = "macro"
	IntentFollowUp  = "follow_up"
	IntentMatchup   = "matchup"
	IntentGeneral   = "general"
)

// intentTable is a priority-ordered keyword table. The first label whose
// keyword list contains a substring match wins; declaration order breaks
// ties, not textual position.
var intentTable = []struct {
	Label    string
	Keywords []string
}{
	{IntentBuild, []string{"item", "build", "proximo", "prox", "comprar", "next", "buy"}},
	{IntentAllIn, []string{"all-in", "all in", "allin"}},
	{IntentObjective, []string{"dragao", "arauto", "baron", "objetivo", "dragon", "herald", "objective"}},
	{IntentStatus, []string{"na frente", "atras", "empatado", "even", "ahead", "behind"}},
	{IntentMacro, []string{"macro", "split", "agrupo", "group", "teamfight", "tf", "team fight"}},
	{IntentFollowUp, []string{"e agora", "agora o que", "continuo", "seguinte", "what now", "and now"}},
	{IntentMatchup, []string{"contra", "versus", "vs", "matchup", "enfrentando", "against"}},
}

// Intents lists every label InferIntent can return, in table order plus
// the default.
func Intents() []string {
	labels := make([]string, 0, len(intentTable)+1)
	for _, row := range intentTable {
		labels = append(labels, row.Label)
	}
	return append(labels, IntentGeneral)
}

// InferIntent classifies one utterance into a coarse tactical intent.
// Falls back to "general" when no keyword matches.
func InferIntent(text string) string {
	normalized := Normalize(text)
	for _, row := range intentTable {
		for _, keyword := range row.Keywords {
			if strings.Contains(normalized, keyword) {
				return row.Label
			}
		}
	}
	return IntentGeneral
}
