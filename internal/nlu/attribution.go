package nlu

import (
	"regexp"
	"slices"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// ChampionMentions is the attribution result for one utterance: which
// mentioned champion is the speaker's own pick and how every remaining
// mention classifies as an enemy.
type ChampionMentions struct {
	PlayerChampion string
	Enemies        []domain.EnemyEntry
}

// playerPatterns capture self-reference framing; first match wins.
var playerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:estou|to|sou|jogo|jogando|vou)\s+(?:de|com)\s+(\w+)`),
	regexp.MustCompile(`(?:meu|minha)\s+(\w+)`),
	regexp.MustCompile(`(\w+)\s+(?:aqui|main|otp)`),
	regexp.MustCompile(`(?:i am|i'm|im|playing)\s+(\w+)`),
}

// Enemy framing kinds. A champion captured by an earlier pattern is
// never reclassified by a later one: table order is the precedence.
const (
	frameLaner   = "laner"
	frameFed     = "fed"
	frameFedPair = "fed_pair"
	frameBehind  = "behind"
)

var enemyPatterns = []struct {
	Pattern *regexp.Regexp
	Kind    string
}{
	// "contra um jax no top"
	{regexp.MustCompile(`contra\s+(?:um|uma|o|a)?\s*(\w+)`), frameLaner},
	// "tem uma caitlyn forte"
	{regexp.MustCompile(`(?:tem|ha|existe)\s+(?:um|uma|o|a)?\s*(\w+)\s+(?:forte|fed|feedado)`), frameFed},
	// "caitlyn e nami fortes"
	{regexp.MustCompile(`(\w+)\s+(?:e|and)\s+(\w+)\s+(?:fortes|feds|feedados|strong)`), frameFedPair},
	// "malzahar tambem esta forte"
	{regexp.MustCompile(`(\w+)\s+(?:tambem|also)\s+(?:esta|is|ta)\s+(?:forte|fed)`), frameFed},
	// "caitlyn esta forte"
	{regexp.MustCompile(`(\w+)\s+(?:esta|is|ta)\s+(?:forte|fed|feedado|strong|ahead)`), frameFed},
	// "jax fraco/behind"
	{regexp.MustCompile(`(\w+)\s+(?:esta|is|ta)\s+(?:fraco|weak|behind|atras)`), frameBehind},
	// "amassei o jax": a victory claim marks the named champion behind
	{regexp.MustCompile(`(?:amassei|ganhei|venci|matei|destrui)\s+(?:o|a|do|da)?\s*(\w+)`), frameBehind},
}

// ExtractChampions attributes every champion mention in the utterance.
// The speaker's own champion is excluded from the enemy list; mentions
// not captured by any framing pattern default to status=even, not a
// laner.
func ExtractChampions(text string) ChampionMentions {
	normalized := Normalize(text)
	result := ChampionMentions{}

	found := FindAllChampions(normalized)
	if len(found) == 0 {
		return result
	}

	for _, pattern := range playerPatterns {
		match := pattern.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}
		champion := ResolveChampion(match[1])
		if champion != "" && slices.Contains(found, champion) {
			result.PlayerChampion = champion
			found = slices.DeleteFunc(found, func(c string) bool { return c == champion })
			break
		}
	}

	processed := make(map[string]bool)
	addEnemy := func(champion, status string, isLaner bool) {
		if champion == "" || processed[champion] || champion == result.PlayerChampion {
			return
		}
		result.Enemies = append(result.Enemies, domain.EnemyEntry{
			Champion: champion,
			Status:   status,
			IsLaner:  isLaner,
		})
		processed[champion] = true
	}

	for _, row := range enemyPatterns {
		for _, match := range row.Pattern.FindAllStringSubmatch(normalized, -1) {
			switch row.Kind {
			case frameFedPair:
				addEnemy(ResolveChampion(match[1]), domain.StatusAhead, false)
				addEnemy(ResolveChampion(match[2]), domain.StatusAhead, false)
			case frameLaner:
				addEnemy(ResolveChampion(match[1]), domain.StatusEven, true)
			case frameFed:
				addEnemy(ResolveChampion(match[1]), domain.StatusAhead, false)
			case frameBehind:
				addEnemy(ResolveChampion(match[1]), domain.StatusBehind, false)
			}
		}
	}

	// Everything mentioned but never framed defaults to even.
	for _, champion := range found {
		addEnemy(champion, domain.StatusEven, false)
	}

	return result
}
