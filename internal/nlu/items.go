package nlu

import (
	"regexp"
	"strings"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// selfItemPrefixes are self-referential sentence openers that name an
// item directly. Checked before the subject+verb form; declared order is
// match order.
var selfItemPrefixes = []struct {
	Prefix string
	Status string
}{
	{"to com ", domain.ItemHas},
	{"estou com ", domain.ItemHas},
	{"tenho ", domain.ItemHas},
	{"i have ", domain.ItemHas},
	{"im with ", domain.ItemHas},
	{"i'm with ", domain.ItemHas},
	{"to fazendo ", domain.ItemBuilding},
	{"estou fazendo ", domain.ItemBuilding},
	{"im building ", domain.ItemBuilding},
	{"i'm building ", domain.ItemBuilding},
	{"fazendo ", domain.ItemBuilding},
	{"fechando ", domain.ItemBuilding},
	{"comprando ", domain.ItemBuilding},
	{"building ", domain.ItemBuilding},
	{"buying ", domain.ItemBuilding},
}

var subjectItemPattern = regexp.MustCompile(
	`(?P<subject>[a-z]+)\s+` +
		`(?P<verb>fez|fechei|fechou|comprou|tenho|tem|ta com|to com|estou com|` +
		`ta fazendo|to fazendo|estou fazendo|fazendo|fechando|comprando|buildando|` +
		`has|have|built|building|buying|is building|is buying)\s+` +
		`(?P<item>.+)$`)

var quantityPattern = regexp.MustCompile(`\b\d+\b`)

// buildingVerbs mark the in-progress form; everything else in the verb
// vocabulary means the item is already completed.
var buildingVerbs = []string{"fazendo", "fechando", "comprando", "buildando", "building", "buying"}

// selfSubjects are pronouns/contractions that mean the speaker.
var selfSubjects = map[string]bool{
	"eu": true, "meu": true, "minha": true, "to": true, "estou": true,
	"i": true, "my": true,
}

// ItemHints is the item-event outcome of one utterance; at most one of
// the two fields is set.
type ItemHints struct {
	SelfItem  *domain.ItemEvent
	EnemyItem *domain.ItemEvent
}

// ExtractItemHints detects item ownership/build statements. Two shapes:
// a self-referential prefix directly naming the item, or a
// subject+verb+item clause where the subject is a champion or pronoun.
// Quantity/currency phrases are rejected so gold statements never read
// as items.
func ExtractItemHints(text string) ItemHints {
	normalized := Normalize(text)

	if event := matchSelfPrefix(normalized); event != nil {
		return ItemHints{SelfItem: event}
	}

	match := subjectItemPattern.FindStringSubmatch(normalized)
	if match == nil {
		return ItemHints{}
	}
	subject := strings.TrimSpace(match[subjectItemPattern.SubexpIndex("subject")])
	verb := strings.TrimSpace(match[subjectItemPattern.SubexpIndex("verb")])
	item := strings.TrimSpace(match[subjectItemPattern.SubexpIndex("item")])
	if item == "" {
		return ItemHints{}
	}

	status := domain.ItemHas
	for _, v := range buildingVerbs {
		if strings.Contains(verb, v) {
			status = domain.ItemBuilding
			break
		}
	}

	if selfSubjects[subject] {
		return ItemHints{SelfItem: &domain.ItemEvent{Item: item, Status: status}}
	}

	champion := ResolveChampion(subject)
	if champion == "" {
		champion = subject
	}
	return ItemHints{EnemyItem: &domain.ItemEvent{Champion: champion, Item: item, Status: status}}
}

func matchSelfPrefix(text string) *domain.ItemEvent {
	for _, row := range selfItemPrefixes {
		if !strings.HasPrefix(text, row.Prefix) {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(text, row.Prefix))
		// A "tenho 2500 de ouro" opener is a gold statement, not an item.
		if item == "" || quantityPattern.MatchString(item) ||
			strings.Contains(item, "gold") || strings.Contains(item, "ouro") {
			return nil
		}
		return &domain.ItemEvent{Item: item, Status: row.Status}
	}
	return nil
}
