package nlu

import (
	"sort"
	"strings"
)

// knownChampions is the canonical champion identifier set (lowercase,
// English names).
var knownChampions = []string{
	// Fighters
	"darius", "garen", "fiora", "camille", "jax", "irelia", "riven", "renekton",
	"sett", "wukong", "xin zhao", "jarvan", "lee sin", "vi", "olaf", "tryndamere",
	"yasuo", "yone", "pantheon", "jayce", "kayn", "aatrox", "warwick", "volibear",
	"hecarim", "nocturne", "shyvana", "mundo", "nasus", "yorick", "gwen", "urgot",
	// Tanks
	"malphite", "ornn", "sion", "maokai", "nautilus", "leona", "alistar", "braum",
	"thresh", "blitzcrank", "amumu", "rammus", "gragas", "sejuani", "zac", "shen",
	"poppy", "singed", "tahm kench", "rell",
	// Assassins
	"zed", "talon", "akali", "katarina", "fizz", "ekko", "diana", "kassadin",
	"khazix", "rengar", "evelynn", "pyke", "qiyana", "leblanc", "ahri",
	// Mages
	"lux", "orianna", "syndra", "veigar", "brand", "zyra", "annie",
	"malzahar", "viktor", "xerath", "ziggs", "velkoz", "twisted fate", "ryze",
	"cassiopeia", "aurelion sol", "seraphine", "karma", "morgana", "lulu",
	"nami", "soraka", "sona", "janna", "yuumi", "vex", "zoe", "neeko", "hwei",
	// Marksmen
	"jinx", "caitlyn", "vayne", "kaisa", "ezreal", "lucian", "draven", "ashe",
	"miss fortune", "tristana", "twitch", "jhin", "xayah", "varus", "corki",
	"kogmaw", "sivir", "kalista", "samira", "aphelios", "zeri", "nilah", "smolder",
	// Supports
	"rakan", "senna",
}

// championAliases maps common abbreviations to canonical identifiers.
// Declared order is the scan order for FindAll.
var championAliases = []struct {
	Alias    string
	Champion string
}{
	{"mf", "miss fortune"},
	{"tf", "twisted fate"},
	{"asol", "aurelion sol"},
	{"tk", "tahm kench"},
	{"j4", "jarvan"},
	{"jarvan iv", "jarvan"},
	{"lee", "lee sin"},
	{"xin", "xin zhao"},
	{"kha", "khazix"},
	{"kha'zix", "khazix"},
	{"kog", "kogmaw"},
	{"kog'maw", "kogmaw"},
	{"vel", "velkoz"},
	{"vel'koz", "velkoz"},
}

var (
	championSet = func() map[string]bool {
		set := make(map[string]bool, len(knownChampions))
		for _, c := range knownChampions {
			set[c] = true
		}
		return set
	}()

	aliasMap = func() map[string]string {
		m := make(map[string]string, len(championAliases))
		for _, a := range championAliases {
			m[a.Alias] = a.Champion
		}
		return m
	}()

	// Longest names first so "miss fortune" wins over a "miss" prefix.
	championsByLength = func() []string {
		sorted := make([]string, len(knownChampions))
		copy(sorted, knownChampions)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i]) > len(sorted[j])
		})
		return sorted
	}()
)

// ResolveChampion maps a surface token to a canonical champion identifier.
// Exact alias match wins, then exact canonical match, then a loose
// containment match (token is a prefix of, or a component word of, a
// multi-word canonical name). Returns "" when nothing matches.
func ResolveChampion(name string) string {
	token := strings.TrimSpace(strings.ToLower(name))
	if token == "" {
		return ""
	}
	if champion, ok := aliasMap[token]; ok {
		return champion
	}
	if championSet[token] {
		return token
	}
	for _, champion := range knownChampions {
		if strings.HasPrefix(champion, token) {
			return champion
		}
		for _, word := range strings.Fields(champion) {
			if word == token {
				return champion
			}
		}
	}
	return ""
}

// FindAllChampions scans normalized text for every champion mention.
// Aliases are scanned first in declared order, then canonical names by
// descending length; each identifier is reported at most once, in scan
// order.
func FindAllChampions(text string) []string {
	var found []string
	seen := make(map[string]bool)
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[w] = true
	}

	for _, a := range championAliases {
		if !strings.Contains(text, a.Alias) && !words[a.Alias] {
			continue
		}
		if !seen[a.Champion] {
			found = append(found, a.Champion)
			seen[a.Champion] = true
		}
	}
	for _, champion := range championsByLength {
		if strings.Contains(text, champion) && !seen[champion] {
			found = append(found, champion)
			seen[champion] = true
		}
	}
	return found
}
