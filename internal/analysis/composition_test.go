package analysis

import (
	"reflect"
	"testing"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

type mapInfoSource map[string]*domain.ChampionInfo

func (m mapInfoSource) ChampionInfo(name string) *domain.ChampionInfo { return m[name] }

func score(n int) *int { return &n }

var testRoster = mapInfoSource{
	"caitlyn":  {Name: "caitlyn", Roles: []string{domain.RoleMarksman}, Damage: score(8), Survivability: score(2)},
	"malzahar": {Name: "malzahar", Roles: []string{domain.RoleMage}, Damage: score(7), Survivability: score(3)},
	"zed":      {Name: "zed", Roles: []string{domain.RoleAssassin}, Damage: score(9), Survivability: score(3)},
	"malphite": {Name: "malphite", Roles: []string{domain.RoleTank}, Damage: score(4), Survivability: score(9)},
	"soraka":   {Name: "soraka", Roles: []string{domain.RoleSupport}, Damage: score(2), Survivability: score(4)},
	"jax":      {Name: "jax", Roles: []string{domain.RoleFighter}, Damage: score(7), Survivability: score(7)},
}

func enemies(names ...string) []domain.EnemyEntry {
	out := make([]domain.EnemyEntry, len(names))
	for i, name := range names {
		out[i] = domain.EnemyEntry{Champion: name, Status: domain.StatusEven}
	}
	return out
}

func TestAnalyzeComposition_DamageBalance(t *testing.T) {
	got := AnalyzeComposition(enemies("caitlyn", "jax", "malzahar"), testRoster)

	if got.DamagePhysical != 15 {
		t.Errorf("physical = %d, want 15", got.DamagePhysical)
	}
	if got.DamageMagic != 7 {
		t.Errorf("magic = %d, want 7", got.DamageMagic)
	}
	if !reflect.DeepEqual(got.RecommendedDefenses, []string{DefenseArmor, DefenseArmorPen}) {
		t.Errorf("defenses = %v", got.RecommendedDefenses)
	}
}

func TestAnalyzeComposition_MagicHeavyRecommendsMagicResist(t *testing.T) {
	got := AnalyzeComposition(enemies("malzahar", "zed"), testRoster)

	if got.DamageMagic <= got.DamagePhysical {
		t.Fatalf("expected magic heavy, got %+v", got)
	}
	if got.RecommendedDefenses[0] != DefenseMagicResist {
		t.Errorf("defenses = %v, want magic_resist first", got.RecommendedDefenses)
	}
	if !got.HasAssassin {
		t.Error("expected assassin flag for zed")
	}
}

func TestAnalyzeComposition_BalancedRecommendsBoth(t *testing.T) {
	got := AnalyzeComposition(nil, testRoster)
	want := []string{DefenseArmor, DefenseMagicResist}
	if !reflect.DeepEqual(got.RecommendedDefenses, want) {
		t.Errorf("defenses = %v, want %v", got.RecommendedDefenses, want)
	}
}

func TestAnalyzeComposition_HealerAndTankFlags(t *testing.T) {
	got := AnalyzeComposition(enemies("soraka", "malphite", "caitlyn"), testRoster)

	if !got.HasHealer {
		t.Error("expected healer flag for soraka")
	}
	if !got.HasTank {
		t.Error("expected tank flag for malphite")
	}
	// physical 8 vs magic 0: armor, then anti-heal, then armor-pen.
	want := []string{DefenseArmor, DefenseAntiHeal, DefenseArmorPen}
	if !reflect.DeepEqual(got.RecommendedDefenses, want) {
		t.Errorf("defenses = %v, want %v", got.RecommendedDefenses, want)
	}
}

func TestAnalyzeComposition_HighSurvivabilityCountsAsTank(t *testing.T) {
	got := AnalyzeComposition(enemies("jax"), testRoster)
	if !got.HasTank {
		t.Error("survivability 7 fighter should set the tank flag")
	}
}

func TestAnalyzeComposition_ThreatsFromAheadEnemies(t *testing.T) {
	team := []domain.EnemyEntry{
		{Champion: "zed", Status: domain.StatusAhead},
		{Champion: "malzahar", Status: domain.StatusAhead},
		{Champion: "caitlyn", Status: domain.StatusEven},
	}
	got := AnalyzeComposition(team, testRoster)

	if len(got.Threats) != 2 {
		t.Fatalf("threats = %v, want 2", got.Threats)
	}
	if got.Threats[0].Champion != "zed" || got.Threats[0].DamageType != "physical" {
		t.Errorf("threat[0] = %+v", got.Threats[0])
	}
	if got.Threats[1].Champion != "malzahar" || got.Threats[1].DamageType != "magic" {
		t.Errorf("threat[1] = %+v", got.Threats[1])
	}
}

func TestAnalyzeComposition_ScoreDefaults(t *testing.T) {
	roster := mapInfoSource{
		// Unscored record: both scores fall back to the default of 5.
		"ksante": {Name: "ksante", Roles: []string{domain.RoleFighter}},
		// Explicit zeros must count as zero, not as the default.
		"yuumi": {Name: "yuumi", Roles: []string{domain.RoleMarksman}, Damage: score(0), Survivability: score(0)},
	}

	unscored := AnalyzeComposition(enemies("ksante"), roster)
	if unscored.DamagePhysical != 5 {
		t.Errorf("unscored damage = %d, want default 5", unscored.DamagePhysical)
	}
	if unscored.TotalSurvivability != 5 {
		t.Errorf("unscored survivability = %d, want default 5", unscored.TotalSurvivability)
	}

	zeroed := AnalyzeComposition(enemies("yuumi"), roster)
	if zeroed.DamagePhysical != 0 {
		t.Errorf("zero-scored damage = %d, want 0", zeroed.DamagePhysical)
	}
	if zeroed.TotalSurvivability != 0 {
		t.Errorf("zero-scored survivability = %d, want 0", zeroed.TotalSurvivability)
	}
}

func TestAnalyzeComposition_UnknownChampionSkipped(t *testing.T) {
	got := AnalyzeComposition(enemies("nonexistent"), testRoster)
	if got.DamagePhysical != 0 || got.DamageMagic != 0 || got.TotalSurvivability != 0 {
		t.Errorf("unknown champion contributed: %+v", got)
	}
}

func TestAnalyzeComposition_Pure(t *testing.T) {
	team := enemies("caitlyn", "malzahar", "soraka", "malphite")
	first := AnalyzeComposition(team, testRoster)
	for i := 0; i < 5; i++ {
		if again := AnalyzeComposition(team, testRoster); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed", i)
		}
	}
}

func TestCounterFilter(t *testing.T) {
	analysis := TeamAnalysis{RecommendedDefenses: []string{DefenseArmor, DefenseAntiHeal}}
	filter := analysis.CounterFilter()

	if !filter.NeedsArmor || !filter.NeedsAntiHeal {
		t.Errorf("filter = %+v", filter)
	}
	if filter.NeedsMagicResist || filter.NeedsArmorPen {
		t.Errorf("unexpected flags: %+v", filter)
	}
}
