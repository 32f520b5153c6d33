// Package analysis derives aggregate tactical signals from the set of
// known enemy champions.
package analysis

import (
	"slices"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// ChampionInfoSource looks up reference data for one champion. A nil
// result means the champion is unknown and is skipped by the analyzer.
type ChampionInfoSource interface {
	ChampionInfo(name string) *domain.ChampionInfo
}

// Defense recommendations, in the deterministic order AnalyzeComposition
// emits them.
const (
	DefenseMagicResist = "magic_resist"
	DefenseArmor       = "armor"
	DefenseAntiHeal    = "anti_heal"
	DefenseArmorPen    = "armor_pen"
)

// healers is the closed set of designated-healer champions.
var healers = map[string]bool{
	"nami": true, "soraka": true, "sona": true,
	"yuumi": true, "senna": true, "seraphine": true,
}

const defaultScore = 5

// Threat is an enemy currently ahead.
type Threat struct {
	Champion   string   `json:"champion"`
	Roles      []string `json:"roles"`
	DamageType string   `json:"damage_type"` // physical | magic
}

// TeamAnalysis is the aggregate view of the enemy composition.
type TeamAnalysis struct {
	DamagePhysical      int      `json:"damage_physical"`
	DamageMagic         int      `json:"damage_magic"`
	HasHealer           bool     `json:"has_healer"`
	HasTank             bool     `json:"has_tank"`
	HasAssassin         bool     `json:"has_assassin"`
	Threats             []Threat `json:"threats"`
	TotalSurvivability  int      `json:"total_survivability"`
	RecommendedDefenses []string `json:"recommended_defenses"`
}

// AnalyzeComposition aggregates damage-type balance, healer/tank/assassin
// presence, fed threats, and a deduplicated defense recommendation list
// from the given enemies. Pure function of its inputs: the same enemies
// and lookup always produce the same analysis.
func AnalyzeComposition(enemies []domain.EnemyEntry, info ChampionInfoSource) TeamAnalysis {
	analysis := TeamAnalysis{}

	for _, enemy := range enemies {
		champ := info.ChampionInfo(enemy.Champion)
		if champ == nil {
			continue
		}

		// Scores default only when the reference data carries none; an
		// explicit zero is an explicit zero.
		damage := defaultScore
		if champ.Damage != nil {
			damage = *champ.Damage
		}
		survivability := defaultScore
		if champ.Survivability != nil {
			survivability = *champ.Survivability
		}

		if hasAnyRole(champ.Roles, domain.RoleMarksman, domain.RoleFighter) {
			analysis.DamagePhysical += damage
		}
		if hasAnyRole(champ.Roles, domain.RoleMage, domain.RoleAssassin) {
			analysis.DamageMagic += damage
		}

		if hasAnyRole(champ.Roles, domain.RoleSupport) && healers[enemy.Champion] {
			analysis.HasHealer = true
		}
		if hasAnyRole(champ.Roles, domain.RoleTank) || survivability >= 7 {
			analysis.HasTank = true
		}
		if hasAnyRole(champ.Roles, domain.RoleAssassin) {
			analysis.HasAssassin = true
		}

		analysis.TotalSurvivability += survivability

		if enemy.Status == domain.StatusAhead {
			damageType := "physical"
			if hasAnyRole(champ.Roles, domain.RoleMage) {
				damageType = "magic"
			}
			analysis.Threats = append(analysis.Threats, Threat{
				Champion:   enemy.Champion,
				Roles:      champ.Roles,
				DamageType: damageType,
			})
		}
	}

	switch {
	case analysis.DamageMagic > analysis.DamagePhysical:
		analysis.RecommendedDefenses = append(analysis.RecommendedDefenses, DefenseMagicResist)
	case analysis.DamagePhysical > analysis.DamageMagic:
		analysis.RecommendedDefenses = append(analysis.RecommendedDefenses, DefenseArmor)
	default:
		analysis.RecommendedDefenses = append(analysis.RecommendedDefenses, DefenseArmor, DefenseMagicResist)
	}
	if analysis.HasHealer {
		analysis.RecommendedDefenses = append(analysis.RecommendedDefenses, DefenseAntiHeal)
	}
	if analysis.HasTank {
		analysis.RecommendedDefenses = append(analysis.RecommendedDefenses, DefenseArmorPen)
	}

	return analysis
}

// CounterFilter translates an analysis into the item-store filter flags.
func (a TeamAnalysis) CounterFilter() domain.CounterItemFilter {
	return domain.CounterItemFilter{
		NeedsAntiHeal:    slices.Contains(a.RecommendedDefenses, DefenseAntiHeal),
		NeedsArmorPen:    slices.Contains(a.RecommendedDefenses, DefenseArmorPen),
		NeedsMagicResist: slices.Contains(a.RecommendedDefenses, DefenseMagicResist),
		NeedsArmor:       slices.Contains(a.RecommendedDefenses, DefenseArmor),
	}
}

func hasAnyRole(roles []string, wanted ...string) bool {
	for _, want := range wanted {
		if slices.Contains(roles, want) {
			return true
		}
	}
	return false
}
