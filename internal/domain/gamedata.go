package domain

// Champion roles used by the composition analyzer.
const (
	RoleFighter  = "fighter"
	RoleMage     = "mage"
	RoleAssassin = "assassin"
	RoleTank     = "tank"
	RoleMarksman = "marksman"
	RoleSupport  = "support"
)

// ChampionInfo is the synced reference record for one champion.
type ChampionInfo struct {
	HeroID        string         `json:"hero_id"`
	Name          string         `json:"name"`
	Title         string         `json:"title,omitempty"`
	Roles         []string       `json:"roles"`
	Lanes         []string       `json:"lanes"`
	Difficulty    int            `json:"difficulty"`
	Damage        *int           `json:"damage,omitempty"`        // 0-10, nil when unscored
	Survivability *int           `json:"survivability,omitempty"` // 0-10, nil when unscored
	Utility       int            `json:"utility"`
	Stats         map[string]any `json:"stats,omitempty"`
}

// Ability is one champion ability in passive/q/w/e/r order.
type Ability struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Winrate is the latest ranked performance snapshot for a champion.
type Winrate struct {
	Position string  `json:"position"`
	WinRate  float64 `json:"win_rate"`
	PickRate float64 `json:"pick_rate"`
	BanRate  float64 `json:"ban_rate"`
	Tier     int     `json:"tier"`
}

// Item is a purchasable game item.
type Item struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	GoldCost int            `json:"gold_cost"`
	Stats    map[string]any `json:"stats,omitempty"`
	Passive  string         `json:"passive,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
}

// CounterItemFilter selects items that answer a composition threat.
type CounterItemFilter struct {
	NeedsAntiHeal     bool
	NeedsArmorPen     bool
	NeedsMagicResist  bool
	NeedsArmor        bool
	Category          string
}

// MatchupTips holds curated guidance for a champion-vs-enemy pairing.
type MatchupTips struct {
	Champion     string   `json:"champion"`
	Enemy        string   `json:"enemy"`
	Lane         string   `json:"lane,omitempty"`
	Difficulty   int      `json:"difficulty"`
	Tips         []string `json:"tips"`
	CounterItems []string `json:"counter_items"`
	PowerSpikes  []string `json:"power_spikes"`
	Score        int      `json:"score"`
}
