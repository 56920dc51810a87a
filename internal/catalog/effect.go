package catalog

import (
	"sort"

	"github.com/dekarrin/civrules/internal/req"
)

// Effect type names referred to by the loader itself.
const (
	EffectUnitShieldValuePct         = "Unit_Shield_Value_Pct"
	EffectActionSuccessActorMoveCost = "Action_Success_Actor_Move_Cost"
	EffectHPRegen                    = "HP_Regen"
	EffectUnitUpgradePricePct        = "Unit_Upgrade_Price_Pct"
)

// effectTypes are the effect types the engine understands.
var effectTypes = []string{
	"Action_Odds_Pct",
	EffectActionSuccessActorMoveCost,
	"Building_Build_Cost_Pct",
	"Capital_City",
	"City_Vision_Radius_Sq",
	"Conquest_Tech_Pct",
	"Defend_Bonus",
	"Diplomat_Defense",
	"Empire_Size_Base",
	"Empire_Size_Step",
	"Enable_Space",
	"Enter_Marketplace_Pct",
	"Force_Content",
	"Gain_AI_Love",
	"Gov_Center",
	"Have_Embassies",
	"Health_Pct",
	"History",
	EffectHPRegen,
	"Illegal_Action_Move_Cost",
	"Incite_Cost_Pct",
	"Irrigation_Pct",
	"Make_Content",
	"Martial_Law_Each",
	"Martial_Law_Max",
	"Max_Rates",
	"Max_Stolen_Gold_Pm",
	"Migration_Pct",
	"Mining_Pct",
	"Move_Bonus",
	"National_History",
	"National_Performance",
	"Nuke_Proof",
	"Output_Add_Tile",
	"Output_Bonus",
	"Output_Inc_Tile",
	"Output_Penalty_Tile",
	"Output_Per_Tile",
	"Output_Waste",
	"Performance",
	"Pollu_Pop_Pct",
	"Pollu_Prod_Pct",
	"Rapture_Grow",
	"Retire_Pct",
	"Reveal_Cities",
	"Reveal_Map",
	"Size_Adj",
	"Size_Unlimit",
	"Spy_Resistant",
	"Tech_Cost_Factor",
	"Tech_Parasite",
	"Trade_Revenue_Bonus",
	"Traderoute_Pct",
	"Unhappy_Factor",
	"Unit_Bribe_Cost_Pct",
	"Unit_Build_Cost_Pct",
	EffectUnitShieldValuePct,
	EffectUnitUpgradePricePct,
	"Unit_Upkeep_Free_Per_City",
	"Upgrade_Unit",
	"Upkeep_Free",
	"Veteran_Build",
	"Vision_Radius_Sq",
}

var effectTypeIndex = func() map[string]string {
	m := make(map[string]string, len(effectTypes))
	for _, t := range effectTypes {
		m[foldName(t)] = t
	}
	return m
}()

// EffectTypeByName returns the canonical name of the effect type with the
// given name, matched without regard to case.
func EffectTypeByName(name string) (string, bool) {
	t, ok := effectTypeIndex[foldName(name)]
	return t, ok
}

// EffectTypes returns the names of every known effect type, sorted.
func EffectTypes() []string {
	ts := make([]string, len(effectTypes))
	copy(ts, effectTypes)
	sort.Strings(ts)
	return ts
}

// Effect changes a game value by Value whenever its requirements are
// fulfilled.
type Effect struct {
	Type    string
	Value   int
	Reqs    req.Vector
	Comment string

	// Origin is the section the effect was read from, or starts with
	// OriginSynthesized.
	Origin string
}
