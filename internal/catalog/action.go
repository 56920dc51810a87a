package catalog

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/req"
)

// ActorKind is what performs an action.
type ActorKind int

const (
	ActorUnit ActorKind = iota
	ActorCity
)

func (ak ActorKind) String() string {
	switch ak {
	case ActorUnit:
		return "unit"
	case ActorCity:
		return "city"
	default:
		return fmt.Sprintf("ActorKind(%d)", int(ak))
	}
}

// TargetKind is what an action is done to.
type TargetKind int

const (
	TargetCity TargetKind = iota
	TargetUnit
	TargetUnits
	TargetTile
	TargetSelf
)

func (tk TargetKind) String() string {
	switch tk {
	case TargetCity:
		return "city"
	case TargetUnit:
		return "unit"
	case TargetUnits:
		return "unit stack"
	case TargetTile:
		return "tile"
	case TargetSelf:
		return "itself"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(tk))
	}
}

// Rule names of the built-in actions.
const (
	ActionEstablishEmbassy         = "Establish Embassy"
	ActionEstablishEmbassyStay     = "Establish Embassy Stay"
	ActionInvestigateCity          = "Investigate City"
	ActionInvestigateCitySpendUnit = "Investigate City Spend Unit"
	ActionStealTech                = "Steal Tech"
	ActionStealTechEscape          = "Steal Tech Escape"
	ActionSabotageCity             = "Sabotage City"
	ActionSabotageCityEscape       = "Sabotage City Escape"
	ActionInciteCity               = "Incite City"
	ActionInciteCityEscape         = "Incite City Escape"
	ActionFoundCity                = "Found City"
	ActionJoinCity                 = "Join City"
	ActionHelpWonder               = "Help Wonder"
	ActionDisbandUnitRecover       = "Disband Unit Recover"
	ActionDisbandUnit              = "Disband Unit"
	ActionCaptureUnits             = "Capture Units"
	ActionBombard                  = "Bombard"
	ActionConquerCity              = "Conquer City"
	ActionPillage                  = "Pillage"
	ActionBuildRoad                = "Build Road"
	ActionBuildIrrigation          = "Build Irrigation"
	ActionBuildMine                = "Build Mine"
	ActionTransformTerrain         = "Transform Terrain"
	ActionClean                    = "Clean"
	ActionUpgradeUnit              = "Upgrade Unit"
	ActionFortify                  = "Fortify"
	ActionExplodeNuclear           = "Explode Nuclear"
	ActionParadropUnit             = "Paradrop Unit"
	ActionEstablishTradeRoute      = "Establish Trade Route"
	ActionEnterMarketplace         = "Enter Marketplace"
	ActionAirliftUnit              = "Airlift Unit"
	ActionHealUnit                 = "Heal Unit"
	ActionExpelUnit                = "Expel Unit"
	ActionDisbandCity              = "Disband City"
)

// Action is something an actor can do. The set of actions is fixed; a
// ruleset may only change how they are shown and how far they reach.
type Action struct {
	ID          ID
	Name        string
	Actor       ActorKind
	Target      TargetKind
	UIName      string
	MaxDistance int
}

type actionDef struct {
	name   string
	actor  ActorKind
	target TargetKind
	dist   int
}

var builtinActions = []actionDef{
	{ActionEstablishEmbassy, ActorUnit, TargetCity, 1},
	{ActionEstablishEmbassyStay, ActorUnit, TargetCity, 1},
	{ActionInvestigateCity, ActorUnit, TargetCity, 1},
	{ActionInvestigateCitySpendUnit, ActorUnit, TargetCity, 1},
	{ActionStealTech, ActorUnit, TargetCity, 1},
	{ActionStealTechEscape, ActorUnit, TargetCity, 1},
	{ActionSabotageCity, ActorUnit, TargetCity, 1},
	{ActionSabotageCityEscape, ActorUnit, TargetCity, 1},
	{ActionInciteCity, ActorUnit, TargetCity, 1},
	{ActionInciteCityEscape, ActorUnit, TargetCity, 1},
	{ActionFoundCity, ActorUnit, TargetTile, 0},
	{ActionJoinCity, ActorUnit, TargetCity, 1},
	{ActionHelpWonder, ActorUnit, TargetCity, 1},
	{ActionDisbandUnitRecover, ActorUnit, TargetCity, 1},
	{ActionDisbandUnit, ActorUnit, TargetSelf, 0},
	{ActionCaptureUnits, ActorUnit, TargetUnits, 1},
	{ActionBombard, ActorUnit, TargetUnits, 1},
	{ActionConquerCity, ActorUnit, TargetCity, 1},
	{ActionPillage, ActorUnit, TargetTile, 0},
	{ActionBuildRoad, ActorUnit, TargetTile, 0},
	{ActionBuildIrrigation, ActorUnit, TargetTile, 0},
	{ActionBuildMine, ActorUnit, TargetTile, 0},
	{ActionTransformTerrain, ActorUnit, TargetTile, 0},
	{ActionClean, ActorUnit, TargetTile, 0},
	{ActionUpgradeUnit, ActorUnit, TargetCity, 0},
	{ActionFortify, ActorUnit, TargetSelf, 0},
	{ActionExplodeNuclear, ActorUnit, TargetTile, 0},
	{ActionParadropUnit, ActorUnit, TargetTile, 10},
	{ActionEstablishTradeRoute, ActorUnit, TargetCity, 1},
	{ActionEnterMarketplace, ActorUnit, TargetCity, 1},
	{ActionAirliftUnit, ActorUnit, TargetCity, 0},
	{ActionHealUnit, ActorUnit, TargetUnit, 1},
	{ActionExpelUnit, ActorUnit, TargetUnit, 1},
	{ActionDisbandCity, ActorCity, TargetSelf, 0},
}

// BuiltinActionCount is the number of actions every catalog starts with.
var BuiltinActionCount = len(builtinActions)

// Enabler allows an action when both its actor and its target requirements
// are fulfilled. An action can have any number of enablers; it is enabled if
// any one of them is.
type Enabler struct {
	ID     ID
	Action ID
	Actor  req.Vector
	Target req.Vector

	// Disabled enablers stay in the catalog so the IDs of the others do not
	// change, but never enable anything.
	Disabled bool

	// Origin says where the enabler came from: the name of its section in the
	// ruleset, or a description starting with OriginSynthesized for enablers
	// created while loading.
	Origin string
}

// OriginSynthesized starts the Origin of enablers not written in the
// ruleset.
const OriginSynthesized = "synthesized:"

// Vector numbers of an enabler's requirement vectors.
const (
	VectorActor  = 0
	VectorTarget = 1
)

// Clone returns a deep copy of e. The clone has no ID until it is added to a
// catalog.
func (e *Enabler) Clone() *Enabler {
	return &Enabler{
		ID:       NoID,
		Action:   e.Action,
		Actor:    e.Actor.Clone(),
		Target:   e.Target.Clone(),
		Disabled: e.Disabled,
		Origin:   e.Origin,
	}
}

// Vector returns the requirement vector of e with the given number, or nil
// if there is none. It can be used as a req.VectorByNumber.
func (e *Enabler) Vector(n int) *req.Vector {
	switch n {
	case VectorActor:
		return &e.Actor
	case VectorTarget:
		return &e.Target
	default:
		return nil
	}
}

// VectorName returns the name of the requirement vector with the given
// number.
func VectorName(n int) string {
	switch n {
	case VectorActor:
		return "actor_reqs"
	case VectorTarget:
		return "target_reqs"
	default:
		return fmt.Sprintf("reqs#%d", n)
	}
}
