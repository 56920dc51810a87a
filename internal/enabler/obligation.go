// Package enabler checks and repairs action enablers. Every action has a
// fixed set of hard requirements that any enabler for it must include; an
// enabler that is missing one is repaired by adding it, and if there is more
// than one way to add it, the enabler is split into one copy per way.
package enabler

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
)

// Alternative is one way of fulfilling an Obligation: a requirement that must
// be in the enabler's vector with the given number.
type Alternative struct {
	Vector int
	Req    req.Requirement
}

// Obligation is a hard requirement of an action. An enabler fulfills it if
// one of its vectors implies any of the alternatives.
type Obligation struct {
	Why          string
	Alternatives []Alternative
}

// Obligations are the obligations of every action, keyed by action ID.
type Obligations map[catalog.ID][]Obligation

type hardReq struct {
	vector  int
	kind    req.Kind
	value   string
	present bool
}

type obligationDef struct {
	actions []string
	why     string
	alts    []hardReq
}

func actorHas(kind req.Kind, value string) hardReq {
	return hardReq{vector: catalog.VectorActor, kind: kind, value: value, present: true}
}

func actorLacks(kind req.Kind, value string) hardReq {
	return hardReq{vector: catalog.VectorActor, kind: kind, value: value, present: false}
}

var (
	diplomatActions = []string{
		catalog.ActionEstablishEmbassy, catalog.ActionEstablishEmbassyStay,
		catalog.ActionInvestigateCity, catalog.ActionInvestigateCitySpendUnit,
		catalog.ActionStealTech, catalog.ActionSabotageCity, catalog.ActionInciteCity,
	}
	escapeActions = []string{
		catalog.ActionStealTechEscape, catalog.ActionSabotageCityEscape,
		catalog.ActionInciteCityEscape,
	}
	terraformActions = []string{
		catalog.ActionBuildRoad, catalog.ActionBuildIrrigation, catalog.ActionBuildMine,
		catalog.ActionTransformTerrain, catalog.ActionClean,
	}
)

var obligationDefs = []obligationDef{
	{
		actions: diplomatActions,
		why:     "the actor must have the Diplomat flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Diplomat")},
	},
	{
		actions: escapeActions,
		why:     "the actor must be able to escape",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Spy")},
	},
	{
		actions: []string{catalog.ActionEstablishEmbassy, catalog.ActionEstablishEmbassyStay, catalog.ActionExpelUnit},
		why:     "the target must belong to a foreign player",
		alts:    []hardReq{actorHas(req.KindDiplRel, "Foreign")},
	},
	{
		actions: []string{catalog.ActionFoundCity},
		why:     "the actor must have the Cities flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Cities")},
	},
	{
		actions: []string{catalog.ActionJoinCity},
		why:     "the actor must have the AddToCity flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "AddToCity")},
	},
	{
		actions: []string{catalog.ActionHelpWonder},
		why:     "the actor must have the HelpWonder flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "HelpWonder")},
	},
	{
		actions: []string{catalog.ActionCaptureUnits},
		why:     "the actor must have the Capturer flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Capturer")},
	},
	{
		actions: []string{catalog.ActionCaptureUnits},
		why:     "the target must have the Capturable flag",
		alts:    []hardReq{{vector: catalog.VectorTarget, kind: req.KindUnitFlag, value: "Capturable", present: true}},
	},
	{
		actions: []string{catalog.ActionBombard},
		why:     "the actor must have the Bombarder flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Bombarder")},
	},
	{
		actions: []string{catalog.ActionBombard, catalog.ActionConquerCity},
		why:     "the actor must be at war with the target",
		alts:    []hardReq{actorHas(req.KindDiplRel, "War")},
	},
	{
		actions: []string{catalog.ActionConquerCity},
		why:     "the actor must be able to occupy cities",
		alts:    []hardReq{actorHas(req.KindUnitClassFlag, "CanOccupyCity")},
	},
	{
		actions: []string{catalog.ActionConquerCity},
		why:     "the actor must be a military unit",
		alts:    []hardReq{actorLacks(req.KindUnitFlag, "NonMil")},
	},
	{
		actions: []string{catalog.ActionPillage},
		why:     "the actor must be able to pillage",
		alts:    []hardReq{actorHas(req.KindUnitClassFlag, "CanPillage")},
	},
	{
		actions: terraformActions,
		why:     "the actor must be able to do terrain work",
		alts: []hardReq{
			actorHas(req.KindUnitFlag, "Settlers"),
			actorHas(req.KindUnitFlag, "Workers"),
		},
	},
	{
		actions: []string{catalog.ActionExplodeNuclear},
		why:     "the actor must have the Nuclear flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Nuclear")},
	},
	{
		actions: []string{catalog.ActionParadropUnit},
		why:     "the actor must have the Paradropper flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "Paradropper")},
	},
	{
		actions: []string{catalog.ActionEstablishTradeRoute, catalog.ActionEnterMarketplace},
		why:     "the actor must have the TradeRoute flag",
		alts:    []hardReq{actorHas(req.KindUnitFlag, "TradeRoute")},
	},
}

// BuildObligations resolves the hard requirements of every action against c.
// An alternative that names a user flag c does not define is left out. An
// obligation can end up with no alternatives at all; it is kept, and no
// enabler for its actions can ever fulfill it.
func BuildObligations(c *catalog.Catalog) Obligations {
	obls := Obligations{}

	for _, def := range obligationDefs {
		var alts []Alternative
		for _, hr := range def.alts {
			src, err := req.UniversalByName(c, hr.kind.String(), hr.value)
			if err != nil {
				continue
			}
			alts = append(alts, Alternative{
				Vector: hr.vector,
				Req:    req.New(src, hr.kind.DefaultRange(), hr.present, false, false),
			})
		}

		for _, name := range def.actions {
			id, ok := c.Actions.ByName(name)
			if !ok {
				continue
			}
			obls[id] = append(obls[id], Obligation{Why: def.why, Alternatives: alts})
		}
	}

	return obls
}

func (a Alternative) describe(res req.Resolver) string {
	return fmt.Sprintf("%s in %s", a.Req.Describe(res), catalog.VectorName(a.Vector))
}
