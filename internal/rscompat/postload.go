package rscompat

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/enabler"
	"github.com/dekarrin/civrules/internal/req"
)

// FullMoveCost is the move cost that takes all of a unit's remaining moves.
const FullMoveCost = 65535

// actions that used up all remaining moves before format version 4 and now
// need an effect to keep doing so.
var fullMoveActions = []string{
	catalog.ActionEstablishEmbassyStay,
	catalog.ActionInvestigateCity,
	catalog.ActionEstablishTradeRoute,
	catalog.ActionEnterMarketplace,
}

// PostLoad brings the loaded records of an older ruleset up to the current
// format by adding the enablers, effects and requirements that older formats
// implied. It does nothing unless compat mode is on and the ruleset is older
// than FormatCurrent. As its last step it repairs every enabler, and returns
// what that repair did.
func PostLoad(c *catalog.Catalog, info *Info) (enabler.Result, error) {
	if !info.CompatMode || !info.Before(FormatCurrent) {
		return enabler.Result{}, nil
	}

	if info.Before(3) {
		if err := synthPillage(c, info); err != nil {
			return enabler.Result{}, err
		}
		if err := synthDisbandRecoverValue(c, info); err != nil {
			return enabler.Result{}, err
		}
	}

	if info.Before(4) {
		if err := conquerNeedsMoves(c, info); err != nil {
			return enabler.Result{}, err
		}
		if err := synthDisbandUnit(c, info); err != nil {
			return enabler.Result{}, err
		}
		if err := synthFullMoveCosts(c, info); err != nil {
			return enabler.Result{}, err
		}
	}

	rp := enabler.NewRepairer(c, enabler.NewChecker(c), enabler.LogFunc(info.Log))
	res, err := rp.RepairAll()
	if err != nil {
		return res, fmt.Errorf("repairing enablers: %w", err)
	}
	return res, nil
}

func lookupReq(c *catalog.Catalog, kind req.Kind, value string, present bool) (req.Requirement, error) {
	r, err := req.FromNames(c, kind.String(), "", present, false, false, value)
	if err != nil {
		return r, fmt.Errorf("%s %q: %w", kind, value, err)
	}
	return r, nil
}

func actionID(c *catalog.Catalog, name string) (catalog.ID, error) {
	id, ok := c.Actions.ByName(name)
	if !ok {
		return catalog.NoID, fmt.Errorf("no action %q", name)
	}
	return id, nil
}

func addSynthEnabler(c *catalog.Catalog, info *Info, action string, actor req.Vector) error {
	id, err := actionID(c, action)
	if err != nil {
		return err
	}
	if len(c.EnablersFor(id)) > 0 {
		return nil
	}

	e := &catalog.Enabler{
		Action: id,
		Actor:  actor,
		Target: req.Vector{},
		Origin: catalog.OriginSynthesized + " " + action,
	}
	if _, err := c.AddEnabler(e); err != nil {
		return fmt.Errorf("adding enabler for %q: %w", action, err)
	}
	info.logf("added an enabler for %q, which format version %d allowed implicitly", action, info.Version)
	return nil
}

func synthPillage(c *catalog.Catalog, info *Info) error {
	canPillage, err := lookupReq(c, req.KindUnitClassFlag, FlagCanPillage, true)
	if err != nil {
		return err
	}
	return addSynthEnabler(c, info, catalog.ActionPillage, req.Vector{canPillage})
}

func synthDisbandUnit(c *catalog.Catalog, info *Info) error {
	return addSynthEnabler(c, info, catalog.ActionDisbandUnit, req.Vector{})
}

func synthDisbandRecoverValue(c *catalog.Catalog, info *Info) error {
	act, err := lookupReq(c, req.KindAction, catalog.ActionDisbandUnitRecover, true)
	if err != nil {
		return err
	}

	err = c.AddEffect(&catalog.Effect{
		Type:   catalog.EffectUnitShieldValuePct,
		Value:  -50,
		Reqs:   req.Vector{act},
		Origin: catalog.OriginSynthesized + " " + catalog.EffectUnitShieldValuePct,
	})
	if err != nil {
		return fmt.Errorf("adding %s effect: %w", catalog.EffectUnitShieldValuePct, err)
	}
	info.logf("added a %s effect of -50 for %q, which format version %d applied implicitly", catalog.EffectUnitShieldValuePct, catalog.ActionDisbandUnitRecover, info.Version)
	return nil
}

func conquerNeedsMoves(c *catalog.Catalog, info *Info) error {
	id, err := actionID(c, catalog.ActionConquerCity)
	if err != nil {
		return err
	}
	oneMove, err := lookupReq(c, req.KindMinMoveFrags, "1", true)
	if err != nil {
		return err
	}

	for _, e := range c.EnablersFor(id) {
		if strings.HasPrefix(e.Origin, catalog.OriginSynthesized) || e.Actor.Implies(c, oneMove) {
			continue
		}
		e.Actor.Append(oneMove)
		info.logf("enabler %q for %q now requires the actor to have moves left, as format version %d implied", e.Origin, catalog.ActionConquerCity, info.Version)
	}
	return nil
}

func synthFullMoveCosts(c *catalog.Catalog, info *Info) error {
	for _, name := range fullMoveActions {
		act, err := lookupReq(c, req.KindAction, name, true)
		if err != nil {
			return err
		}

		if hasEffectFor(c, catalog.EffectActionSuccessActorMoveCost, act) {
			continue
		}

		err = c.AddEffect(&catalog.Effect{
			Type:   catalog.EffectActionSuccessActorMoveCost,
			Value:  FullMoveCost,
			Reqs:   req.Vector{act},
			Origin: catalog.OriginSynthesized + " " + catalog.EffectActionSuccessActorMoveCost,
		})
		if err != nil {
			return fmt.Errorf("adding %s effect: %w", catalog.EffectActionSuccessActorMoveCost, err)
		}
		info.logf("added a %s effect for %q, which used all remaining moves in format version %d", catalog.EffectActionSuccessActorMoveCost, name, info.Version)
	}
	return nil
}

func hasEffectFor(c *catalog.Catalog, effType string, r req.Requirement) bool {
	for _, ef := range c.Effects() {
		if ef.Type == effType && ef.Reqs.Contains(r) {
			return true
		}
	}
	return false
}
