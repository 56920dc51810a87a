package enabler

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
)

// Checker finds problems in action enablers.
//
// Checker should not be created directly; use NewChecker.
type Checker struct {
	cat  *catalog.Catalog
	obls Obligations
}

// NewChecker creates a Checker for the enablers of c. All names in c,
// including user flag names, must already be registered, since the
// obligations of each action are resolved here.
func NewChecker(c *catalog.Catalog) *Checker {
	return &Checker{
		cat:  c,
		obls: BuildObligations(c),
	}
}

// Obligations returns the obligations of the action.
func (ch *Checker) Obligations(action catalog.ID) []Obligation {
	return ch.obls[action]
}

// Describe returns a short name for e to use in messages.
func (ch *Checker) Describe(e *catalog.Enabler) string {
	actName := ch.cat.Actions.Name(e.Action)
	if e.Origin == "" {
		return fmt.Sprintf("enabler #%d for %q", e.ID, actName)
	}
	return fmt.Sprintf("enabler %q for %q", e.Origin, actName)
}

// MissingObligatory returns the first obligation of e's action that e does
// not fulfill, or nil if it fulfills all of them. Each solution of the
// problem appends one of the obligation's alternatives; alternatives that
// would contradict what e already requires are not offered, so the problem
// may have no solutions at all.
func (ch *Checker) MissingObligatory(e *catalog.Enabler) *req.Problem {
	for _, obl := range ch.obls[e.Action] {
		if ch.fulfills(e, obl) {
			continue
		}

		var sols []req.Change
		var offered []string
		for _, alt := range obl.Alternatives {
			vec := e.Vector(alt.Vector)
			if vec == nil || vec.ContradictedBy(ch.cat, alt.Req) {
				continue
			}
			sols = append(sols, req.Change{Op: req.ChangeAppend, Vector: alt.Vector, Req: alt.Req})
			offered = append(offered, alt.describe(ch.cat))
		}

		desc := fmt.Sprintf("%s is missing a hard requirement: %s", ch.Describe(e), obl.Why)
		switch {
		case len(offered) > 0:
			desc += " (needs one of: " + strings.Join(offered, "; ") + ")"
		case len(obl.Alternatives) == 0:
			desc += ", and nothing in the ruleset can fulfill it"
		default:
			desc += " and it contradicts every way of fulfilling it"
		}

		return &req.Problem{
			Description: desc,
			Solutions:   sols,
			Severity:    req.SeverityMustRepair,
		}
	}
	return nil
}

func (ch *Checker) fulfills(e *catalog.Enabler, obl Obligation) bool {
	for _, alt := range obl.Alternatives {
		vec := e.Vector(alt.Vector)
		if vec != nil && vec.Implies(ch.cat, alt.Req) {
			return true
		}
	}
	return false
}

// Relevant returns whether requirement r in e's vector with the given number
// can ever make a difference to whether e enables its action.
func (ch *Checker) Relevant(e *catalog.Enabler, vecNum int, r req.Requirement) bool {
	act := ch.cat.Actions.Get(e.Action)
	if act == nil {
		return true
	}
	unitLocal := r.Source.Kind.UnitSubject() && r.Range == req.RangeLocal

	switch vecNum {
	case catalog.VectorActor:
		return !(unitLocal && act.Actor != catalog.ActorUnit)
	case catalog.VectorTarget:
		switch act.Target {
		case catalog.TargetSelf:
			return false
		case catalog.TargetUnit, catalog.TargetUnits:
			return true
		default:
			return !unitLocal
		}
	}
	return true
}

func (ch *Checker) targetContext(e *catalog.Enabler, vecNum int) string {
	act := ch.cat.Actions.Get(e.Action)
	if act == nil {
		return ch.Describe(e)
	}
	if vecNum == catalog.VectorActor {
		return fmt.Sprintf("a %s actor of %q", act.Actor, act.Name)
	}
	return fmt.Sprintf("a %s target of %q", act.Target, act.Name)
}

// SuggestRepair returns the first problem with e that must be fixed for e to
// be usable: a missing hard requirement, then requirements that contradict
// each other, then a requirement that can never be fulfilled in e's context.
// It returns nil if e needs no repair.
func (ch *Checker) SuggestRepair(e *catalog.Enabler) *req.Problem {
	if p := ch.MissingObligatory(e); p != nil {
		return p
	}

	for _, n := range []int{catalog.VectorActor, catalog.VectorTarget} {
		if p := req.FirstContradiction(ch.cat, *e.Vector(n), n, ch.vecLabel(e, n)); p != nil {
			return p
		}
	}

	for _, n := range []int{catalog.VectorActor, catalog.VectorTarget} {
		n := n
		alwaysFalseOnly := func(r req.Requirement) bool {
			return !r.Present || ch.Relevant(e, n, r)
		}
		if p := req.FirstUnused(ch.cat, *e.Vector(n), n, ch.vecLabel(e, n), alwaysFalseOnly, ch.targetContext(e, n)); p != nil {
			return p
		}
	}
	return nil
}

// SuggestImprovement returns the first requirement of e that could be
// removed without changing what e enables: one that is always fulfilled in
// e's context, then one made redundant by another. It returns nil if there
// is none.
func (ch *Checker) SuggestImprovement(e *catalog.Enabler) *req.Problem {
	for _, n := range []int{catalog.VectorActor, catalog.VectorTarget} {
		n := n
		vacuousOnly := func(r req.Requirement) bool {
			return r.Present || ch.Relevant(e, n, r)
		}
		if p := req.FirstUnused(ch.cat, *e.Vector(n), n, ch.vecLabel(e, n), vacuousOnly, ch.targetContext(e, n)); p != nil {
			return p
		}
	}

	for _, n := range []int{catalog.VectorActor, catalog.VectorTarget} {
		if p := req.FirstRedundant(ch.cat, *e.Vector(n), n, ch.vecLabel(e, n)); p != nil {
			return p
		}
	}
	return nil
}

func (ch *Checker) vecLabel(e *catalog.Enabler, n int) string {
	return ch.Describe(e) + " " + catalog.VectorName(n)
}

// PossibleActor returns whether any unit type in the catalog could ever be
// the actor of e, judging by the requirements of e's actor vector that are
// about the acting unit itself. Enablers of actions with a city as actor are
// always possible.
func (ch *Checker) PossibleActor(e *catalog.Enabler) bool {
	act := ch.cat.Actions.Get(e.Action)
	if act == nil || act.Actor != catalog.ActorUnit {
		return true
	}

	for _, ut := range ch.cat.UnitTypes.All() {
		if ch.unitFits(ut, e.Actor) {
			return true
		}
	}
	return false
}

func (ch *Checker) unitFits(ut *catalog.UnitType, vec req.Vector) bool {
	for _, r := range vec {
		if r.Range != req.RangeLocal {
			continue
		}

		var has bool
		switch r.Source.Kind {
		case req.KindUnitType:
			has = int(ut.ID) == r.Source.Value
		case req.KindUnitClass:
			has = int(ut.Class) == r.Source.Value
		case req.KindUnitFlag:
			has = ut.Flags.Has(r.Source.Value)
		case req.KindUnitClassFlag:
			has = ch.cat.UnitClassHasFlag(int(ut.Class), r.Source.Value)
		default:
			continue
		}
		if has != r.Present {
			return false
		}
	}
	return true
}
