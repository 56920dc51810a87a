package ruleset

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/enabler"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/report"
)

// sanitize is the final sweep over the loaded records. Enablers are repaired
// first. Then everything that can never apply is removed: enablers no unit
// could ever act through, and effects whose requirements can never all be
// fulfilled. Redundant requirements are removed where that is unambiguous
// and reported where it is not. Impossible vectors of other records are
// reported but left alone.
func (ld *loader) sanitize() error {
	ch := enabler.NewChecker(ld.c)

	rp := enabler.NewRepairer(ld.c, ch, enabler.LogFunc(ld.warner(report.Repair)))
	res, err := rp.RepairAll()
	if err != nil {
		return fmt.Errorf("repairing enablers: %w", err)
	}
	ld.log.Debug("repaired enablers", "appended", res.Appended, "forked", res.Forked, "disabled", res.Disabled)

	ld.purgeEnablers(ch)
	ld.purgeEffects()
	ld.improveEnablers(ch)
	ld.improveVectors()
	ld.reportImpossible()
	return nil
}

// warner returns a function that records a message both as a report warning
// of the given category and in the log.
func (ld *loader) warner(cat report.Category) func(msg string) {
	return func(msg string) {
		ld.rep.Add(cat, msg)
		ld.log.Warn(msg, "category", string(cat))
	}
}

func (ld *loader) purgeEnablers(ch *enabler.Checker) {
	warn := ld.warner(report.Purge)
	for _, e := range ld.c.Enablers() {
		if e.Disabled || ch.PossibleActor(e) {
			continue
		}
		e.Disabled = true
		warn(fmt.Sprintf("%s: no unit type can ever be its actor; disabling it", ch.Describe(e)))
	}
}

func (ld *loader) purgeEffects() {
	warn := ld.warner(report.Purge)
	removed := ld.c.RemoveEffects(func(ef *catalog.Effect) bool {
		return ef.Reqs.IsImpossible(ld.c)
	})
	for _, ef := range removed {
		warn(fmt.Sprintf("effect %q (%s): requirements can never all be fulfilled; removing it", ef.Origin, ef.Type))
	}
}

// improve fixes the problems next returns for as long as they are simple,
// and reports each one. It stops at the first problem that is not simple or
// when there are none left. Every simple fix removes a requirement, so this
// always ends.
func (ld *loader) improve(next func() *req.Problem, byNumber req.VectorByNumber) {
	warn := ld.warner(report.Improvement)
	for {
		p := next()
		if p == nil {
			return
		}
		if !req.IsSimple(p) {
			warn(p.Description)
			return
		}
		req.Apply(p.Solutions[0], byNumber)
		warn(fmt.Sprintf("%s; removed it", p.Description))
	}
}

func (ld *loader) improveEnablers(ch *enabler.Checker) {
	for _, e := range ld.c.Enablers() {
		if e.Disabled {
			continue
		}
		e := e
		ld.improve(func() *req.Problem { return ch.SuggestImprovement(e) }, e.Vector)
	}
}

func (ld *loader) improveVectors() {
	for _, ef := range ld.c.Effects() {
		vec := &ef.Reqs
		label := fmt.Sprintf("effect %q (%s) reqs", ef.Origin, ef.Type)
		ld.improve(func() *req.Problem { return req.FirstRedundant(ld.c, *vec, 0, label) }, req.Single(vec))
	}

	for _, o := range ld.c.VectorOwners() {
		o := o
		label := fmt.Sprintf("%s %q %s", o.What, o.Name, o.VecName)
		ld.improve(func() *req.Problem { return req.FirstRedundant(ld.c, *o.Vec, 0, label) }, req.Single(o.Vec))
	}
}

func (ld *loader) reportImpossible() {
	warn := ld.warner(report.Impossible)
	for _, o := range ld.c.VectorOwners() {
		if o.Vec.IsImpossible(ld.c) {
			warn(fmt.Sprintf("%s %q: %s can never be fulfilled", o.What, o.Name, o.VecName))
		}
	}
}

// audit reports every key of every file that no loader read.
func (ld *loader) audit() {
	warn := ld.warner(report.UnusedKey)
	for _, f := range ld.fs.all() {
		for _, key := range f.Unused() {
			warn(fmt.Sprintf("%q: unused key %q", f.Name(), key))
		}
	}
}
