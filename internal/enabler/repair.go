package enabler

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
)

// LogFunc receives a message about a change made to the catalog.
type LogFunc func(msg string)

// Result counts what a call to Repair did.
type Result struct {
	// Appended is the number of requirements added to enablers, clones
	// included.
	Appended int

	// Forked is the number of new enablers created by splitting an enabler
	// that could be repaired in more than one way.
	Forked int

	// Disabled is the number of enablers that could not be repaired and were
	// disabled.
	Disabled int
}

// Add returns the sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		Appended: r.Appended + o.Appended,
		Forked:   r.Forked + o.Forked,
		Disabled: r.Disabled + o.Disabled,
	}
}

// Repairer fixes enablers that SuggestRepair finds problems with.
//
// Repairer should not be created directly; use NewRepairer.
type Repairer struct {
	cat   *catalog.Catalog
	check *Checker
	log   LogFunc
}

// NewRepairer creates a Repairer that changes enablers of c. Every change it
// makes is reported to log, which may be nil.
func NewRepairer(c *catalog.Catalog, check *Checker, log LogFunc) *Repairer {
	if log == nil {
		log = func(string) {}
	}
	return &Repairer{cat: c, check: check, log: log}
}

// Repair repairs every enabler in ids until none of them, nor any clone made
// along the way, has a problem SuggestRepair would report.
//
// A problem whose solutions all append a requirement is fixed by applying
// the last solution to the enabler itself and each of the others to a new
// clone of it, so that every way of fulfilling the requirement stays
// possible. Clones are repaired in turn. A problem with no solutions, or with
// any solution that is not an append, cannot be fixed without guessing what
// the author meant, so the enabler is disabled instead.
//
// An error is returned only if a clone cannot be added to the catalog.
func (rp *Repairer) Repair(ids []catalog.ID) (Result, error) {
	var res Result

	queue := make([]catalog.ID, len(ids))
	copy(queue, ids)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		e := rp.cat.Enabler(id)
		if e == nil || e.Disabled {
			continue
		}

		for {
			p := rp.check.SuggestRepair(e)
			if p == nil {
				break
			}

			if !p.OnlyAppends() {
				e.Disabled = true
				res.Disabled++
				rp.log(fmt.Sprintf("%s; disabling it", p.Description))
				break
			}

			last := len(p.Solutions) - 1
			for _, sol := range p.Solutions[:last] {
				clone := e.Clone()
				req.Apply(sol, clone.Vector)
				if clone.Origin != "" {
					clone.Origin = fmt.Sprintf("%s (%s)", e.Origin, sol.Req.Describe(rp.cat))
				}

				cloneID, err := rp.cat.AddEnabler(clone)
				if err != nil {
					return res, fmt.Errorf("splitting %s: %w", rp.check.Describe(e), err)
				}
				queue = append(queue, cloneID)
				res.Forked++
				res.Appended++
				rp.log(fmt.Sprintf("%s: added %s to a copy", p.Description, sol.Req.Describe(rp.cat)))
			}

			req.Apply(p.Solutions[last], e.Vector)
			res.Appended++
			rp.log(fmt.Sprintf("%s: added %s", p.Description, p.Solutions[last].Req.Describe(rp.cat)))
		}
	}

	return res, nil
}

// RepairAll repairs every enabler in the catalog.
func (rp *Repairer) RepairAll() (Result, error) {
	return rp.Repair(rp.cat.EnablerIDs())
}
