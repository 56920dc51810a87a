package inspect

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
)

// found is a problem along with how to name the vectors its changes apply
// to.
type found struct {
	p       *req.Problem
	vecName func(n int) string
}

// problems looks for the first remaining problem of every enabler, effect and
// other record with requirements. Loading has already fixed whatever could be
// fixed without a choice, so what is left needs a human.
func (in *Inspector) problems() string {
	var all []found

	for _, e := range in.cat.Enablers() {
		if e.Disabled {
			continue
		}
		p := in.ch.SuggestRepair(e)
		if p == nil {
			p = in.ch.SuggestImprovement(e)
		}
		if p != nil {
			all = append(all, found{p: p, vecName: catalog.VectorName})
		}
	}

	for _, ef := range in.cat.Effects() {
		label := fmt.Sprintf("effect %q (%s) reqs", ef.Origin, ef.Type)
		if p := firstVectorProblem(in.cat, ef.Reqs, label); p != nil {
			all = append(all, found{p: p, vecName: func(int) string { return "reqs" }})
		}
	}

	for _, o := range in.cat.VectorOwners() {
		label := fmt.Sprintf("%s %q %s", o.What, o.Name, o.VecName)
		if p := firstVectorProblem(in.cat, *o.Vec, label); p != nil {
			vecName := o.VecName
			all = append(all, found{p: p, vecName: func(int) string { return vecName }})
		}
	}

	if len(all) == 0 {
		return "No problems found.\n"
	}

	var sb strings.Builder
	for i, f := range all {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(in.wrap(fmt.Sprintf("[%s] %s", f.p.Severity, f.p.Description)))
		if len(f.p.Solutions) == 0 {
			sb.WriteString("  no edit of the requirements fixes this\n")
		}
		for _, sol := range f.p.Solutions {
			sb.WriteString("  fix: ")
			sb.WriteString(sol.Describe(in.cat, f.vecName(sol.Vector)))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d problem(s).\n", len(all)))
	return sb.String()
}

func firstVectorProblem(res req.Resolver, v req.Vector, label string) *req.Problem {
	if p := req.FirstContradiction(res, v, 0, label); p != nil {
		return p
	}
	return req.FirstRedundant(res, v, 0, label)
}
