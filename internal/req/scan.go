package req

import "fmt"

// FirstContradiction returns the first pair of requirements in vec that
// contradict each other, or nil if there is none. The problem has two
// solutions, one removing each member of the pair. A requirement that can
// never be fulfilled on its own is reported with a single solution removing
// it.
//
// vecNum is the number of vec in its owner and is copied into the solutions.
// vecName is used in the description.
func FirstContradiction(res Resolver, vec Vector, vecNum int, vecName string) *Problem {
	for i := range vec {
		if vec[i].Source.Kind == KindNone && !vec[i].Present {
			return &Problem{
				Description: fmt.Sprintf("requirement {%s} in %s can never be fulfilled", vec[i].Describe(res), vecName),
				Solutions:   []Change{{Op: ChangeRemove, Vector: vecNum, Req: vec[i]}},
				Severity:    SeverityMustRepair,
			}
		}

		for j := i + 1; j < len(vec); j++ {
			if !Contradicts(res, vec[i], vec[j]) {
				continue
			}
			return &Problem{
				Description: fmt.Sprintf("requirements {%s} and {%s} in %s contradict each other", vec[i].Describe(res), vec[j].Describe(res), vecName),
				Solutions: []Change{
					{Op: ChangeRemove, Vector: vecNum, Req: vec[i]},
					{Op: ChangeRemove, Vector: vecNum, Req: vec[j]},
				},
				Severity: SeverityMustRepair,
			}
		}
	}
	return nil
}

// FirstUnused returns the first requirement of vec that relevant says can
// never be evaluated in the context of vec's owner, or nil if there is none.
//
// An irrelevant requirement that must be absent is always fulfilled; the
// problem suggests removing it. An irrelevant requirement that must be present
// is never fulfilled; the problem has no solutions, since the owner can never
// be used no matter how the vector is edited. context describes the owner and
// is used in the description.
func FirstUnused(res Resolver, vec Vector, vecNum int, vecName string, relevant func(Requirement) bool, context string) *Problem {
	for i := range vec {
		if relevant(vec[i]) {
			continue
		}

		if vec[i].Present {
			return &Problem{
				Description: fmt.Sprintf("requirement {%s} in %s can never be fulfilled for %s", vec[i].Describe(res), vecName, context),
				Severity:    SeverityMustRepair,
			}
		}

		// the last copy is named so removing the first copy changes the
		// problem.
		last := i
		for j := i + 1; j < len(vec); j++ {
			if vec[j].Equal(vec[i]) {
				last = j
			}
		}
		return &Problem{
			Description: fmt.Sprintf("requirement {%s} at %s[%d] is always fulfilled for %s", vec[i].Describe(res), vecName, last, context),
			Solutions:   []Change{{Op: ChangeRemove, Vector: vecNum, Req: vec[i]}},
			Severity:    SeverityImprovable,
		}
	}
	return nil
}

// FirstRedundant returns the first requirement of vec that is made redundant
// by another one, or nil if there is none.
//
// Exact duplicates are found first and give two solutions that remove equal
// requirements. Then a requirement implied by another requirement with the
// same subject (a broader range or a weaker threshold) gives a single solution
// removing the implied one. Last, a requirement implied by one with a
// different subject, such as a unit class implied by a unit type, gives two
// solutions, removing either, since it is not clear which one the author
// meant to keep.
func FirstRedundant(res Resolver, vec Vector, vecNum int, vecName string) *Problem {
	for i := range vec {
		n := vec.Count(vec[i])
		if n < 2 {
			continue
		}
		return &Problem{
			Description: fmt.Sprintf("requirement {%s} is listed %d times in %s", vec[i].Describe(res), n, vecName),
			Solutions: []Change{
				{Op: ChangeRemove, Vector: vecNum, Req: vec[i]},
				{Op: ChangeRemove, Vector: vecNum, Req: vec[i]},
			},
			Severity: SeverityImprovable,
		}
	}

	for i := range vec {
		for j := range vec {
			if i == j || !SameSubject(vec[i], vec[j]) {
				continue
			}
			if !Implies(res, vec[i], vec[j]) {
				continue
			}
			return &Problem{
				Description: fmt.Sprintf("requirement {%s} in %s is implied by {%s}", vec[j].Describe(res), vecName, vec[i].Describe(res)),
				Solutions:   []Change{{Op: ChangeRemove, Vector: vecNum, Req: vec[j]}},
				Severity:    SeverityImprovable,
			}
		}
	}

	for i := range vec {
		for j := range vec {
			if i == j || SameSubject(vec[i], vec[j]) {
				continue
			}
			if !Implies(res, vec[i], vec[j]) {
				continue
			}
			return &Problem{
				Description: fmt.Sprintf("requirements {%s} and {%s} in %s are redundant with each other", vec[i].Describe(res), vec[j].Describe(res), vecName),
				Solutions: []Change{
					{Op: ChangeRemove, Vector: vecNum, Req: vec[i]},
					{Op: ChangeRemove, Vector: vecNum, Req: vec[j]},
				},
				Severity: SeverityImprovable,
			}
		}
	}
	return nil
}

// IsSimple returns whether p is a redundancy that can be fixed without asking
// anyone: either its only solution is a removal, or all its solutions remove
// the same requirement.
func IsSimple(p *Problem) bool {
	if p == nil || len(p.Solutions) == 0 {
		return false
	}
	first := p.Solutions[0]
	if first.Op != ChangeRemove {
		return false
	}
	for _, s := range p.Solutions[1:] {
		if s.Op != first.Op || s.Vector != first.Vector || !s.Req.Equal(first.Req) {
			return false
		}
	}
	return true
}
