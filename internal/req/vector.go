package req

// Vector is an ordered list of requirements that must all be fulfilled. Order
// carries no meaning for evaluation but is kept so that vectors are written
// back out the way they were read and so that scans report the first problem
// consistently.
type Vector []Requirement

// Append adds r to the end of v.
func (v *Vector) Append(r Requirement) {
	*v = append(*v, r)
}

// Remove removes the first requirement in v that is Equal to r. It returns
// false if there is none.
func (v *Vector) Remove(r Requirement) bool {
	for i := range *v {
		if (*v)[i].Equal(r) {
			*v = append((*v)[:i], (*v)[i+1:]...)
			return true
		}
	}
	return false
}

// Contains returns whether v has a requirement Equal to r.
func (v Vector) Contains(r Requirement) bool {
	return v.Index(r) >= 0
}

// Index returns the position of the first requirement in v Equal to r, or -1.
func (v Vector) Index(r Requirement) int {
	for i := range v {
		if v[i].Equal(r) {
			return i
		}
	}
	return -1
}

// Count returns how many requirements in v are Equal to r.
func (v Vector) Count(r Requirement) int {
	var n int
	for i := range v {
		if v[i].Equal(r) {
			n++
		}
	}
	return n
}

// Clone returns a copy of v that shares no storage with it. The clone of a
// nil Vector is an empty, non-nil Vector.
func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// Equal returns whether v and o have Equal requirements in the same order.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Implies returns whether some requirement of v implies r.
func (v Vector) Implies(res Resolver, r Requirement) bool {
	for i := range v {
		if Implies(res, v[i], r) {
			return true
		}
	}
	return false
}

// ContradictedBy returns whether some requirement of v contradicts r.
func (v Vector) ContradictedBy(res Resolver, r Requirement) bool {
	for i := range v {
		if Contradicts(res, v[i], r) {
			return true
		}
	}
	return false
}

// IsImpossible returns whether v can never be fulfilled.
func (v Vector) IsImpossible(res Resolver) bool {
	return FirstContradiction(res, v, 0, "") != nil
}

// Describe returns the description of every requirement in v.
func (v Vector) Describe(res Resolver) []string {
	descs := make([]string, len(v))
	for i := range v {
		descs[i] = v[i].Describe(res)
	}
	return descs
}
