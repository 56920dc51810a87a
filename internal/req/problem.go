package req

import "fmt"

// Severity says how urgently a Problem should be dealt with. It is only used
// when presenting problems.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityImprovable
	SeverityMustRepair
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityImprovable:
		return "improvable"
	case SeverityMustRepair:
		return "must-repair"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ChangeOp is the operation of a Change.
type ChangeOp int

const (
	ChangeAppend ChangeOp = iota
	ChangeRemove
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeAppend:
		return "APPEND"
	case ChangeRemove:
		return "REMOVE"
	default:
		return fmt.Sprintf("ChangeOp(%d)", int(op))
	}
}

// Change is a single suggested edit to one of the requirement vectors of a
// record. Vector is the number of the vector within the record that owns it;
// records with a single vector use 0.
type Change struct {
	Op     ChangeOp
	Vector int
	Req    Requirement
}

// Describe returns a human-readable description of c. vecName gives the name
// of the vector numbered c.Vector.
func (c Change) Describe(res Resolver, vecName string) string {
	switch c.Op {
	case ChangeAppend:
		return fmt.Sprintf("add %s to %s", c.Req.Describe(res), vecName)
	case ChangeRemove:
		return fmt.Sprintf("remove %s from %s", c.Req.Describe(res), vecName)
	default:
		return fmt.Sprintf("%s %s in %s", c.Op, c.Req.Describe(res), vecName)
	}
}

// Problem is a defect found in one or more requirement vectors along with the
// changes that would each fix it. A Problem with no Solutions cannot be fixed
// by editing the vector.
type Problem struct {
	Description string
	Solutions   []Change
	Severity    Severity
}

func (p Problem) String() string {
	return p.Description
}

// OnlyAppends returns whether p has at least one solution and every solution
// is an append.
func (p Problem) OnlyAppends() bool {
	if len(p.Solutions) == 0 {
		return false
	}
	for _, s := range p.Solutions {
		if s.Op != ChangeAppend {
			return false
		}
	}
	return true
}

// VectorByNumber returns the vector with the given number in its owner, or
// nil if the owner has no vector with that number.
type VectorByNumber func(n int) *Vector

// Apply performs c on the vector byNumber gives for it. It returns false if
// the change could not be made, which happens when the vector does not exist
// or a removed requirement is no longer in it.
func Apply(c Change, byNumber VectorByNumber) bool {
	vec := byNumber(c.Vector)
	if vec == nil {
		return false
	}

	switch c.Op {
	case ChangeAppend:
		vec.Append(c.Req)
		return true
	case ChangeRemove:
		return vec.Remove(c.Req)
	default:
		return false
	}
}

// Single returns a VectorByNumber for an owner with exactly one vector.
func Single(v *Vector) VectorByNumber {
	return func(n int) *Vector {
		if n != 0 {
			return nil
		}
		return v
	}
}
