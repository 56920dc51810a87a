package req

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/civrules/internal/rserr"
)

// Resolver gives the requirement model access to the records a requirement
// refers to. It is implemented by the record catalog; names must have been
// registered with it before any requirement naming them can be resolved.
type Resolver interface {
	// ValueByName returns the value of the record or flag of the given kind
	// with the given name. ok is false if there is no such name.
	ValueByName(kind Kind, name string) (value int, ok bool)

	// ValueName returns the rule name of the record or flag of the given
	// kind. It returns "" if there is no such value.
	ValueName(kind Kind, value int) string

	// UnitTypeClass returns the unit class value of the unit type.
	UnitTypeClass(utype int) int

	// UnitTypeHasFlag returns whether the unit type has the unit flag.
	UnitTypeHasFlag(utype int, flag int) bool

	// UnitClassHasFlag returns whether the unit class has the class flag.
	UnitClassHasFlag(class int, flag int) bool

	// TerrainClass returns the index into TerrainClassNames of the terrain's
	// class.
	TerrainClass(terrain int) int

	// TerrainHasFlag returns whether the terrain has the terrain flag.
	TerrainHasFlag(terrain int, flag int) bool
}

// Universal is the source of a requirement; the thing that must be present
// (or absent) for the requirement to be fulfilled.
type Universal struct {
	Kind  Kind
	Value int
}

// String gives a compact representation of u that does not need a Resolver.
func (u Universal) String() string {
	return fmt.Sprintf("%s(%d)", u.Kind, u.Value)
}

// Name returns the rule name of the value of u.
func (u Universal) Name(res Resolver) string {
	switch u.Kind.info().domain {
	case domainRecord, domainFlag:
		if res != nil {
			if n := res.ValueName(u.Kind, u.Value); n != "" {
				return n
			}
		}
		return "#" + strconv.Itoa(u.Value)
	case domainEnum:
		names := u.Kind.EnumNames()
		if u.Value >= 0 && u.Value < len(names) {
			return names[u.Value]
		}
		return "#" + strconv.Itoa(u.Value)
	case domainNumber:
		return strconv.Itoa(u.Value)
	default:
		return ""
	}
}

// UniversalByName resolves a kind name and a value name into a Universal.
func UniversalByName(res Resolver, kindName string, valueName string) (Universal, error) {
	kind, ok := KindByName(kindName)
	if !ok {
		return Universal{Kind: KindInvalid}, rserr.New(fmt.Sprintf("unknown requirement type %q", kindName), rserr.ErrMalformed)
	}

	u := Universal{Kind: kind}
	switch kind.info().domain {
	case domainNone:
		return u, nil
	case domainRecord, domainFlag:
		v, ok := res.ValueByName(kind, valueName)
		if !ok {
			return Universal{Kind: KindInvalid}, rserr.New(fmt.Sprintf("%s: no %s named %q", kind, kindNoun(kind), valueName), rserr.ErrNotFound)
		}
		u.Value = v
	case domainEnum:
		found := false
		for i, n := range kind.EnumNames() {
			if strings.EqualFold(n, valueName) {
				u.Value = i
				found = true
				break
			}
		}
		if !found {
			return Universal{Kind: KindInvalid}, rserr.New(fmt.Sprintf("%s: %q is not a known value", kind, valueName), rserr.ErrMalformed)
		}
	case domainNumber:
		n, err := strconv.Atoi(strings.TrimSpace(valueName))
		if err != nil {
			return Universal{Kind: KindInvalid}, rserr.New(fmt.Sprintf("%s: %q is not a number", kind, valueName), rserr.ErrMalformed)
		}
		u.Value = n
	}
	return u, nil
}

func kindNoun(k Kind) string {
	if k.IsFlag() {
		return "flag"
	}
	return "record"
}

// Requirement is a single condition on game state. Requirements are compared
// by value; Quiet only affects how a requirement is shown to players and is
// ignored by Equal.
type Requirement struct {
	Source   Universal
	Range    Range
	Present  bool
	Survives bool
	Quiet    bool
}

// New creates a Requirement. It does not validate it; see Validate.
func New(src Universal, rng Range, present, survives, quiet bool) Requirement {
	return Requirement{
		Source:   src,
		Range:    rng,
		Present:  present,
		Survives: survives,
		Quiet:    quiet,
	}
}

// FromNames builds a Requirement from the names found in a ruleset. An empty
// rng selects the kind's default range. On failure the returned requirement
// has KindInvalid as its source kind and the error says why.
func FromNames(res Resolver, kind, rng string, present, survives, quiet bool, value string) (Requirement, error) {
	invalid := Requirement{Source: Universal{Kind: KindInvalid}}

	src, err := UniversalByName(res, kind, value)
	if err != nil {
		return invalid, err
	}

	r := src.Kind.DefaultRange()
	if rng != "" {
		var ok bool
		r, ok = RangeByName(rng)
		if !ok {
			return invalid, rserr.New(fmt.Sprintf("unknown range %q", rng), rserr.ErrMalformed)
		}
	}

	req := New(src, r, present, survives, quiet)
	if err := req.Validate(); err != nil {
		return invalid, err
	}
	return req, nil
}

// Validate checks that the range is allowed for the kind and that Survives is
// only set where it has meaning.
func (r Requirement) Validate() error {
	if !r.Source.Kind.Valid() {
		return rserr.New("requirement has no valid type", rserr.ErrMalformed)
	}
	if !r.Source.Kind.ValidRange(r.Range) {
		return rserr.New(fmt.Sprintf("%s requirement cannot have range %s", r.Source.Kind, r.Range), rserr.ErrMalformed)
	}
	if r.Survives {
		switch r.Source.Kind {
		case KindAdvance, KindBuilding, KindAchievement:
		default:
			return rserr.New(fmt.Sprintf("%s requirement cannot survive", r.Source.Kind), rserr.ErrMalformed)
		}
		if r.Range < RangePlayer {
			return rserr.New(fmt.Sprintf("surviving requirement cannot have range %s", r.Range), rserr.ErrMalformed)
		}
	}
	return nil
}

// Equal returns whether r and o test for the same thing. Quiet is not
// considered.
func (r Requirement) Equal(o Requirement) bool {
	return r.Source == o.Source &&
		r.Range == o.Range &&
		r.Present == o.Present &&
		r.Survives == o.Survives
}

// Negated returns r with Present flipped.
func (r Requirement) Negated() Requirement {
	r.Present = !r.Present
	return r
}

// String gives a compact representation of r that does not need a Resolver.
func (r Requirement) String() string {
	return r.Describe(nil)
}

// Describe returns a human-readable description of r, such as
// `UnitFlag "Spy" at Local range`. Negative requirements are prefixed with
// "not".
func (r Requirement) Describe(res Resolver) string {
	var sb strings.Builder
	if !r.Present {
		sb.WriteString("not ")
	}
	sb.WriteString(r.Source.Kind.String())
	if r.Source.Kind != KindNone {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(r.Source.Name(res)))
	}
	sb.WriteString(" at ")
	sb.WriteString(r.Range.String())
	sb.WriteString(" range")
	if r.Survives {
		sb.WriteString(" (survives)")
	}
	return sb.String()
}
