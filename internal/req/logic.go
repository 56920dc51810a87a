package req

// subjectHas reports what a present requirement a says about whether its
// subject has the property src. known is false when a says nothing about
// src. Both requirements are assumed to be evaluated at the same range.
func subjectHas(res Resolver, a Requirement, src Universal) (has bool, known bool) {
	if a.Source == src {
		return true, true
	}

	if a.Source.Kind == src.Kind {
		if exclusiveValues(src.Kind, a.Source.Value, src.Value) {
			return false, true
		}
		return false, false
	}

	if res == nil {
		return false, false
	}

	switch a.Source.Kind {
	case KindUnitType:
		switch src.Kind {
		case KindUnitClass:
			return res.UnitTypeClass(a.Source.Value) == src.Value, true
		case KindUnitFlag:
			return res.UnitTypeHasFlag(a.Source.Value, src.Value), true
		case KindUnitClassFlag:
			return res.UnitClassHasFlag(res.UnitTypeClass(a.Source.Value), src.Value), true
		}
	case KindUnitClass:
		if src.Kind == KindUnitClassFlag {
			return res.UnitClassHasFlag(a.Source.Value, src.Value), true
		}
	case KindTerrain:
		switch src.Kind {
		case KindTerrainClass:
			return res.TerrainClass(a.Source.Value) == src.Value, true
		case KindTerrainFlag:
			return res.TerrainHasFlag(a.Source.Value, src.Value), true
		}
	}
	return false, false
}

func exclusiveValues(k Kind, a, b int) bool {
	if a == b {
		return false
	}
	if k == KindDiplRel {
		// only the main diplomatic states rule each other out
		return a <= DiplRelTeam && b <= DiplRelTeam
	}
	return k.Exclusive()
}

// thresholdsConflict checks two requirements of the same numeric kind at the
// same range.
func thresholdsConflict(a, b Requirement) bool {
	if a.Present == b.Present {
		return false
	}
	pres, abs := a, b
	if !a.Present {
		pres, abs = b, a
	}
	if a.Source.Kind.IsMaximum() {
		// at most n, and not at most m
		return abs.Source.Value >= pres.Source.Value
	}
	// at least n, and not at least m
	return abs.Source.Value <= pres.Source.Value
}

// Contradicts returns whether a and b can never be fulfilled at the same time.
//
// Requirements at different ranges only contradict each other when they test
// the same source: having it at a narrow range means having it at every
// broader one, so it cannot also be missing there.
func Contradicts(res Resolver, a, b Requirement) bool {
	if a.Source == b.Source && a.Present != b.Present {
		if a.Range == b.Range {
			return true
		}
		if a.Survives != b.Survives {
			return false
		}
		pres, abs := a, b
		if !a.Present {
			pres, abs = b, a
		}
		return pres.Range.Contains(abs.Range)
	}

	if a.Range != b.Range || a.Source == b.Source {
		return false
	}

	if a.Source.Kind == b.Source.Kind && a.Source.Kind.IsNumeric() {
		return thresholdsConflict(a, b)
	}

	if a.Present && b.Present && a.Source.Kind == b.Source.Kind {
		return exclusiveValues(a.Source.Kind, a.Source.Value, b.Source.Value)
	}

	if a.Present {
		if has, known := subjectHas(res, a, b.Source); known && has != b.Present {
			return true
		}
	}
	if b.Present {
		if has, known := subjectHas(res, b, a.Source); known && has != a.Present {
			return true
		}
	}
	return false
}

// Implies returns whether a being fulfilled forces b to be fulfilled as well.
// Every requirement implies itself.
func Implies(res Resolver, a, b Requirement) bool {
	if a.Equal(b) {
		return true
	}

	if a.Source == b.Source && a.Survives == b.Survives && a.Present == b.Present {
		if a.Present {
			// there at a narrow range means there at any broader one
			return a.Range.Contains(b.Range)
		}
		return b.Range.Contains(a.Range)
	}

	if a.Range != b.Range || a.Survives || b.Survives {
		return false
	}

	if a.Source.Kind == b.Source.Kind && a.Source.Kind.IsNumeric() {
		if a.Present != b.Present {
			return false
		}
		lower := a.Present != a.Source.Kind.IsMaximum()
		if lower {
			return b.Source.Value <= a.Source.Value
		}
		return b.Source.Value >= a.Source.Value
	}

	if !a.Present {
		// not having the narrower property means not having anything that
		// would give it.
		if b.Present {
			return false
		}
		has, known := subjectHas(res, b.Negated(), a.Source)
		return known && has
	}

	has, known := subjectHas(res, a, b.Source)
	return known && has == b.Present
}

// SameSubject returns whether a and b test the same source, so that one of
// them can only be redundant to the other through range or threshold.
func SameSubject(a, b Requirement) bool {
	if a.Source.Kind != b.Source.Kind {
		return false
	}
	return a.Source.Value == b.Source.Value || a.Source.Kind.IsNumeric()
}
