package ruleset

import (
	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/rserr"
)

func (ld *loader) loadAbout() error {
	f := ld.fs.get(FileGame)
	a := &ld.c.About
	var err error

	if a.Name, err = f.LookupStr("about.name"); err != nil {
		return err
	}
	if a.Version, err = f.LookupStrDefault("", "about.version"); err != nil {
		return err
	}
	if a.Summary, err = f.LookupStrDefault("", "about.summary"); err != nil {
		return err
	}
	if a.Description, err = f.LookupStrDefault("", "about.description"); err != nil {
		return err
	}
	return nil
}

// loadActions applies the ruleset's settings to the built-in actions. A
// section may only refer to an action that exists.
func (ld *loader) loadActions() error {
	f := ld.fs.get(FileGame)

	for _, sec := range f.SectionsByPrefix(prefixAction) {
		name, err := f.LookupStr("%s.name", sec)
		if err != nil {
			return err
		}
		act := ld.c.Action(name)
		if act == nil {
			return badValue(f, sec+".name", rserr.ErrNotFound, "no action named %q", name)
		}

		if act.UIName, err = f.LookupStrDefault(act.UIName, "%s.ui_name", sec); err != nil {
			return err
		}
		if act.MaxDistance, err = f.LookupIntRange(act.MaxDistance, 0, 1000, "%s.max_distance", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadEnablers() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for _, sec := range f.SectionsByPrefix(prefixEnabler) {
		name, err := f.LookupStr("%s.action", sec)
		if err != nil {
			return err
		}
		act := c.Action(name)
		if act == nil {
			return badValue(f, sec+".action", rserr.ErrNotFound, "no action named %q", name)
		}

		e := &catalog.Enabler{Action: act.ID, Origin: sec}
		if e.Actor, err = lookupVector(f, c, ld.info, "%s.actor_reqs", sec); err != nil {
			return err
		}
		if e.Target, err = lookupVector(f, c, ld.info, "%s.target_reqs", sec); err != nil {
			return err
		}

		if _, err := c.AddEnabler(e); err != nil {
			return badValue(f, sec, err, "%s", err.Error())
		}
	}
	return nil
}

func (ld *loader) loadDisasters() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixDisaster) {
		d := c.Disasters.Get(catalog.ID(i))
		var err error

		if d.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if d.Frequency, err = f.LookupIntRange(10, 0, 1000, "%s.frequency", sec); err != nil {
			return err
		}
		if d.Effects, err = lookupEnums(f, catalog.DisasterEffects, "%s.effects", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadAchievements() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixAchievement) {
		a := c.Achievements.Get(catalog.ID(i))
		var err error

		if a.Type, err = lookupEnum(f, catalog.AchievementTypes, "", "%s.type", sec); err != nil {
			return err
		}
		if a.Value, err = f.LookupIntRange(0, 0, 1000000, "%s.value", sec); err != nil {
			return err
		}
		if a.Unique, err = f.LookupBoolDefault(false, "%s.unique", sec); err != nil {
			return err
		}
		if a.Culture, err = f.LookupIntRange(0, 0, 1000000, "%s.culture", sec); err != nil {
			return err
		}
		if a.FirstMsg, err = f.LookupStrDefault("", "%s.first_msg", sec); err != nil {
			return err
		}
		if a.CantMsg, err = f.LookupStrDefault("", "%s.cons_msg", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadCounters() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixCounter) {
		ct := c.Counters.Get(catalog.ID(i))
		var err error

		if ct.Type, err = lookupEnum(f, catalog.CounterTypes, "", "%s.type", sec); err != nil {
			return err
		}
		if ct.Checkpoint, err = f.LookupIntRange(0, 0, 1000000, "%s.checkpoint", sec); err != nil {
			return err
		}
		if ct.Default, err = f.LookupIntRange(0, 0, 1000000, "%s.def", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadMultipliers() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixMultiplier) {
		m := c.Multipliers.Get(catalog.ID(i))
		var err error

		if m.Start, err = f.LookupInt("%s.start", sec); err != nil {
			return err
		}
		if m.Stop, err = f.LookupInt("%s.stop", sec); err != nil {
			return err
		}
		if m.Stop <= m.Start {
			return badValue(f, sec+".stop", rserr.ErrMalformed, "stop value %d must be greater than start value %d", m.Stop, m.Start)
		}
		if m.Step, err = f.LookupIntRange(1, 1, m.Stop-m.Start, "%s.step", sec); err != nil {
			return err
		}
		if m.Default, err = f.LookupIntRange(m.Start, m.Start, m.Stop, "%s.default", sec); err != nil {
			return err
		}
		if (m.Default-m.Start)%m.Step != 0 {
			return badValue(f, sec+".default", rserr.ErrMalformed, "default value %d is not a whole number of steps from %d", m.Default, m.Start)
		}
		if m.Offset, err = f.LookupIntDefault(0, "%s.offset", sec); err != nil {
			return err
		}
		if m.Factor, err = f.LookupIntDefault(100, "%s.factor", sec); err != nil {
			return err
		}
		if m.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadClauses() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixClause) {
		cl := c.Clauses.Get(catalog.ID(i))
		var err error

		if cl.GiverReqs, err = lookupVector(f, c, ld.info, "%s.giver_reqs", sec); err != nil {
			return err
		}
		if cl.ReceiverReqs, err = lookupVector(f, c, ld.info, "%s.receiver_reqs", sec); err != nil {
			return err
		}
		if cl.EitherReqs, err = lookupVector(f, c, ld.info, "%s.either_reqs", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadGoods() error {
	f := ld.fs.get(FileGame)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixGoods) {
		g := c.Goods.Get(catalog.ID(i))
		var err error

		if g.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if g.FromPct, err = f.LookupIntRange(100, 0, 1000, "%s.from_pct", sec); err != nil {
			return err
		}
		if g.ToPct, err = f.LookupIntRange(100, 0, 1000, "%s.to_pct", sec); err != nil {
			return err
		}
		if g.OneTimePct, err = f.LookupIntRange(100, 0, 1000, "%s.onetime_pct", sec); err != nil {
			return err
		}
		if g.Flags, err = lookupEnums(f, catalog.GoodsFlags, "%s.flags", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadEffects() error {
	f := ld.fs.get(FileEffects)
	c := ld.c

	for _, sec := range f.SectionsByPrefix(prefixEffect) {
		name, err := f.LookupStr("%s.type", sec)
		if err != nil {
			return err
		}
		typ, ok := catalog.EffectTypeByName(ld.info.EffectTypeName(name))
		if !ok {
			return badValue(f, sec+".type", rserr.ErrNotFound, "unknown effect type %q", name)
		}

		ef := &catalog.Effect{Type: typ, Origin: sec}
		if ef.Value, err = f.LookupInt("%s.value", sec); err != nil {
			return err
		}
		if ef.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if ef.Comment, err = f.LookupStrDefault("", "%s.comment", sec); err != nil {
			return err
		}

		if err := c.AddEffect(ef); err != nil {
			return badValue(f, sec, err, "%s", err.Error())
		}
	}
	return nil
}
