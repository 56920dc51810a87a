package ruleset

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/rserr"
)

func (ld *loader) loadTechs() error {
	f := ld.fs.get(FileTechs)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixTech) {
		t := c.Techs.Get(catalog.ID(i))
		var err error

		if t.Req1, err = lookupRef(f, c.Techs, "tech", "%s.req1", sec); err != nil {
			return err
		}
		if t.Req2, err = lookupRef(f, c.Techs, "tech", "%s.req2", sec); err != nil {
			return err
		}
		if t.RootReq, err = lookupRef(f, c.Techs, "tech", "%s.root_req", sec); err != nil {
			return err
		}
		if t.Research, err = lookupVector(f, c, ld.info, "%s.research_reqs", sec); err != nil {
			return err
		}
		if t.Flags, err = lookupFlags(f, c.TechFlags, nil, "%s.flags", sec); err != nil {
			return err
		}
		if t.Cost, err = f.LookupIntRange(0, 0, 1000000, "%s.cost", sec); err != nil {
			return err
		}
		if t.Graphic, err = f.LookupStrDefault("", "%s.graphic", sec); err != nil {
			return err
		}
		if t.Helptext, err = f.LookupStrDefault("", "%s.helptext", sec); err != nil {
			return err
		}

		if t.Req1 == t.ID || t.Req2 == t.ID {
			return badValue(f, sec, rserr.ErrMalformed, "tech %q requires itself", t.Name)
		}
	}

	return checkTechLoops(c)
}

// checkTechLoops returns an error if any tech can be reached again by
// following its prerequisites.
func checkTechLoops(c *catalog.Catalog) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, c.Techs.Len())

	var visit func(id catalog.ID, path []string) error
	visit = func(id catalog.ID, path []string) error {
		if id == catalog.NoID {
			return nil
		}
		t := c.Techs.Get(id)
		path = append(path, t.Name)

		switch state[id] {
		case done:
			return nil
		case visiting:
			return rserr.New(fmt.Sprintf("techs require each other in a loop: %v", path), rserr.ErrMalformed)
		}

		state[id] = visiting
		for _, r := range []catalog.ID{t.Req1, t.Req2} {
			if err := visit(r, path); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for i := 0; i < c.Techs.Len(); i++ {
		if err := visit(catalog.ID(i), nil); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadTerrain() error {
	f := ld.fs.get(FileTerrain)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixTerrain) {
		t := c.Terrains.Get(catalog.ID(i))
		var err error

		if t.Class, err = lookupEnum(f, req.TerrainClassNames, "", "%s.class", sec); err != nil {
			return err
		}
		if t.Flags, err = lookupFlags(f, c.TerrainFlags, nil, "%s.flags", sec); err != nil {
			return err
		}
		if t.MoveCost, err = f.LookupIntRange(1, 0, 100, "%s.movement_cost", sec); err != nil {
			return err
		}
		if t.Defense, err = f.LookupIntRange(0, 0, 1000, "%s.defense_bonus", sec); err != nil {
			return err
		}
		if t.Food, err = f.LookupIntRange(0, 0, 100, "%s.food", sec); err != nil {
			return err
		}
		if t.Shield, err = f.LookupIntRange(0, 0, 100, "%s.shield", sec); err != nil {
			return err
		}
		if t.Trade, err = f.LookupIntRange(0, 0, 100, "%s.trade", sec); err != nil {
			return err
		}
		if t.TransformTo, err = lookupRef(f, c.Terrains, "terrain", "%s.transform_result", sec); err != nil {
			return err
		}
	}

	for i, sec := range f.SectionsByPrefix(prefixExtra) {
		x := c.Extras.Get(catalog.ID(i))
		var err error

		if x.Category, err = lookupEnum(f, catalog.ExtraCategories, catalog.ExtraCategories[0], "%s.category", sec); err != nil {
			return err
		}
		if x.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if x.RmReqs, err = lookupVector(f, c, ld.info, "%s.rmreqs", sec); err != nil {
			return err
		}
		if x.Flags, err = lookupFlags(f, c.ExtraFlags, nil, "%s.flags", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadBuildings() error {
	f := ld.fs.get(FileBuildings)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixBuilding) {
		b := c.Buildings.Get(catalog.ID(i))
		var err error

		if b.Genus, err = lookupEnum(f, req.BuildingGenusNames, "", "%s.genus", sec); err != nil {
			return err
		}
		if b.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if b.ObsoleteBy, err = lookupVector(f, c, ld.info, "%s.obsolete_by", sec); err != nil {
			return err
		}
		if b.BuildCost, err = f.LookupIntRange(0, 0, 100000, "%s.build_cost", sec); err != nil {
			return err
		}
		if b.Upkeep, err = f.LookupIntRange(0, 0, 1000, "%s.upkeep", sec); err != nil {
			return err
		}
		if b.Sabotage, err = f.LookupIntRange(100, 0, 100, "%s.sabotage", sec); err != nil {
			return err
		}
		if b.Graphic, err = f.LookupStrDefault("", "%s.graphic", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadGovernments() error {
	f := ld.fs.get(FileGovernments)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixGovernment) {
		g := c.Governments.Get(catalog.ID(i))
		var err error

		if g.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if g.RulerMale, err = f.LookupStrDefault("", "%s.ruler_male_title", sec); err != nil {
			return err
		}
		if g.RulerFemale, err = f.LookupStrDefault(g.RulerMale, "%s.ruler_female_title", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadUnits() error {
	f := ld.fs.get(FileUnits)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixUnitClass) {
		uc := c.UnitClasses.Get(catalog.ID(i))
		var err error

		if uc.Flags, err = lookupFlags(f, c.UnitClassFlags, nil, "%s.flags", sec); err != nil {
			return err
		}
		if uc.MinSpeed, err = f.LookupIntRange(1, 0, 1000, "%s.min_speed", sec); err != nil {
			return err
		}
		if uc.HPLossPct, err = f.LookupIntRange(0, 0, 100, "%s.hp_loss_pct", sec); err != nil {
			return err
		}
	}

	for i, sec := range f.SectionsByPrefix(prefixUnitType) {
		ut := c.UnitTypes.Get(catalog.ID(i))
		var err error

		if ut.Class, err = lookupRequiredRef(f, c.UnitClasses, "unit class", "%s.class", sec); err != nil {
			return err
		}
		if ut.TechReq, err = lookupRef(f, c.Techs, "tech", "%s.tech_req", sec); err != nil {
			return err
		}
		if ut.ObsoletedBy, err = lookupRef(f, c.UnitTypes, "unit type", "%s.obsolete_by", sec); err != nil {
			return err
		}
		if ut.ObsoletedBy == ut.ID {
			return badValue(f, sec+".obsolete_by", rserr.ErrMalformed, "unit type %q cannot be obsoleted by itself", ut.Name)
		}
		if ut.BuildReqs, err = lookupVector(f, c, ld.info, "%s.build_reqs", sec); err != nil {
			return err
		}
		if ut.Flags, err = lookupFlags(f, c.UnitFlags, ld.info.UnitFlagName, "%s.flags", sec); err != nil {
			return err
		}
		if ut.BuildCost, err = f.LookupIntRange(0, 0, 100000, "%s.build_cost", sec); err != nil {
			return err
		}
		if ut.Attack, err = f.LookupIntRange(0, 0, 1000, "%s.attack", sec); err != nil {
			return err
		}
		if ut.Defense, err = f.LookupIntRange(0, 0, 1000, "%s.defense", sec); err != nil {
			return err
		}
		if ut.HP, err = f.LookupIntRange(10, 1, 1000, "%s.hitpoints", sec); err != nil {
			return err
		}
		if ut.Firepower, err = f.LookupIntRange(1, 0, 100, "%s.firepower", sec); err != nil {
			return err
		}
		if ut.MoveRate, err = f.LookupIntRange(1, 0, 1000, "%s.move_rate", sec); err != nil {
			return err
		}
		if ut.VisionSq, err = f.LookupIntRange(2, 0, 1000, "%s.vision_radius_sq", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadNations() error {
	f := ld.fs.get(FileNations)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixNation) {
		n := c.Nations.Get(catalog.ID(i))
		var err error

		if n.Plural, err = f.LookupStrDefault(n.Name, "%s.plural", sec); err != nil {
			return err
		}
		if n.Legend, err = f.LookupStrDefault("", "%s.legend", sec); err != nil {
			return err
		}
		if n.InitGovernment, err = lookupRef(f, c.Governments, "government", "%s.init_government", sec); err != nil {
			return err
		}
		if n.Style, err = lookupRef(f, c.CityStyles, "city style", "%s.style", sec); err != nil {
			return err
		}
		if n.PreferredTerrain, err = lookupRefs(f, c.Terrains, "terrain", "%s.preferred_terrain", sec); err != nil {
			return err
		}
		if n.InitUnits, err = lookupRefs(f, c.UnitTypes, "unit type", "%s.init_units", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadCities() error {
	f := ld.fs.get(FileCities)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixSpecialist) {
		s := c.Specialists.Get(catalog.ID(i))
		var err error

		if s.ShortName, err = f.LookupStrDefault(s.Name, "%s.short_name", sec); err != nil {
			return err
		}
		if s.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if s.Graphic, err = f.LookupStrDefault("", "%s.graphic", sec); err != nil {
			return err
		}
	}

	for i, sec := range f.SectionsByPrefix(prefixCityStyle) {
		cs := c.CityStyles.Get(catalog.ID(i))
		var err error

		if cs.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if cs.Graphic, err = f.LookupStrDefault("", "%s.graphic", sec); err != nil {
			return err
		}
		if cs.GraphicAlt, err = f.LookupStrDefault("", "%s.graphic_alt", sec); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) loadStyles() error {
	f := ld.fs.get(FileStyles)
	c := ld.c

	for i, sec := range f.SectionsByPrefix(prefixMusicStyle) {
		ms := c.MusicStyles.Get(catalog.ID(i))
		var err error

		if ms.Reqs, err = lookupVector(f, c, ld.info, "%s.reqs", sec); err != nil {
			return err
		}
		if ms.Peaceful, err = f.LookupStrDefault("", "%s.music_peaceful", sec); err != nil {
			return err
		}
		if ms.Combat, err = f.LookupStrDefault("", "%s.music_combat", sec); err != nil {
			return err
		}
	}
	return nil
}
