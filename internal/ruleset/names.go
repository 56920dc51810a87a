package ruleset

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/secfile"
)

// loadUserFlags fills the user flag slots of every flag table from the
// control sections of the files that own them.
func (ld *loader) loadUserFlags() error {
	lists := []struct {
		file string
		path string
		ft   *catalog.FlagTable
	}{
		{FileUnits, "control.flags", ld.c.UnitFlags},
		{FileUnits, "control.class_flags", ld.c.UnitClassFlags},
		{FileTerrain, "control.flags", ld.c.TerrainFlags},
		{FileTerrain, "control.extra_flags", ld.c.ExtraFlags},
		{FileTechs, "control.flags", ld.c.TechFlags},
	}

	for _, l := range lists {
		if err := loadUserFlagList(ld.fs.get(l.file), l.ft, l.path); err != nil {
			return err
		}
	}
	return nil
}

func loadUserFlagList(f *secfile.File, ft *catalog.FlagTable, path string) error {
	n, err := f.LookupList("%s", path)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		name, err := f.LookupStr("%s.%d.name", path, i)
		if err != nil {
			return err
		}
		help, err := f.LookupStrDefault("", "%s.%d.helptxt", path, i)
		if err != nil {
			return err
		}
		if err := ft.SetUser(i, name, help); err != nil {
			return fmt.Errorf("%q: %s.%d: %w", f.Name(), path, i, err)
		}
	}
	return nil
}

// loadNames registers one record for every section of f that starts with
// prefix, using the section's name key. mk creates the record that gets the
// given ID.
func loadNames[T any](f *secfile.File, prefix string, t *catalog.Table[T], mk func(id catalog.ID, name string) T) error {
	for _, sec := range f.SectionsByPrefix(prefix) {
		name, err := f.LookupStr("%s.name", sec)
		if err != nil {
			return err
		}
		if _, err := t.Add(name, mk(catalog.ID(t.Len()), name)); err != nil {
			return fmt.Errorf("%q: %s: %w", f.Name(), sec, err)
		}
	}
	return nil
}

// loadAllNames is the first pass of loading. It registers every record of
// every kind under its name, so that the second pass can resolve references
// no matter which file or section they point into.
func (ld *loader) loadAllNames() error {
	c := ld.c

	steps := []func() error{
		func() error {
			return loadNames(ld.fs.get(FileTechs), prefixTech, c.Techs, func(id catalog.ID, name string) *catalog.Tech {
				return &catalog.Tech{ID: id, Name: name, Req1: catalog.NoID, Req2: catalog.NoID, RootReq: catalog.NoID}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileBuildings), prefixBuilding, c.Buildings, func(id catalog.ID, name string) *catalog.Building {
				return &catalog.Building{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileUnits), prefixUnitClass, c.UnitClasses, func(id catalog.ID, name string) *catalog.UnitClass {
				return &catalog.UnitClass{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileUnits), prefixUnitType, c.UnitTypes, func(id catalog.ID, name string) *catalog.UnitType {
				return &catalog.UnitType{ID: id, Name: name, Class: catalog.NoID, TechReq: catalog.NoID, ObsoletedBy: catalog.NoID}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileTerrain), prefixTerrain, c.Terrains, func(id catalog.ID, name string) *catalog.Terrain {
				return &catalog.Terrain{ID: id, Name: name, TransformTo: catalog.NoID}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileTerrain), prefixExtra, c.Extras, func(id catalog.ID, name string) *catalog.Extra {
				return &catalog.Extra{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGovernments), prefixGovernment, c.Governments, func(id catalog.ID, name string) *catalog.Government {
				return &catalog.Government{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileNations), prefixNation, c.Nations, func(id catalog.ID, name string) *catalog.Nation {
				return &catalog.Nation{ID: id, Name: name, InitGovernment: catalog.NoID, Style: catalog.NoID}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileCities), prefixSpecialist, c.Specialists, func(id catalog.ID, name string) *catalog.Specialist {
				return &catalog.Specialist{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileCities), prefixCityStyle, c.CityStyles, func(id catalog.ID, name string) *catalog.CityStyle {
				return &catalog.CityStyle{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileStyles), prefixMusicStyle, c.MusicStyles, func(id catalog.ID, name string) *catalog.MusicStyle {
				return &catalog.MusicStyle{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGame), prefixDisaster, c.Disasters, func(id catalog.ID, name string) *catalog.Disaster {
				return &catalog.Disaster{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGame), prefixAchievement, c.Achievements, func(id catalog.ID, name string) *catalog.Achievement {
				return &catalog.Achievement{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGame), prefixCounter, c.Counters, func(id catalog.ID, name string) *catalog.Counter {
				return &catalog.Counter{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGame), prefixMultiplier, c.Multipliers, func(id catalog.ID, name string) *catalog.Multiplier {
				return &catalog.Multiplier{ID: id, Name: name}
			})
		},
		func() error {
			return loadNames(ld.fs.get(FileGame), prefixGoods, c.Goods, func(id catalog.ID, name string) *catalog.Goods {
				return &catalog.Goods{ID: id, Name: name}
			})
		},
		ld.loadClauseNames,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// loadClauseNames registers the clauses. A clause is named by its type, so
// each type can be given only once.
func (ld *loader) loadClauseNames() error {
	f := ld.fs.get(FileGame)
	for _, sec := range f.SectionsByPrefix(prefixClause) {
		typ, err := lookupEnum(f, catalog.ClauseTypes, "", "%s.type", sec)
		if err != nil {
			return err
		}
		name := catalog.ClauseTypes[typ]
		cl := &catalog.Clause{ID: catalog.ID(ld.c.Clauses.Len()), Name: name, Type: typ}
		if _, err := ld.c.Clauses.Add(name, cl); err != nil {
			return fmt.Errorf("%q: %s: %w", f.Name(), sec, err)
		}
	}
	return nil
}
