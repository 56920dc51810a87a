// Package catalog holds the in-memory records of a loaded ruleset. A Catalog
// is created empty for every load, filled in by the loader and then handed to
// its caller; nothing in it is global.
//
// Every kind of record lives in a fixed-capacity table and is referred to by
// its ID within that table. Catalog implements req.Resolver so that
// requirement vectors can be built and reasoned about against it.
package catalog

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/rserr"
)

// Limits are the capacities of the tables of a Catalog.
type Limits struct {
	Techs        int `yaml:"techs"`
	Buildings    int `yaml:"buildings"`
	UnitClasses  int `yaml:"unit_classes"`
	UnitTypes    int `yaml:"unit_types"`
	Terrains     int `yaml:"terrains"`
	Extras       int `yaml:"extras"`
	Governments  int `yaml:"governments"`
	Nations      int `yaml:"nations"`
	Enablers     int `yaml:"enablers"`
	Effects      int `yaml:"effects"`
	Disasters    int `yaml:"disasters"`
	Achievements int `yaml:"achievements"`
	Counters     int `yaml:"counters"`
	Multipliers  int `yaml:"multipliers"`
	Goods        int `yaml:"goods"`
	MusicStyles  int `yaml:"music_styles"`
	CityStyles   int `yaml:"city_styles"`
	Specialists  int `yaml:"specialists"`

	UserUnitFlags      int `yaml:"user_unit_flags"`
	UserUnitClassFlags int `yaml:"user_unit_class_flags"`
	UserTerrainFlags   int `yaml:"user_terrain_flags"`
	UserTechFlags      int `yaml:"user_tech_flags"`
	UserExtraFlags     int `yaml:"user_extra_flags"`
}

// DefaultLimits returns the capacities used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		Techs:        250,
		Buildings:    200,
		UnitClasses:  32,
		UnitTypes:    250,
		Terrains:     96,
		Extras:       128,
		Governments:  32,
		Nations:      500,
		Enablers:     1024,
		Effects:      4096,
		Disasters:    10,
		Achievements: 40,
		Counters:     20,
		Multipliers:  15,
		Goods:        25,
		MusicStyles:  16,
		CityStyles:   32,
		Specialists:  20,

		UserUnitFlags:      32,
		UserUnitClassFlags: 8,
		UserTerrainFlags:   8,
		UserTechFlags:      8,
		UserExtraFlags:     8,
	}
}

// FillDefaults returns a new Limits identical to l but with every unset
// capacity set to its default.
func (l Limits) FillDefaults() Limits {
	def := DefaultLimits()
	fill := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}

	newL := l
	fill(&newL.Techs, def.Techs)
	fill(&newL.Buildings, def.Buildings)
	fill(&newL.UnitClasses, def.UnitClasses)
	fill(&newL.UnitTypes, def.UnitTypes)
	fill(&newL.Terrains, def.Terrains)
	fill(&newL.Extras, def.Extras)
	fill(&newL.Governments, def.Governments)
	fill(&newL.Nations, def.Nations)
	fill(&newL.Enablers, def.Enablers)
	fill(&newL.Effects, def.Effects)
	fill(&newL.Disasters, def.Disasters)
	fill(&newL.Achievements, def.Achievements)
	fill(&newL.Counters, def.Counters)
	fill(&newL.Multipliers, def.Multipliers)
	fill(&newL.Goods, def.Goods)
	fill(&newL.MusicStyles, def.MusicStyles)
	fill(&newL.CityStyles, def.CityStyles)
	fill(&newL.Specialists, def.Specialists)
	fill(&newL.UserUnitFlags, def.UserUnitFlags)
	fill(&newL.UserUnitClassFlags, def.UserUnitClassFlags)
	fill(&newL.UserTerrainFlags, def.UserTerrainFlags)
	fill(&newL.UserTechFlags, def.UserTechFlags)
	fill(&newL.UserExtraFlags, def.UserExtraFlags)
	return newL
}

// Validate returns an error if any capacity is negative or a flag table
// would not fit in a FlagSet.
func (l Limits) Validate() error {
	caps := map[string]int{
		"techs": l.Techs, "buildings": l.Buildings, "unit_classes": l.UnitClasses,
		"unit_types": l.UnitTypes, "terrains": l.Terrains, "extras": l.Extras,
		"governments": l.Governments, "nations": l.Nations, "enablers": l.Enablers,
		"effects": l.Effects, "disasters": l.Disasters, "achievements": l.Achievements,
		"counters": l.Counters, "multipliers": l.Multipliers, "goods": l.Goods,
		"music_styles": l.MusicStyles, "city_styles": l.CityStyles, "specialists": l.Specialists,
	}
	for name, v := range caps {
		if v < 0 {
			return fmt.Errorf("%s: must not be negative", name)
		}
	}

	flags := []struct {
		name    string
		builtin []string
		user    int
	}{
		{"user_unit_flags", BuiltinUnitFlags, l.UserUnitFlags},
		{"user_unit_class_flags", BuiltinUnitClassFlags, l.UserUnitClassFlags},
		{"user_terrain_flags", BuiltinTerrainFlags, l.UserTerrainFlags},
		{"user_tech_flags", BuiltinTechFlags, l.UserTechFlags},
		{"user_extra_flags", BuiltinExtraFlags, l.UserExtraFlags},
	}
	for _, f := range flags {
		if f.user < 0 {
			return fmt.Errorf("%s: must not be negative", f.name)
		}
		if len(f.builtin)+f.user > MaxFlags {
			return fmt.Errorf("%s: must be at most %d", f.name, MaxFlags-len(f.builtin))
		}
	}
	return nil
}

// Catalog is every record of a single loaded ruleset.
//
// Catalog should not be created directly; use New.
type Catalog struct {
	About  About
	Limits Limits

	Techs        *Table[*Tech]
	Buildings    *Table[*Building]
	UnitClasses  *Table[*UnitClass]
	UnitTypes    *Table[*UnitType]
	Terrains     *Table[*Terrain]
	Extras       *Table[*Extra]
	Governments  *Table[*Government]
	Nations      *Table[*Nation]
	Actions      *Table[*Action]
	Disasters    *Table[*Disaster]
	Achievements *Table[*Achievement]
	Counters     *Table[*Counter]
	Multipliers  *Table[*Multiplier]
	Clauses      *Table[*Clause]
	Goods        *Table[*Goods]
	MusicStyles  *Table[*MusicStyle]
	CityStyles   *Table[*CityStyle]
	Specialists  *Table[*Specialist]

	UnitFlags      *FlagTable
	UnitClassFlags *FlagTable
	TerrainFlags   *FlagTable
	TechFlags      *FlagTable
	ExtraFlags     *FlagTable

	enablers []*Enabler
	effects  []*Effect
}

// New creates an empty Catalog with the given capacities. Every unset
// capacity in limits takes its default. The built-in actions are already
// registered in the returned Catalog.
func New(limits Limits) *Catalog {
	limits = limits.FillDefaults()

	c := &Catalog{
		Limits: limits,

		Techs:        newTable[*Tech]("tech", limits.Techs),
		Buildings:    newTable[*Building]("building", limits.Buildings),
		UnitClasses:  newTable[*UnitClass]("unit class", limits.UnitClasses),
		UnitTypes:    newTable[*UnitType]("unit type", limits.UnitTypes),
		Terrains:     newTable[*Terrain]("terrain", limits.Terrains),
		Extras:       newTable[*Extra]("extra", limits.Extras),
		Governments:  newTable[*Government]("government", limits.Governments),
		Nations:      newTable[*Nation]("nation", limits.Nations),
		Actions:      newTable[*Action]("action", len(builtinActions)),
		Disasters:    newTable[*Disaster]("disaster", limits.Disasters),
		Achievements: newTable[*Achievement]("achievement", limits.Achievements),
		Counters:     newTable[*Counter]("counter", limits.Counters),
		Multipliers:  newTable[*Multiplier]("multiplier", limits.Multipliers),
		Clauses:      newTable[*Clause]("clause", len(ClauseTypes)),
		Goods:        newTable[*Goods]("goods", limits.Goods),
		MusicStyles:  newTable[*MusicStyle]("music style", limits.MusicStyles),
		CityStyles:   newTable[*CityStyle]("city style", limits.CityStyles),
		Specialists:  newTable[*Specialist]("specialist", limits.Specialists),

		UnitFlags:      newFlagTable("unit flag", BuiltinUnitFlags, limits.UserUnitFlags),
		UnitClassFlags: newFlagTable("unit class flag", BuiltinUnitClassFlags, limits.UserUnitClassFlags),
		TerrainFlags:   newFlagTable("terrain flag", BuiltinTerrainFlags, limits.UserTerrainFlags),
		TechFlags:      newFlagTable("tech flag", BuiltinTechFlags, limits.UserTechFlags),
		ExtraFlags:     newFlagTable("extra flag", BuiltinExtraFlags, limits.UserExtraFlags),
	}

	for _, def := range builtinActions {
		act := &Action{
			Name:        def.name,
			Actor:       def.actor,
			Target:      def.target,
			UIName:      def.name,
			MaxDistance: def.dist,
		}
		// cannot fail, the table is sized to the built-in list
		act.ID, _ = c.Actions.Add(def.name, act)
	}

	return c
}

// Action returns the action with the given rule name, or nil if there is
// none.
func (c *Catalog) Action(name string) *Action {
	id, ok := c.Actions.ByName(name)
	if !ok {
		return nil
	}
	return c.Actions.Get(id)
}

// AddEnabler registers e, assigns it an ID and returns that ID.
func (c *Catalog) AddEnabler(e *Enabler) (ID, error) {
	if len(c.enablers) >= c.Limits.Enablers {
		return NoID, rserr.Exhausted("action enablers", c.Limits.Enablers)
	}
	if c.Actions.Get(e.Action) == nil {
		return NoID, rserr.New(fmt.Sprintf("enabler refers to unknown action %d", e.Action), rserr.ErrNotFound)
	}
	e.ID = ID(len(c.enablers))
	c.enablers = append(c.enablers, e)
	return e.ID, nil
}

// Enabler returns the enabler with the given ID, or nil.
func (c *Catalog) Enabler(id ID) *Enabler {
	if id < 0 || int(id) >= len(c.enablers) {
		return nil
	}
	return c.enablers[id]
}

// Enablers returns every enabler, disabled ones included, in registration
// order. The returned slice must not be modified.
func (c *Catalog) Enablers() []*Enabler {
	return c.enablers
}

// EnablerIDs returns the IDs of every enabler.
func (c *Catalog) EnablerIDs() []ID {
	ids := make([]ID, len(c.enablers))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// EnablersFor returns the enablers of the action that are not disabled, in
// registration order.
func (c *Catalog) EnablersFor(action ID) []*Enabler {
	var ens []*Enabler
	for _, e := range c.enablers {
		if e.Action == action && !e.Disabled {
			ens = append(ens, e)
		}
	}
	return ens
}

// AddEffect registers an effect.
func (c *Catalog) AddEffect(e *Effect) error {
	if len(c.effects) >= c.Limits.Effects {
		return rserr.Exhausted("effects", c.Limits.Effects)
	}
	c.effects = append(c.effects, e)
	return nil
}

// Effects returns every effect in registration order. The returned slice
// must not be modified.
func (c *Catalog) Effects() []*Effect {
	return c.effects
}

// RemoveEffects removes every effect for which drop returns true and returns
// the removed effects.
func (c *Catalog) RemoveEffects(drop func(e *Effect) bool) []*Effect {
	var kept, removed []*Effect
	for _, e := range c.effects {
		if drop(e) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	c.effects = kept
	return removed
}

// FlagTable returns the flag table that flags of the given requirement kind
// come from, or nil if kind is not a flag kind.
func (c *Catalog) FlagTable(kind req.Kind) *FlagTable {
	switch kind {
	case req.KindUnitFlag:
		return c.UnitFlags
	case req.KindUnitClassFlag:
		return c.UnitClassFlags
	case req.KindTerrainFlag:
		return c.TerrainFlags
	case req.KindTechFlag:
		return c.TechFlags
	case req.KindExtraFlag:
		return c.ExtraFlags
	default:
		return nil
	}
}

type namedTable interface {
	ByName(name string) (ID, bool)
	Name(id ID) string
	Len() int
}

func (c *Catalog) recordTable(kind req.Kind) namedTable {
	switch kind {
	case req.KindAdvance:
		return c.Techs
	case req.KindGovernment:
		return c.Governments
	case req.KindBuilding:
		return c.Buildings
	case req.KindExtra:
		return c.Extras
	case req.KindTerrain:
		return c.Terrains
	case req.KindUnitType:
		return c.UnitTypes
	case req.KindUnitClass:
		return c.UnitClasses
	case req.KindNation:
		return c.Nations
	case req.KindSpecialist:
		return c.Specialists
	case req.KindAchievement:
		return c.Achievements
	case req.KindGood:
		return c.Goods
	case req.KindStyle:
		return c.CityStyles
	case req.KindCounter:
		return c.Counters
	case req.KindAction:
		return c.Actions
	default:
		return nil
	}
}

// ValueByName implements req.Resolver.
func (c *Catalog) ValueByName(kind req.Kind, name string) (int, bool) {
	if ft := c.FlagTable(kind); ft != nil {
		return ft.ByName(name)
	}
	if t := c.recordTable(kind); t != nil {
		id, ok := t.ByName(name)
		return int(id), ok
	}
	return 0, false
}

// ValueName implements req.Resolver.
func (c *Catalog) ValueName(kind req.Kind, value int) string {
	if ft := c.FlagTable(kind); ft != nil {
		return ft.Name(value)
	}
	if t := c.recordTable(kind); t != nil {
		return t.Name(ID(value))
	}
	return ""
}

// UnitTypeClass implements req.Resolver.
func (c *Catalog) UnitTypeClass(utype int) int {
	ut := c.UnitTypes.Get(ID(utype))
	if ut == nil {
		return int(NoID)
	}
	return int(ut.Class)
}

// UnitTypeHasFlag implements req.Resolver.
func (c *Catalog) UnitTypeHasFlag(utype int, flag int) bool {
	ut := c.UnitTypes.Get(ID(utype))
	return ut != nil && ut.Flags.Has(flag)
}

// UnitClassHasFlag implements req.Resolver.
func (c *Catalog) UnitClassHasFlag(class int, flag int) bool {
	uc := c.UnitClasses.Get(ID(class))
	return uc != nil && uc.Flags.Has(flag)
}

// TerrainClass implements req.Resolver.
func (c *Catalog) TerrainClass(terrain int) int {
	t := c.Terrains.Get(ID(terrain))
	if t == nil {
		return -1
	}
	return t.Class
}

// TerrainHasFlag implements req.Resolver.
func (c *Catalog) TerrainHasFlag(terrain int, flag int) bool {
	t := c.Terrains.Get(ID(terrain))
	return t != nil && t.Flags.Has(flag)
}

// VectorOwners returns every requirement vector of every record other than
// enablers and effects, which are examined on their own.
func (c *Catalog) VectorOwners() []VectorOwner {
	var owners []VectorOwner
	add := func(what, name, vecName string, v *req.Vector) {
		owners = append(owners, VectorOwner{What: what, Name: name, VecName: vecName, Vec: v})
	}

	for _, t := range c.Techs.All() {
		add("tech", t.Name, "research_reqs", &t.Research)
	}
	for _, b := range c.Buildings.All() {
		add("building", b.Name, "reqs", &b.Reqs)
	}
	for _, ut := range c.UnitTypes.All() {
		add("unit type", ut.Name, "build_reqs", &ut.BuildReqs)
	}
	for _, e := range c.Extras.All() {
		add("extra", e.Name, "reqs", &e.Reqs)
		add("extra", e.Name, "rmreqs", &e.RmReqs)
	}
	for _, g := range c.Governments.All() {
		add("government", g.Name, "reqs", &g.Reqs)
	}
	for _, d := range c.Disasters.All() {
		add("disaster", d.Name, "reqs", &d.Reqs)
	}
	for _, m := range c.Multipliers.All() {
		add("multiplier", m.Name, "reqs", &m.Reqs)
	}
	for _, cl := range c.Clauses.All() {
		add("clause", cl.Name, "giver_reqs", &cl.GiverReqs)
		add("clause", cl.Name, "receiver_reqs", &cl.ReceiverReqs)
		add("clause", cl.Name, "either_reqs", &cl.EitherReqs)
	}
	for _, g := range c.Goods.All() {
		add("goods", g.Name, "reqs", &g.Reqs)
	}
	for _, ms := range c.MusicStyles.All() {
		add("music style", ms.Name, "reqs", &ms.Reqs)
	}
	for _, cs := range c.CityStyles.All() {
		add("city style", cs.Name, "reqs", &cs.Reqs)
	}
	for _, s := range c.Specialists.All() {
		add("specialist", s.Name, "reqs", &s.Reqs)
	}
	return owners
}

// Counts returns the number of records of each kind, keyed by a
// human-readable name of the kind.
func (c *Catalog) Counts() map[string]int {
	var disabled int
	for _, e := range c.enablers {
		if e.Disabled {
			disabled++
		}
	}

	return map[string]int{
		"techs":             c.Techs.Len(),
		"buildings":         c.Buildings.Len(),
		"unit classes":      c.UnitClasses.Len(),
		"unit types":        c.UnitTypes.Len(),
		"terrains":          c.Terrains.Len(),
		"extras":            c.Extras.Len(),
		"governments":       c.Governments.Len(),
		"nations":           c.Nations.Len(),
		"actions":           c.Actions.Len(),
		"enablers":          len(c.enablers) - disabled,
		"disabled enablers": disabled,
		"effects":           len(c.effects),
		"disasters":         c.Disasters.Len(),
		"achievements":      c.Achievements.Len(),
		"counters":          c.Counters.Len(),
		"multipliers":       c.Multipliers.Len(),
		"clauses":           c.Clauses.Len(),
		"goods":             c.Goods.Len(),
		"music styles":      c.MusicStyles.Len(),
		"city styles":       c.CityStyles.Len(),
		"specialists":       c.Specialists.Len(),
	}
}
