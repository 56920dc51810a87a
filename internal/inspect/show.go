package inspect

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/command"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/util"
)

// detail is what SHOW gives for a record.
type detail struct {
	title  string
	fields [][]string
	vecs   []namedVec
	extra  string
}

type namedVec struct {
	name string
	vec  req.Vector
}

func (d *detail) field(name string, value any) {
	d.fields = append(d.fields, []string{name, fmt.Sprintf("%v", value)})
}

func (d *detail) vec(name string, v req.Vector) {
	d.vecs = append(d.vecs, namedVec{name: name, vec: v})
}

func (in *Inspector) show(kind, name string) (string, error) {
	d, err := in.detailOf(kind, name)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(d.title)
	sb.WriteString("\n\n")
	if len(d.fields) > 0 {
		data := append([][]string{{"Field", "Value"}}, d.fields...)
		sb.WriteString(in.table(data))
	}
	for _, nv := range d.vecs {
		sb.WriteString("\n")
		sb.WriteString(in.describeVector(nv.name, nv.vec))
	}
	if d.extra != "" {
		sb.WriteString("\n")
		sb.WriteString(in.wrap(d.extra))
	}
	return sb.String(), nil
}

func (in *Inspector) describeVector(name string, v req.Vector) string {
	if len(v) == 0 {
		return fmt.Sprintf("%s: (none)\n", name)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s:\n", name))
	for _, d := range v.Describe(in.cat) {
		sb.WriteString("  - ")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	return sb.String()
}

func notFound(kind, name string) error {
	return command.Userf("There are no %s named %q", strings.ToLower(kind), name)
}

func flagNames(ft *catalog.FlagTable, fs catalog.FlagSet) string {
	var names []string
	for _, f := range fs.List() {
		names = append(names, ft.Name(f))
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("(%d)", v)
	}
	return names[v]
}

func refName(name string) string {
	if name == "" {
		return "None"
	}
	return name
}

func (in *Inspector) detailOf(kind, name string) (*detail, error) {
	c := in.cat

	if kind == "EFFECTS" {
		for _, ef := range c.Effects() {
			if strings.EqualFold(ef.Origin, name) {
				d := &detail{title: fmt.Sprintf("Effect %s", ef.Origin)}
				d.field("Type", ef.Type)
				d.field("Value", ef.Value)
				if ef.Comment != "" {
					d.field("Comment", ef.Comment)
				}
				d.vec("reqs", ef.Reqs)
				return d, nil
			}
		}
		return nil, notFound(kind, name)
	}

	tbl := in.tableOf(kind)
	if tbl == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	var d *detail
	switch kind {
	case "TECHS":
		id, ok := c.Techs.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		t := c.Techs.Get(id)
		d = &detail{title: fmt.Sprintf("Tech %s (#%d)", t.Name, t.ID)}
		d.field("Requires", fmt.Sprintf("%s, %s", refName(c.Techs.Name(t.Req1)), refName(c.Techs.Name(t.Req2))))
		d.field("Root requirement", refName(c.Techs.Name(t.RootReq)))
		d.field("Flags", flagNames(c.TechFlags, t.Flags))
		d.field("Cost", t.Cost)
		d.vec("research_reqs", t.Research)
		d.extra = t.Helptext
	case "BUILDINGS":
		id, ok := c.Buildings.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		b := c.Buildings.Get(id)
		d = &detail{title: fmt.Sprintf("Building %s (#%d)", b.Name, b.ID)}
		d.field("Genus", enumName(req.BuildingGenusNames, b.Genus))
		d.field("Build cost", b.BuildCost)
		d.field("Upkeep", b.Upkeep)
		d.field("Sabotage", fmt.Sprintf("%d%%", b.Sabotage))
		d.vec("reqs", b.Reqs)
		d.vec("obsolete_by", b.ObsoleteBy)
	case "UNITCLASSES":
		id, ok := c.UnitClasses.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		uc := c.UnitClasses.Get(id)
		d = &detail{title: fmt.Sprintf("Unit class %s (#%d)", uc.Name, uc.ID)}
		d.field("Flags", flagNames(c.UnitClassFlags, uc.Flags))
		d.field("Min speed", uc.MinSpeed)
		d.field("HP loss", fmt.Sprintf("%d%%", uc.HPLossPct))
		var members []string
		for _, ut := range c.UnitTypes.All() {
			if ut.Class == uc.ID {
				members = append(members, ut.Name)
			}
		}
		if len(members) > 0 {
			d.extra = fmt.Sprintf("Unit types of this class: %s.", util.MakeTextList(members))
		}
	case "UNITS":
		id, ok := c.UnitTypes.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		ut := c.UnitTypes.Get(id)
		d = &detail{title: fmt.Sprintf("Unit type %s (#%d)", ut.Name, ut.ID)}
		d.field("Class", refName(c.UnitClasses.Name(ut.Class)))
		d.field("Tech requirement", refName(c.Techs.Name(ut.TechReq)))
		d.field("Obsoleted by", refName(c.UnitTypes.Name(ut.ObsoletedBy)))
		d.field("Flags", flagNames(c.UnitFlags, ut.Flags))
		d.field("Build cost", ut.BuildCost)
		d.field("Attack/Defense", fmt.Sprintf("%d/%d", ut.Attack, ut.Defense))
		d.field("Hit points", ut.HP)
		d.field("Firepower", ut.Firepower)
		d.field("Move rate", ut.MoveRate)
		d.field("Vision radius sq", ut.VisionSq)
		d.vec("build_reqs", ut.BuildReqs)
	case "TERRAINS":
		id, ok := c.Terrains.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		t := c.Terrains.Get(id)
		d = &detail{title: fmt.Sprintf("Terrain %s (#%d)", t.Name, t.ID)}
		d.field("Class", enumName(req.TerrainClassNames, t.Class))
		d.field("Flags", flagNames(c.TerrainFlags, t.Flags))
		d.field("Move cost", t.MoveCost)
		d.field("Defense bonus", fmt.Sprintf("%d%%", t.Defense))
		d.field("Output", fmt.Sprintf("%d/%d/%d", t.Food, t.Shield, t.Trade))
		d.field("Transforms to", refName(c.Terrains.Name(t.TransformTo)))
	case "EXTRAS":
		id, ok := c.Extras.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		e := c.Extras.Get(id)
		d = &detail{title: fmt.Sprintf("Extra %s (#%d)", e.Name, e.ID)}
		d.field("Category", enumName(catalog.ExtraCategories, e.Category))
		d.field("Flags", flagNames(c.ExtraFlags, e.Flags))
		d.vec("reqs", e.Reqs)
		d.vec("rmreqs", e.RmReqs)
	case "GOVERNMENTS":
		id, ok := c.Governments.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		g := c.Governments.Get(id)
		d = &detail{title: fmt.Sprintf("Government %s (#%d)", g.Name, g.ID)}
		d.field("Ruler titles", fmt.Sprintf("%s / %s", g.RulerMale, g.RulerFemale))
		d.vec("reqs", g.Reqs)
	case "NATIONS":
		id, ok := c.Nations.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		n := c.Nations.Get(id)
		d = &detail{title: fmt.Sprintf("Nation %s (#%d)", n.Name, n.ID)}
		d.field("Plural", n.Plural)
		d.field("Initial government", refName(c.Governments.Name(n.InitGovernment)))
		d.field("Style", refName(c.CityStyles.Name(n.Style)))
		var units []string
		for _, u := range n.InitUnits {
			units = append(units, c.UnitTypes.Name(u))
		}
		if len(units) > 0 {
			d.field("Initial units", strings.Join(units, ", "))
		}
		d.extra = n.Legend
	case "ACTIONS":
		act := c.Action(name)
		if act == nil {
			return nil, notFound(kind, name)
		}
		d = &detail{title: fmt.Sprintf("Action %s (#%d)", act.Name, act.ID)}
		d.field("UI name", act.UIName)
		d.field("Actor", act.Actor)
		d.field("Target", act.Target)
		d.field("Max distance", act.MaxDistance)
		d.field("Enablers", len(c.EnablersFor(act.ID)))
		var obls, unmet []string
		for _, obl := range in.ch.Obligations(act.ID) {
			var alts []string
			for _, alt := range obl.Alternatives {
				alts = append(alts, fmt.Sprintf("%s in %s", alt.Req.Describe(c), catalog.VectorName(alt.Vector)))
			}
			if len(alts) == 0 {
				unmet = append(unmet, obl.Why)
				continue
			}
			obls = append(obls, fmt.Sprintf("%s (%s)", strings.Join(alts, " or "), obl.Why))
		}
		var extra []string
		if len(obls) > 0 {
			extra = append(extra, fmt.Sprintf("Every enabler must have %s.", util.MakeTextList(obls)))
		}
		if len(unmet) > 0 {
			extra = append(extra, fmt.Sprintf("Nothing in the ruleset can fulfill %s, so no enabler can ever be used.", util.MakeTextList(unmet)))
		}
		d.extra = strings.Join(extra, " ")
	case "DISASTERS":
		id, ok := c.Disasters.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		ds := c.Disasters.Get(id)
		d = &detail{title: fmt.Sprintf("Disaster %s (#%d)", ds.Name, ds.ID)}
		d.field("Frequency", ds.Frequency)
		var effs []string
		for _, e := range ds.Effects {
			effs = append(effs, enumName(catalog.DisasterEffects, e))
		}
		d.field("Effects", refName(strings.Join(effs, ", ")))
		d.vec("reqs", ds.Reqs)
	case "ACHIEVEMENTS":
		id, ok := c.Achievements.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		a := c.Achievements.Get(id)
		d = &detail{title: fmt.Sprintf("Achievement %s (#%d)", a.Name, a.ID)}
		d.field("Type", enumName(catalog.AchievementTypes, a.Type))
		d.field("Value", a.Value)
		d.field("Unique", a.Unique)
		d.field("Culture", a.Culture)
	case "COUNTERS":
		id, ok := c.Counters.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		ct := c.Counters.Get(id)
		d = &detail{title: fmt.Sprintf("Counter %s (#%d)", ct.Name, ct.ID)}
		d.field("Type", enumName(catalog.CounterTypes, ct.Type))
		d.field("Checkpoint", ct.Checkpoint)
		d.field("Default", ct.Default)
	case "MULTIPLIERS":
		id, ok := c.Multipliers.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		m := c.Multipliers.Get(id)
		d = &detail{title: fmt.Sprintf("Multiplier %s (#%d)", m.Name, m.ID)}
		d.field("Range", fmt.Sprintf("%d to %d by %d", m.Start, m.Stop, m.Step))
		d.field("Default", m.Default)
		d.field("Offset", m.Offset)
		d.field("Factor", m.Factor)
		d.vec("reqs", m.Reqs)
	case "CLAUSES":
		id, ok := c.Clauses.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		cl := c.Clauses.Get(id)
		d = &detail{title: fmt.Sprintf("Clause %s (#%d)", cl.Name, cl.ID)}
		d.field("Type", enumName(catalog.ClauseTypes, cl.Type))
		d.vec("giver_reqs", cl.GiverReqs)
		d.vec("receiver_reqs", cl.ReceiverReqs)
		d.vec("either_reqs", cl.EitherReqs)
	case "GOODS":
		id, ok := c.Goods.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		g := c.Goods.Get(id)
		d = &detail{title: fmt.Sprintf("Goods %s (#%d)", g.Name, g.ID)}
		d.field("From/To", fmt.Sprintf("%d%%/%d%%", g.FromPct, g.ToPct))
		d.field("One time", fmt.Sprintf("%d%%", g.OneTimePct))
		var flags []string
		for _, f := range g.Flags {
			flags = append(flags, enumName(catalog.GoodsFlags, f))
		}
		d.field("Flags", refName(strings.Join(flags, ", ")))
		d.vec("reqs", g.Reqs)
	case "MUSICSTYLES":
		id, ok := c.MusicStyles.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		ms := c.MusicStyles.Get(id)
		d = &detail{title: fmt.Sprintf("Music style %s (#%d)", ms.Name, ms.ID)}
		d.field("Peaceful", ms.Peaceful)
		d.field("Combat", ms.Combat)
		d.vec("reqs", ms.Reqs)
	case "CITYSTYLES":
		id, ok := c.CityStyles.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		cs := c.CityStyles.Get(id)
		d = &detail{title: fmt.Sprintf("City style %s (#%d)", cs.Name, cs.ID)}
		d.field("Graphic", cs.Graphic)
		d.field("Alternate graphic", cs.GraphicAlt)
		d.vec("reqs", cs.Reqs)
	case "SPECIALISTS":
		id, ok := c.Specialists.ByName(name)
		if !ok {
			return nil, notFound(kind, name)
		}
		s := c.Specialists.Get(id)
		d = &detail{title: fmt.Sprintf("Specialist %s (#%d)", s.Name, s.ID)}
		d.field("Short name", s.ShortName)
		d.field("Graphic", s.Graphic)
		d.vec("reqs", s.Reqs)
	}
	return d, nil
}
