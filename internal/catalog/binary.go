package catalog

import (
	"encoding"

	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// fingerprintSpace is the namespace catalog fingerprints are made in.
var fingerprintSpace = uuid.MustParse("5c0e7a52-94e1-4b8e-9a3c-2f7d0b6c1e43")

// Fingerprint returns an identifier derived from the full binary encoding of
// c. Two catalogs have the same fingerprint exactly when they hold the same
// records in the same order.
func (c *Catalog) Fingerprint() string {
	return uuid.NewSHA1(fingerprintSpace, rezi.EncBinary(c)).String()
}

type encoder struct {
	data []byte
}

func (e *encoder) str(s string) {
	e.data = append(e.data, rezi.EncString(s)...)
}

func (e *encoder) num(i int) {
	e.data = append(e.data, rezi.EncInt(i)...)
}

func (e *encoder) id(id ID) {
	e.num(int(id))
}

func (e *encoder) flag(b bool) {
	e.data = append(e.data, rezi.EncBool(b)...)
}

func (e *encoder) flags(fs FlagSet) {
	e.num(int(fs))
}

func (e *encoder) bin(b encoding.BinaryMarshaler) {
	e.data = append(e.data, rezi.EncBinary(b)...)
}

func (e *encoder) vec(v req.Vector) {
	e.bin(v)
}

func (e *encoder) ids(ids []ID) {
	e.num(len(ids))
	for _, id := range ids {
		e.id(id)
	}
}

func (e *encoder) nums(ns []int) {
	e.num(len(ns))
	for _, n := range ns {
		e.num(n)
	}
}

func encodeTable[T encoding.BinaryMarshaler](e *encoder, t *Table[T]) {
	e.num(t.Len())
	for _, item := range t.All() {
		e.bin(item)
	}
}

func encodeFlagTable(e *encoder, ft *FlagTable) {
	e.num(ft.Size())
	for i := 0; i < ft.Size(); i++ {
		e.str(ft.Name(i))
		e.str(ft.Helptext(i))
	}
}

// MarshalBinary converts c into a slice of bytes. The encoding is only used
// to compare catalogs; there is no way to decode it.
func (c *Catalog) MarshalBinary() ([]byte, error) {
	e := &encoder{}

	e.str(c.About.Name)
	e.str(c.About.Version)
	e.str(c.About.Summary)
	e.str(c.About.Description)

	encodeFlagTable(e, c.UnitFlags)
	encodeFlagTable(e, c.UnitClassFlags)
	encodeFlagTable(e, c.TerrainFlags)
	encodeFlagTable(e, c.TechFlags)
	encodeFlagTable(e, c.ExtraFlags)

	encodeTable(e, c.Techs)
	encodeTable(e, c.Buildings)
	encodeTable(e, c.UnitClasses)
	encodeTable(e, c.UnitTypes)
	encodeTable(e, c.Terrains)
	encodeTable(e, c.Extras)
	encodeTable(e, c.Governments)
	encodeTable(e, c.Nations)
	encodeTable(e, c.Actions)
	encodeTable(e, c.Disasters)
	encodeTable(e, c.Achievements)
	encodeTable(e, c.Counters)
	encodeTable(e, c.Multipliers)
	encodeTable(e, c.Clauses)
	encodeTable(e, c.Goods)
	encodeTable(e, c.MusicStyles)
	encodeTable(e, c.CityStyles)
	encodeTable(e, c.Specialists)

	e.num(len(c.enablers))
	for _, en := range c.enablers {
		e.bin(en)
	}
	e.num(len(c.effects))
	for _, ef := range c.effects {
		e.bin(ef)
	}

	return e.data, nil
}

func (t Tech) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(t.Name)
	e.id(t.Req1)
	e.id(t.Req2)
	e.id(t.RootReq)
	e.vec(t.Research)
	e.flags(t.Flags)
	e.num(t.Cost)
	e.str(t.Graphic)
	e.str(t.Helptext)
	return e.data, nil
}

func (b Building) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(b.Name)
	e.num(b.Genus)
	e.vec(b.Reqs)
	e.vec(b.ObsoleteBy)
	e.num(b.BuildCost)
	e.num(b.Upkeep)
	e.num(b.Sabotage)
	e.str(b.Graphic)
	return e.data, nil
}

func (uc UnitClass) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(uc.Name)
	e.flags(uc.Flags)
	e.num(uc.MinSpeed)
	e.num(uc.HPLossPct)
	return e.data, nil
}

func (ut UnitType) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(ut.Name)
	e.id(ut.Class)
	e.id(ut.TechReq)
	e.id(ut.ObsoletedBy)
	e.vec(ut.BuildReqs)
	e.flags(ut.Flags)
	e.num(ut.BuildCost)
	e.num(ut.Attack)
	e.num(ut.Defense)
	e.num(ut.HP)
	e.num(ut.Firepower)
	e.num(ut.MoveRate)
	e.num(ut.VisionSq)
	return e.data, nil
}

func (t Terrain) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(t.Name)
	e.num(t.Class)
	e.flags(t.Flags)
	e.num(t.MoveCost)
	e.num(t.Defense)
	e.num(t.Food)
	e.num(t.Shield)
	e.num(t.Trade)
	e.id(t.TransformTo)
	return e.data, nil
}

func (x Extra) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(x.Name)
	e.num(x.Category)
	e.vec(x.Reqs)
	e.vec(x.RmReqs)
	e.flags(x.Flags)
	return e.data, nil
}

func (g Government) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(g.Name)
	e.vec(g.Reqs)
	e.str(g.RulerMale)
	e.str(g.RulerFemale)
	return e.data, nil
}

func (n Nation) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(n.Name)
	e.str(n.Plural)
	e.str(n.Legend)
	e.id(n.InitGovernment)
	e.id(n.Style)
	e.ids(n.PreferredTerrain)
	e.ids(n.InitUnits)
	return e.data, nil
}

func (a Action) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(a.Name)
	e.num(int(a.Actor))
	e.num(int(a.Target))
	e.str(a.UIName)
	e.num(a.MaxDistance)
	return e.data, nil
}

func (d Disaster) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(d.Name)
	e.vec(d.Reqs)
	e.num(d.Frequency)
	e.nums(d.Effects)
	return e.data, nil
}

func (a Achievement) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(a.Name)
	e.num(a.Type)
	e.num(a.Value)
	e.flag(a.Unique)
	e.num(a.Culture)
	e.str(a.FirstMsg)
	e.str(a.CantMsg)
	return e.data, nil
}

func (c Counter) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(c.Name)
	e.num(c.Type)
	e.num(c.Checkpoint)
	e.num(c.Default)
	return e.data, nil
}

func (m Multiplier) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(m.Name)
	e.num(m.Start)
	e.num(m.Stop)
	e.num(m.Step)
	e.num(m.Default)
	e.num(m.Offset)
	e.num(m.Factor)
	e.vec(m.Reqs)
	return e.data, nil
}

func (cl Clause) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(cl.Name)
	e.num(cl.Type)
	e.vec(cl.GiverReqs)
	e.vec(cl.ReceiverReqs)
	e.vec(cl.EitherReqs)
	return e.data, nil
}

func (g Goods) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(g.Name)
	e.vec(g.Reqs)
	e.num(g.FromPct)
	e.num(g.ToPct)
	e.num(g.OneTimePct)
	e.nums(g.Flags)
	return e.data, nil
}

func (ms MusicStyle) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(ms.Name)
	e.vec(ms.Reqs)
	e.str(ms.Peaceful)
	e.str(ms.Combat)
	return e.data, nil
}

func (cs CityStyle) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(cs.Name)
	e.vec(cs.Reqs)
	e.str(cs.Graphic)
	e.str(cs.GraphicAlt)
	return e.data, nil
}

func (s Specialist) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(s.Name)
	e.str(s.ShortName)
	e.vec(s.Reqs)
	e.str(s.Graphic)
	return e.data, nil
}

// MarshalBinary converts en into a slice of bytes that can be decoded with
// UnmarshalBinary. The ID is not included.
func (en Enabler) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.id(en.Action)
	e.vec(en.Actor)
	e.vec(en.Target)
	e.flag(en.Disabled)
	e.str(en.Origin)
	return e.data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into en.
// The ID of en is set to NoID.
func (en *Enabler) UnmarshalBinary(data []byte) error {
	action, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	var actor, target req.Vector
	n, err = rezi.DecBinary(data, &actor)
	if err != nil {
		return err
	}
	data = data[n:]

	n, err = rezi.DecBinary(data, &target)
	if err != nil {
		return err
	}
	data = data[n:]

	disabled, n, err := rezi.DecBool(data)
	if err != nil {
		return err
	}
	data = data[n:]

	origin, _, err := rezi.DecString(data)
	if err != nil {
		return err
	}

	en.ID = NoID
	en.Action = ID(action)
	en.Actor = actor
	en.Target = target
	en.Disabled = disabled
	en.Origin = origin
	return nil
}

func (ef Effect) MarshalBinary() ([]byte, error) {
	e := &encoder{}
	e.str(ef.Type)
	e.num(ef.Value)
	e.vec(ef.Reqs)
	e.str(ef.Comment)
	e.str(ef.Origin)
	return e.data, nil
}
