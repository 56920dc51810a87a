package rscompat

import (
	"fmt"

	"github.com/dekarrin/civrules/internal/catalog"
)

// Names of flags that older formats gave every ruleset implicitly.
const (
	FlagCanPillage = "CanPillage"
	FlagSpy        = "Spy"
	FlagRadiating  = "Radiating"
)

type synthFlag struct {
	before   int
	table    func(c *catalog.Catalog) *catalog.FlagTable
	name     string
	helptext string
}

var synthFlags = []synthFlag{
	{
		before:   3,
		table:    func(c *catalog.Catalog) *catalog.FlagTable { return c.UnitClassFlags },
		name:     FlagCanPillage,
		helptext: "Can pillage tile improvements.",
	},
	{
		before:   4,
		table:    func(c *catalog.Catalog) *catalog.FlagTable { return c.UnitFlags },
		name:     FlagSpy,
		helptext: "Can escape after a successful diplomatic action.",
	},
	{
		before:   4,
		table:    func(c *catalog.Catalog) *catalog.FlagTable { return c.TerrainFlags },
		name:     FlagRadiating,
		helptext: "Nuclear fallout may appear here.",
	},
}

// Names adds the user flags that formats older than the loaded one had
// built in. It must run after the ruleset's own user flags are registered
// and before any requirement is resolved. Each flag goes into the first free
// slot of its table; running out of slots, or the ruleset already defining a
// flag of the same name, is an error.
func Names(c *catalog.Catalog, info *Info) error {
	for _, sf := range synthFlags {
		if !info.Before(sf.before) {
			continue
		}

		ft := sf.table(c)
		id, err := ft.Define(sf.name, sf.helptext)
		if err != nil {
			return fmt.Errorf("adding implicit flag %q of format version %d: %w", sf.name, info.Version, err)
		}
		info.logf("added user flag %q (#%d), which format version %d had built in", sf.name, id, info.Version)
	}
	return nil
}

type rename struct {
	before int
	old    string
	new    string
}

var (
	kindRenames = []rename{
		{3, "Special", "Extra"},
		{3, "BaseFlag", "ExtraFlag"},
		{4, "TerrainAlteration", "TerrainAlter"},
	}
	diplRelRenames = []rename{
		{4, "Is foreign", "Foreign"},
	}
	unitFlagRenames = []rename{
		{3, "Partial_Invis", "PartialInvis"},
		{4, "Paratroopers", "Paradropper"},
	}
	effectTypeRenames = []rename{
		{3, "Unit_Recover", "HP_Regen"},
		{4, "Upgrade_Price_Pct", "Unit_Upgrade_Price_Pct"},
	}
)

func (info *Info) rename(what string, name string, table []rename) string {
	for _, rn := range table {
		if name != rn.old || !info.Before(rn.before) {
			continue
		}
		key := what + "\x00" + name
		if !info.renamed[key] {
			if info.renamed == nil {
				info.renamed = map[string]bool{}
			}
			info.renamed[key] = true
			info.logf("%s %q is now called %q", what, rn.old, rn.new)
		}
		return rn.new
	}
	return name
}

// KindName returns the current name of a requirement type name.
func (info *Info) KindName(name string) string {
	return info.rename("requirement type", name, kindRenames)
}

// ReqValueName returns the current name of the value of a requirement of the
// given type. kind must already be the current type name.
func (info *Info) ReqValueName(kind, value string) string {
	switch kind {
	case "DiplRel":
		return info.rename("diplomatic relation", value, diplRelRenames)
	case "UnitFlag":
		return info.UnitFlagName(value)
	}
	return value
}

// UnitFlagName returns the current name of a unit flag.
func (info *Info) UnitFlagName(name string) string {
	return info.rename("unit flag", name, unitFlagRenames)
}

// EffectTypeName returns the current name of an effect type.
func (info *Info) EffectTypeName(name string) string {
	return info.rename("effect type", name, effectTypeRenames)
}
