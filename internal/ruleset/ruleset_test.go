package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/rscompat"
	"github.com/dekarrin/civrules/internal/rserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodies maps a ruleset file name to everything in it after the datafile
// section.
type bodies map[string]string

func capsFor(version int) string {
	if version < rscompat.FormatCurrent {
		return rscompat.CapabilityCompat
	}
	return rscompat.CapabilityRequired
}

func writeFile(t *testing.T, dir, name, caps string, version int, body string) {
	data := fmt.Sprintf("[datafile]\noptions = %q\nformat_version = %d\n\n%s", caps, version, body)
	err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644)
	require.NoError(t, err)
}

// writeRuleset writes every ruleset file to a new directory and returns it.
// Files not in b are written with only their datafile section, except
// game.toml, which always gets an about section if it lacks one.
func writeRuleset(t *testing.T, version int, b bodies) string {
	dir := t.TempDir()
	for _, name := range Files() {
		body := b[name]
		if name == FileGame && !strings.Contains(body, "[about]") {
			body = "[about]\nname = \"Test\"\n\n" + body
		}
		writeFile(t, dir, name, capsFor(version), version, body)
	}
	return dir
}

func load(t *testing.T, dir string, opts Options) *Result {
	res, err := Load(dir, opts)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

const roundTripRuleset = `
[advance_alphabet]
name = "Alphabet"
cost = 10

[advance_writing]
name = "Writing"
req1 = "Alphabet"
cost = 20
flags = ["Bridge"]
`

var roundTripBodies = bodies{
	FileGame: `
[about]
name = "Round Trip"
version = "1.0"

[enabler_fortify]
action = "Fortify"
actor_reqs = [{type = "UnitClass", name = "Land", range = "Local"}]
`,
	FileTechs: roundTripRuleset,
	FileTerrain: `
[terrain_grassland]
name = "Grassland"
class = "Land"
food = 2

[terrain_ocean]
name = "Ocean"
class = "Oceanic"
food = 1
flags = ["NoCities"]
`,
	FileUnits: `
[unitclass_land]
name = "Land"
flags = ["CanOccupyCity"]

[unit_warriors]
name = "Warriors"
class = "Land"
tech_req = "Writing"
attack = 1
defense = 1
build_cost = 10
`,
	FileEffects: `
[effect_grassland_food]
type = "Output_Add_Tile"
value = 1
reqs = [{type = "Terrain", name = "Grassland"}]
`,
}

func Test_Load_Minimal(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, nil)

	res := load(t, dir, Options{})

	assert.Equal("Test", res.Catalog.About.Name)
	assert.Equal(catalog.BuiltinActionCount, res.Catalog.Actions.Len())
	assert.Empty(res.Catalog.Enablers())
	assert.Empty(res.Catalog.Effects())
	assert.Empty(res.Report.Warnings)
	assert.Equal(rscompat.FormatCurrent, res.Report.Version)
	assert.Equal(dir, res.Report.Dir)
	assert.Equal("Test", res.Report.Ruleset)
	assert.NotEmpty(res.Report.Fingerprint)
}

func Test_Load_Records(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, roundTripBodies)

	res := load(t, dir, Options{})
	c := res.Catalog

	assert.Empty(res.Report.Warnings)
	assert.Equal("Round Trip", c.About.Name)
	assert.Equal("1.0", c.About.Version)

	require.Equal(t, 2, c.Techs.Len())
	alphabet := c.Techs.Get(0)
	writing := c.Techs.Get(1)
	assert.Equal("Alphabet", alphabet.Name)
	assert.Equal(catalog.NoID, alphabet.Req1)
	assert.Equal(10, alphabet.Cost)
	assert.Equal(alphabet.ID, writing.Req1)
	assert.Equal(catalog.NoID, writing.Req2)
	bridge, _ := c.TechFlags.ByName("Bridge")
	assert.True(writing.Flags.Has(bridge))

	require.Equal(t, 2, c.Terrains.Len())
	ocean := c.Terrains.Get(1)
	assert.Equal(1, ocean.Class)
	assert.Equal(1, ocean.MoveCost)
	noCities, _ := c.TerrainFlags.ByName("NoCities")
	assert.True(ocean.Flags.Has(noCities))
	assert.Equal(catalog.NoID, ocean.TransformTo)

	require.Equal(t, 1, c.UnitTypes.Len())
	warriors := c.UnitTypes.Get(0)
	assert.Equal(catalog.ID(0), warriors.Class)
	assert.Equal(writing.ID, warriors.TechReq)
	assert.Equal(catalog.NoID, warriors.ObsoletedBy)
	assert.Equal(10, warriors.HP)
	assert.Equal(1, warriors.Firepower)
	assert.Equal(2, warriors.VisionSq)

	require.Len(t, c.Enablers(), 1)
	fortify := c.Enablers()[0]
	assert.Equal("enabler_fortify", fortify.Origin)
	assert.Equal(req.Vector{req.New(req.Universal{Kind: req.KindUnitClass, Value: 0}, req.RangeLocal, true, false, false)}, fortify.Actor)

	require.Len(t, c.Effects(), 1)
	ef := c.Effects()[0]
	assert.Equal("Output_Add_Tile", ef.Type)
	assert.Equal(1, ef.Value)
	assert.Equal(req.Vector{req.New(req.Universal{Kind: req.KindTerrain, Value: 0}, req.RangeTile, true, false, false)}, ef.Reqs)

	assert.Equal(2, res.Report.Counts["techs"])
}

func Test_Load_Fingerprint(t *testing.T) {
	assert := assert.New(t)

	first := load(t, writeRuleset(t, rscompat.FormatCurrent, roundTripBodies), Options{})
	second := load(t, writeRuleset(t, rscompat.FormatCurrent, roundTripBodies), Options{})
	assert.Equal(first.Report.Fingerprint, second.Report.Fingerprint)
	assert.NotEqual(first.Report.ID, second.Report.ID)

	changed := bodies{}
	for k, v := range roundTripBodies {
		changed[k] = v
	}
	changed[FileTechs] = strings.Replace(roundTripRuleset, "cost = 20", "cost = 21", 1)
	third := load(t, writeRuleset(t, rscompat.FormatCurrent, changed), Options{})
	assert.NotEqual(first.Report.Fingerprint, third.Report.Fingerprint)
}

func Test_Load_PurgesImpossibleEffect(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileTerrain: `
[terrain_grassland]
name = "Grassland"
class = "Land"

[terrain_ocean]
name = "Ocean"
class = "Oceanic"
`,
		FileEffects: `
[effect_ocean_impossible]
type = "Defend_Bonus"
value = 50
reqs = [
	{type = "Terrain", name = "Ocean"},
	{type = "Terrain", name = "Ocean", present = false},
]

[effect_fine]
type = "Output_Add_Tile"
value = 1
reqs = [{type = "Terrain", name = "Grassland"}]
`,
	})

	res := load(t, dir, Options{})

	require.Len(t, res.Catalog.Effects(), 1)
	assert.Equal("effect_fine", res.Catalog.Effects()[0].Origin)

	purged := res.Report.Of(report.Purge)
	require.Len(t, purged, 1)
	assert.Contains(purged[0].Message, "effect_ocean_impossible")
	assert.Len(res.Report.Warnings, 1)
}

func Test_Load_RepairsEscapeEnabler(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileUnits: `
[control]
flags = [{name = "Spy", helptxt = "Can escape."}]

[unitclass_land]
name = "Land"

[unit_spy]
name = "Spy"
class = "Land"
flags = ["Diplomat", "Spy"]
`,
		FileGame: `
[enabler_steal_tech_escape]
action = "Steal Tech Escape"
`,
	})

	res := load(t, dir, Options{})
	c := res.Catalog

	spy, ok := c.UnitFlags.ByName("Spy")
	require.True(t, ok)
	assert.True(c.UnitFlags.IsUser(spy))

	require.Len(t, c.Enablers(), 1)
	e := c.Enablers()[0]
	assert.False(e.Disabled)
	assert.Equal(req.Vector{req.New(req.Universal{Kind: req.KindUnitFlag, Value: spy}, req.RangeLocal, true, false, false)}, e.Actor)
	assert.Empty(e.Target)

	assert.Len(res.Report.Of(report.Repair), 1)
	assert.Empty(res.Report.Of(report.Purge))
}

func Test_Load_DisablesEscapeEnablerWithoutSpyFlag(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileUnits: `
[unitclass_land]
name = "Land"

[unit_diplomat]
name = "Diplomat"
class = "Land"
flags = ["Diplomat"]
`,
		FileGame: `
[enabler_escape]
action = "Steal Tech Escape"
`,
	})

	res := load(t, dir, Options{})
	c := res.Catalog

	escape, ok := c.Actions.ByName(catalog.ActionStealTechEscape)
	require.True(t, ok)
	assert.Empty(c.EnablersFor(escape), "no live enablers")
	require.Len(t, c.Enablers(), 1)
	assert.True(c.Enablers()[0].Disabled)
	assert.Empty(c.Enablers()[0].Actor)

	repairs := res.Report.Of(report.Repair)
	if assert.Len(repairs, 1) {
		assert.Contains(repairs[0].Message, "enabler_escape")
		assert.Contains(repairs[0].Message, "disabling it")
	}
}

func Test_Load_DisablesEnablerWithNoActor(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileUnits: `
[unitclass_land]
name = "Land"

[unit_warriors]
name = "Warriors"
class = "Land"
`,
		FileGame: `
[enabler_fortify_zoc]
action = "Fortify"
actor_reqs = [{type = "UnitFlag", name = "IgZOC", range = "Local"}]
`,
	})

	res := load(t, dir, Options{})

	require.Len(t, res.Catalog.Enablers(), 1)
	assert.True(res.Catalog.Enablers()[0].Disabled)
	purged := res.Report.Of(report.Purge)
	require.Len(t, purged, 1)
	assert.Contains(purged[0].Message, "no unit type can ever be its actor")
}

func Test_Load_ImprovesEnabler(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileUnits: `
[unitclass_land]
name = "Land"

[unit_partisan]
name = "Partisan"
class = "Land"
flags = ["IgZOC"]
`,
		FileGame: `
[enabler_fortify]
action = "Fortify"
actor_reqs = [
	{type = "UnitFlag", name = "IgZOC", range = "Local"},
	{type = "UnitFlag", name = "IgZOC", range = "Local"},
]
`,
	})

	res := load(t, dir, Options{})

	require.Len(t, res.Catalog.Enablers(), 1)
	e := res.Catalog.Enablers()[0]
	assert.False(e.Disabled)
	assert.Len(e.Actor, 1)

	improved := res.Report.Of(report.Improvement)
	require.Len(t, improved, 1)
	assert.Contains(improved[0].Message, "listed 2 times")
	assert.Contains(improved[0].Message, "removed it")
}

func Test_Load_UnusedKey(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, rscompat.FormatCurrent, bodies{
		FileTechs: `
[advance_alphabet]
name = "Alphabet"
colour = "blue"
`,
	})

	res := load(t, dir, Options{})

	unused := res.Report.Of(report.UnusedKey)
	require.Len(t, unused, 1)
	assert.Equal(`"techs.toml": unused key "advance_alphabet.colour"`, unused[0].Message)
}

func Test_Load_VersionMismatch(t *testing.T) {
	testCases := []struct {
		name         string
		compat       bool
		version      int
		unitsVersion int
	}{
		{name: "compat mode", compat: true, version: 3, unitsVersion: 4},
		{name: "older sibling outside compat mode", version: 4, unitsVersion: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			caps := capsFor(tc.version)
			if !tc.compat {
				caps = rscompat.CapabilityRequired
			}
			for _, name := range Files() {
				version := tc.version
				body := ""
				switch name {
				case FileGame:
					body = "[about]\nname = \"Mixed\"\n"
				case FileUnits:
					version = tc.unitsVersion
					// never read; versions are checked before any body is loaded
					body = "[unit_broken]\nname = \"Broken\"\nclass = \"Nowhere\"\n"
				}
				writeFile(t, dir, name, caps, version, body)
			}

			res, err := Load(dir, Options{CompatMode: tc.compat})

			assert := assert.New(t)
			assert.Nil(res)
			require.Error(t, err)
			assert.ErrorIs(err, rserr.ErrVersion)
			assert.Contains(err.Error(), "version mismatch")
			assert.Contains(err.Error(), fmt.Sprintf(`"game.toml" declares format version %d`, tc.version))
			assert.Contains(err.Error(), fmt.Sprintf(`"units.toml" declares format version %d`, tc.unitsVersion))
		})
	}
}

var compatBodies = bodies{
	FileUnits: `
[unitclass_land]
name = "Land"
flags = ["CanOccupyCity"]

[unit_paratroopers]
name = "Paratroopers"
class = "Land"
flags = ["Paratroopers"]
`,
	FileGame: `
[enabler_conquer_city]
action = "Conquer City"
actor_reqs = [
	{type = "DiplRel", name = "War", range = "Local"},
	{type = "UnitClassFlag", name = "CanOccupyCity", range = "Local"},
	{type = "UnitFlag", name = "NonMil", range = "Local", present = false},
]
`,
	FileEffects: `
[effect_upgrade_price]
type = "Upgrade_Price_Pct"
value = -50
`,
}

func Test_Load_Compat(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, 3, compatBodies)

	res := load(t, dir, Options{CompatMode: true})
	c := res.Catalog

	assert.True(res.Report.CompatMode)
	assert.Equal(3, res.Report.Version)
	assert.Equal(3, res.Compat.Version)
	assert.NotEmpty(res.Report.Of(report.Migration))

	// renamed flag
	paradropper, _ := c.UnitFlags.ByName("Paradropper")
	assert.True(c.UnitTypes.Get(0).Flags.Has(paradropper))

	// implicit flags of format version 3
	_, ok := c.UnitFlags.ByName(rscompat.FlagSpy)
	assert.True(ok)
	_, ok = c.TerrainFlags.ByName(rscompat.FlagRadiating)
	assert.True(ok)

	// renamed effect type
	var found bool
	for _, ef := range c.Effects() {
		if ef.Origin == "effect_upgrade_price" {
			found = true
			assert.Equal(catalog.EffectUnitUpgradePricePct, ef.Type)
		}
	}
	assert.True(found)

	// conquering now needs moves left
	conquer := c.EnablersFor(c.Action(catalog.ActionConquerCity).ID)
	require.Len(t, conquer, 1)
	moves := req.New(req.Universal{Kind: req.KindMinMoveFrags, Value: 1}, req.RangeLocal, true, false, false)
	assert.True(conquer[0].Actor.Contains(moves))

	// disbanding used to need no enabler
	assert.Len(c.EnablersFor(c.Action(catalog.ActionDisbandUnit).ID), 1)
}

func Test_Load_OldFormatNeedsCompat(t *testing.T) {
	testCases := []struct {
		name      string
		caps      string
		expectErr error
	}{
		{name: "old capabilities", caps: rscompat.CapabilityCompat, expectErr: rserr.ErrCapability},
		{name: "current capabilities", caps: rscompat.CapabilityRequired, expectErr: rserr.ErrVersion},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range Files() {
				body := compatBodies[name]
				if name == FileGame {
					body = "[about]\nname = \"Old\"\n" + body
				}
				writeFile(t, dir, name, tc.caps, 3, body)
			}

			_, err := Load(dir, Options{})

			assert.ErrorIs(t, err, tc.expectErr)
		})
	}
}

func Test_Load_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		bodies    bodies
		limits    catalog.Limits
		remove    string
		expectErr error
		expectMsg string
	}{
		{
			name: "duplicate name",
			bodies: bodies{FileTechs: `
[advance_a]
name = "Bronze Working"

[advance_b]
name = "Bronze Working"
`},
			expectErr: rserr.ErrDuplicate,
			expectMsg: "advance_b",
		},
		{
			name: "unknown unit class",
			bodies: bodies{FileUnits: `
[unit_trireme]
name = "Trireme"
class = "Sea"
`},
			expectErr: rserr.ErrNotFound,
			expectMsg: `no unit class named "Sea"`,
		},
		{
			name: "unit class missing",
			bodies: bodies{FileUnits: `
[unit_trireme]
name = "Trireme"
`},
			expectErr: rserr.ErrNotFound,
			expectMsg: "unit_trireme.class",
		},
		{
			name: "unknown effect type",
			bodies: bodies{FileEffects: `
[effect_bogus]
type = "Make_Everything_Better"
value = 1
`},
			expectErr: rserr.ErrNotFound,
			expectMsg: "Make_Everything_Better",
		},
		{
			name: "unknown requirement type",
			bodies: bodies{FileEffects: `
[effect_rain]
type = "Output_Add_Tile"
value = 1
reqs = [{type = "Weather", name = "Rain"}]
`},
			expectErr: rserr.ErrMalformed,
			expectMsg: "effect_rain.reqs.0",
		},
		{
			name: "unknown action",
			bodies: bodies{FileGame: `
[enabler_fly]
action = "Fly To The Moon"
`},
			expectErr: rserr.ErrNotFound,
			expectMsg: `no action named "Fly To The Moon"`,
		},
		{
			name: "tech loop",
			bodies: bodies{FileTechs: `
[advance_chicken]
name = "Chicken"
req1 = "Egg"

[advance_egg]
name = "Egg"
req1 = "Chicken"
`},
			expectErr: rserr.ErrMalformed,
			expectMsg: "loop",
		},
		{
			name: "tech requires itself",
			bodies: bodies{FileTechs: `
[advance_ouroboros]
name = "Ouroboros"
req1 = "Ouroboros"
`},
			expectErr: rserr.ErrMalformed,
			expectMsg: "requires itself",
		},
		{
			name: "value out of range",
			bodies: bodies{FileTerrain: `
[terrain_eden]
name = "Eden"
class = "Land"
food = 1000
`},
			expectErr: rserr.ErrMalformed,
			expectMsg: "terrain_eden.food",
		},
		{
			name: "multiplier stop before start",
			bodies: bodies{FileGame: `
[multiplier_tax]
name = "Tax"
start = 10
stop = 0
`},
			expectErr: rserr.ErrMalformed,
			expectMsg: "must be greater than start",
		},
		{
			name: "too many techs",
			bodies: bodies{FileTechs: `
[advance_a]
name = "A"

[advance_b]
name = "B"
`},
			limits:    catalog.Limits{Techs: 1},
			expectErr: rserr.ErrExhausted,
			expectMsg: "max 1",
		},
		{
			name: "too many user flags",
			bodies: bodies{FileUnits: `
[control]
flags = [{name = "Hero"}, {name = "Villain"}]
`},
			limits:    catalog.Limits{UserUnitFlags: 1},
			expectErr: rserr.ErrExhausted,
		},
		{
			name:      "about name missing",
			bodies:    bodies{FileGame: "[about]\nversion = \"1\"\n"},
			expectErr: rserr.ErrNotFound,
			expectMsg: "about.name",
		},
		{
			name:      "missing file",
			remove:    FileStyles,
			expectErr: os.ErrNotExist,
			expectMsg: "styles.toml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeRuleset(t, rscompat.FormatCurrent, tc.bodies)
			if tc.remove != "" {
				require.NoError(t, os.Remove(filepath.Join(dir, tc.remove)))
			}

			res, err := Load(dir, Options{Limits: tc.limits})

			assert.Nil(t, res)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectErr)
			if tc.expectMsg != "" {
				assert.Contains(t, err.Error(), tc.expectMsg)
			}
		})
	}
}

func Test_Load_BadLimits(t *testing.T) {
	dir := writeRuleset(t, rscompat.FormatCurrent, nil)

	_, err := Load(dir, Options{Limits: catalog.Limits{Techs: -1}})

	assert.ErrorContains(t, err, "techs")
}
