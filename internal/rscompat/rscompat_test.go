package rscompat

import (
	"fmt"
	"testing"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/dekarrin/civrules/internal/rserr"
	"github.com/dekarrin/civrules/internal/secfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datafile(t *testing.T, name, options string, version int) *secfile.File {
	data := fmt.Sprintf("[datafile]\noptions = %q\nformat_version = %d\n", options, version)
	f, err := secfile.Parse(name, []byte(data))
	require.NoError(t, err)
	return f
}

func Test_HasCapabilities(t *testing.T) {
	testCases := []struct {
		name   string
		us     string
		them   string
		expect bool
	}{
		{name: "same", us: "+a +b", them: "+a +b", expect: true},
		{name: "optional missing is fine", us: "+a b", them: "+a", expect: true},
		{name: "mandatory missing", us: "+a +b", them: "+a", expect: false},
		{name: "mandatory present as optional", us: "+a", them: "a", expect: true},
		{name: "empty us", us: "", them: "+a", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, HasCapabilities(tc.us, tc.them))
		})
	}
}

func Test_CheckCapabilities(t *testing.T) {
	testCases := []struct {
		name      string
		options   string
		compat    bool
		expectErr bool
	}{
		{name: "current", options: CapabilityRequired},
		{name: "previous without compat", options: CapabilityCompat, expectErr: true},
		{name: "previous with compat", options: CapabilityCompat, compat: true},
		{name: "current with compat", options: CapabilityRequired, compat: true},
		{name: "extra mandatory capability", options: CapabilityRequired + " +flying-cities", expectErr: true},
		{name: "unknown", options: "+other-game", compat: true, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := datafile(t, "game.toml", tc.options, FormatCurrent)
			err := CheckCapabilities(f, &Info{CompatMode: tc.compat})
			if tc.expectErr {
				assert.ErrorIs(t, err, rserr.ErrCapability)
				assert.Contains(t, err.Error(), "game.toml")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_ReadVersion(t *testing.T) {
	testCases := []struct {
		name      string
		version   int
		compat    bool
		expectErr bool
	}{
		{name: "current", version: 4},
		{name: "zero", version: 0, compat: true, expectErr: true},
		{name: "older without compat", version: 3, expectErr: true},
		{name: "older with compat", version: 3, compat: true},
		{name: "oldest with compat", version: FormatMinCompat, compat: true},
		{name: "too old", version: FormatMinCompat - 1, compat: true, expectErr: true},
		{name: "newer", version: 5, compat: true, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := datafile(t, "techs.toml", CapabilityRequired, tc.version)
			v, err := ReadVersion(f, &Info{CompatMode: tc.compat})
			if tc.expectErr {
				assert.ErrorIs(t, err, rserr.ErrVersion)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.version, v)
		})
	}
}

func Test_ReadVersion_Missing(t *testing.T) {
	f, err := secfile.Parse("units.toml", []byte("[datafile]\noptions = \"+civrules-4.0-ruleset\"\n"))
	require.NoError(t, err)

	_, err = ReadVersion(f, &Info{})
	assert.ErrorIs(t, err, rserr.ErrVersion)
	assert.ErrorIs(t, err, rserr.ErrNotFound)
}

func Test_ReadVersions_Mismatch(t *testing.T) {
	testCases := []struct {
		name   string
		compat bool
		files  func(t *testing.T) []*secfile.File
		expect []string
	}{
		{
			name:   "compat mode",
			compat: true,
			files: func(t *testing.T) []*secfile.File {
				return []*secfile.File{
					datafile(t, "game.toml", CapabilityCompat, 3),
					datafile(t, "techs.toml", CapabilityCompat, 3),
					datafile(t, "units.toml", CapabilityRequired, 4),
				}
			},
			expect: []string{"version mismatch", `"game.toml" declares format version 3`, `"units.toml" declares format version 4`},
		},
		{
			name: "older sibling outside compat mode",
			files: func(t *testing.T) []*secfile.File {
				return []*secfile.File{
					datafile(t, "game.toml", CapabilityRequired, 4),
					datafile(t, "techs.toml", CapabilityRequired, 4),
					datafile(t, "units.toml", CapabilityRequired, 3),
				}
			},
			expect: []string{"version mismatch", `"game.toml" declares format version 4`, `"units.toml" declares format version 3`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ReadVersions(tc.files(t), &Info{CompatMode: tc.compat})

			assert := assert.New(t)
			assert.ErrorIs(err, rserr.ErrVersion)
			for _, s := range tc.expect {
				assert.Contains(err.Error(), s)
			}
			assert.NotContains(err.Error(), "not supported")
		})
	}
}

func Test_ReadVersions_AgreedButUnsupported(t *testing.T) {
	files := []*secfile.File{
		datafile(t, "game.toml", CapabilityRequired, 3),
		datafile(t, "techs.toml", CapabilityRequired, 3),
	}

	err := ReadVersions(files, &Info{})

	assert := assert.New(t)
	assert.ErrorIs(err, rserr.ErrVersion)
	assert.Contains(err.Error(), "format version 3 is not supported")
	assert.Contains(err.Error(), "compat mode")
}

func Test_ReadVersions_Agree(t *testing.T) {
	files := []*secfile.File{
		datafile(t, "game.toml", CapabilityCompat, 3),
		datafile(t, "techs.toml", CapabilityCompat, 3),
	}
	var logged []string
	info := &Info{CompatMode: true, Log: func(msg string) { logged = append(logged, msg) }}

	require.NoError(t, ReadVersions(files, info))
	assert.Equal(t, 3, info.Version)
	assert.Len(t, logged, 1)
}

func Test_Names(t *testing.T) {
	testCases := []struct {
		name            string
		version         int
		expectSpy       bool
		expectPillage   bool
		expectRadiating bool
	}{
		{name: "current adds nothing", version: 4},
		{name: "version 3", version: 3, expectSpy: true, expectRadiating: true},
		{name: "version 2", version: 2, expectSpy: true, expectRadiating: true, expectPillage: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := catalog.New(catalog.Limits{})
			info := &Info{Version: tc.version, CompatMode: true}

			require.NoError(t, Names(c, info))

			assert := assert.New(t)
			spy, hasSpy := c.UnitFlags.ByName(FlagSpy)
			_, hasPillage := c.UnitClassFlags.ByName(FlagCanPillage)
			_, hasRadiating := c.TerrainFlags.ByName(FlagRadiating)
			assert.Equal(tc.expectSpy, hasSpy)
			assert.Equal(tc.expectPillage, hasPillage)
			assert.Equal(tc.expectRadiating, hasRadiating)
			if hasSpy {
				assert.Equal(c.UnitFlags.FirstUser(), spy, "first free slot")
			}
		})
	}
}

func Test_Names_Fails(t *testing.T) {
	t.Run("collision", func(t *testing.T) {
		c := catalog.New(catalog.Limits{})
		require.NoError(t, c.UnitFlags.SetUser(0, "Spy", "mine"))

		err := Names(c, &Info{Version: 3, CompatMode: true})
		assert.ErrorIs(t, err, rserr.ErrDuplicate)
	})

	t.Run("no free slot", func(t *testing.T) {
		c := catalog.New(catalog.Limits{UserTerrainFlags: 1})
		require.NoError(t, c.TerrainFlags.SetUser(0, "Sandy", ""))

		err := Names(c, &Info{Version: 3, CompatMode: true})
		assert.ErrorIs(t, err, rserr.ErrExhausted)
	})
}

func Test_Renames(t *testing.T) {
	testCases := []struct {
		name    string
		version int
		rename  func(info *Info) string
		expect  string
	}{
		{
			name:    "kind renamed before boundary",
			version: 2,
			rename:  func(info *Info) string { return info.KindName("Special") },
			expect:  "Extra",
		},
		{
			name:    "kind not renamed at boundary",
			version: 3,
			rename:  func(info *Info) string { return info.KindName("Special") },
			expect:  "Special",
		},
		{
			name:    "later kind rename",
			version: 3,
			rename:  func(info *Info) string { return info.KindName("TerrainAlteration") },
			expect:  "TerrainAlter",
		},
		{
			name:    "diplrel value",
			version: 3,
			rename:  func(info *Info) string { return info.ReqValueName("DiplRel", "Is foreign") },
			expect:  "Foreign",
		},
		{
			name:    "unit flag in requirement",
			version: 3,
			rename:  func(info *Info) string { return info.ReqValueName("UnitFlag", "Paratroopers") },
			expect:  "Paradropper",
		},
		{
			name:    "unit flag current",
			version: 4,
			rename:  func(info *Info) string { return info.UnitFlagName("Paratroopers") },
			expect:  "Paratroopers",
		},
		{
			name:    "effect type",
			version: 2,
			rename:  func(info *Info) string { return info.EffectTypeName("Unit_Recover") },
			expect:  "HP_Regen",
		},
		{
			name:    "effect type at boundary",
			version: 3,
			rename:  func(info *Info) string { return info.EffectTypeName("Unit_Recover") },
			expect:  "Unit_Recover",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info := &Info{Version: tc.version, CompatMode: true}
			assert.Equal(t, tc.expect, tc.rename(info))
		})
	}
}

func Test_Renames_LoggedOnce(t *testing.T) {
	var logged []string
	info := &Info{Version: 2, CompatMode: true, Log: func(msg string) { logged = append(logged, msg) }}

	info.KindName("Special")
	info.KindName("Special")
	info.KindName("BaseFlag")

	assert.Len(t, logged, 2)
}

func Test_PostLoad(t *testing.T) {
	newCatalog := func(t *testing.T, version int) *catalog.Catalog {
		c := catalog.New(catalog.Limits{})
		require.NoError(t, Names(c, &Info{Version: version, CompatMode: true}))

		conquer, _ := c.Actions.ByName(catalog.ActionConquerCity)
		_, err := c.AddEnabler(&catalog.Enabler{Action: conquer, Origin: "enabler_conquer"})
		require.NoError(t, err)
		return c
	}

	t.Run("current version is untouched", func(t *testing.T) {
		c := newCatalog(t, 4)
		fp := c.Fingerprint()

		res, err := PostLoad(c, &Info{Version: 4, CompatMode: true})
		require.NoError(t, err)
		assert.Equal(t, fp, c.Fingerprint())
		assert.Zero(t, res)
	})

	t.Run("older version without compat mode is untouched", func(t *testing.T) {
		c := newCatalog(t, 3)
		fp := c.Fingerprint()

		_, err := PostLoad(c, &Info{Version: 3})
		require.NoError(t, err)
		assert.Equal(t, fp, c.Fingerprint())
	})

	t.Run("version 3", func(t *testing.T) {
		c := newCatalog(t, 3)
		info := &Info{Version: 3, CompatMode: true}

		_, err := PostLoad(c, info)
		require.NoError(t, err)

		assert := assert.New(t)

		conquer, _ := c.Actions.ByName(catalog.ActionConquerCity)
		ens := c.EnablersFor(conquer)
		require.Len(t, ens, 1)
		oneMove := req.Requirement{Source: req.Universal{Kind: req.KindMinMoveFrags, Value: 1}, Range: req.RangeLocal, Present: true}
		assert.True(ens[0].Actor.Contains(oneMove))

		disband, _ := c.Actions.ByName(catalog.ActionDisbandUnit)
		if assert.Len(c.EnablersFor(disband), 1) {
			assert.Empty(c.EnablersFor(disband)[0].Actor)
		}

		pillage, _ := c.Actions.ByName(catalog.ActionPillage)
		assert.Empty(c.EnablersFor(pillage), "pillage enabler only added before version 3")

		var moveCosts int
		for _, ef := range c.Effects() {
			assert.NotEqual(catalog.EffectUnitShieldValuePct, ef.Type)
			if ef.Type == catalog.EffectActionSuccessActorMoveCost {
				moveCosts++
				assert.Equal(FullMoveCost, ef.Value)
			}
		}
		assert.Equal(len(fullMoveActions), moveCosts)
	})

	t.Run("version 2", func(t *testing.T) {
		c := newCatalog(t, 2)

		_, err := PostLoad(c, &Info{Version: 2, CompatMode: true})
		require.NoError(t, err)

		assert := assert.New(t)
		pillage, _ := c.Actions.ByName(catalog.ActionPillage)
		ens := c.EnablersFor(pillage)
		if assert.Len(ens, 1) {
			flag, _ := c.UnitClassFlags.ByName(FlagCanPillage)
			assert.Equal(req.Vector{{Source: req.Universal{Kind: req.KindUnitClassFlag, Value: flag}, Range: req.RangeLocal, Present: true}}, ens[0].Actor)
		}

		var shieldValue int
		for _, ef := range c.Effects() {
			if ef.Type == catalog.EffectUnitShieldValuePct {
				shieldValue++
				assert.Equal(-50, ef.Value)
			}
		}
		assert.Equal(1, shieldValue)
	})
}
