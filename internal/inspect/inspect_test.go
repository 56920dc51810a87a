package inspect

import (
	"testing"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/command"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/req"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReq(t *testing.T, c *catalog.Catalog, kind, rng string, present bool, value string) req.Requirement {
	r, err := req.FromNames(c, kind, rng, present, false, false, value)
	require.NoError(t, err)
	return r
}

// testCatalog has a tech, a unit class with one unit type, and terrain.
func testCatalog(t *testing.T) *catalog.Catalog {
	c := catalog.New(catalog.Limits{})
	c.About.Name = "Inspect Test"

	alpha := &catalog.Tech{Name: "Alphabet", Req1: catalog.NoID, Req2: catalog.NoID, RootReq: catalog.NoID, Cost: 20}
	var err error
	alpha.ID, err = c.Techs.Add(alpha.Name, alpha)
	require.NoError(t, err)

	land := &catalog.UnitClass{Name: "Land"}
	land.ID, err = c.UnitClasses.Add(land.Name, land)
	require.NoError(t, err)

	warriors := &catalog.UnitType{Name: "Warriors", Class: land.ID, TechReq: catalog.NoID, ObsoletedBy: catalog.NoID, Attack: 1, Defense: 1, HP: 10, Firepower: 1, MoveRate: 1}
	warriors.ID, err = c.UnitTypes.Add(warriors.Name, warriors)
	require.NoError(t, err)

	grass := &catalog.Terrain{Name: "Grassland", Food: 2, TransformTo: catalog.NoID}
	grass.ID, err = c.Terrains.Add(grass.Name, grass)
	require.NoError(t, err)

	return c
}

func addFortify(t *testing.T, c *catalog.Catalog, disabled bool) {
	act := c.Action(catalog.ActionFortify)
	require.NotNil(t, act)
	e := &catalog.Enabler{
		Action:   act.ID,
		Actor:    req.Vector{mustReq(t, c, "UnitClass", "Local", true, "Land")},
		Disabled: disabled,
		Origin:   "enabler_fortify",
	}
	_, err := c.AddEnabler(e)
	require.NoError(t, err)
}

func testReport(c *catalog.Catalog) *report.Report {
	rep := report.New("testdata/ruleset")
	rep.Ruleset = c.About.Name
	rep.Version = 4
	rep.Counts = c.Counts()
	return rep
}

func Test_Inspector_Execute(t *testing.T) {
	testCases := []struct {
		name         string
		cmd          command.Command
		setup        func(t *testing.T, c *catalog.Catalog, rep *report.Report)
		expectOutput []string
		expectNot    []string
		expectErr    string
	}{
		{
			name:         "help",
			cmd:          command.Command{Verb: "HELP"},
			expectOutput: []string{"LIST KIND", "SHOW KIND NAME", "leaves the inspector", "unitclasses"},
		},
		{
			name:         "help for verb",
			cmd:          command.Command{Verb: "HELP", Kind: "ENABLERS"},
			expectOutput: []string{"ENABLERS ACTION", "ENABLERS Fortify"},
		},
		{
			name:         "summary",
			cmd:          command.Command{Verb: "SUMMARY"},
			expectOutput: []string{"Inspect Test", "unit types", "No warnings."},
		},
		{
			name: "summary with warnings",
			cmd:  command.Command{Verb: "SUMMARY"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				rep.Add(report.Purge, "something was purged")
			},
			expectOutput: []string{"1 warning(s)"},
		},
		{
			name:         "list techs",
			cmd:          command.Command{Verb: "LIST", Kind: "TECHS"},
			expectOutput: []string{"ID", "Name", "Alphabet"},
		},
		{
			name:         "list empty kind",
			cmd:          command.Command{Verb: "LIST", Kind: "GOVERNMENTS"},
			expectOutput: []string{"There are no governments."},
		},
		{
			name: "list actions counts enablers",
			cmd:  command.Command{Verb: "LIST", Kind: "ACTIONS"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				addFortify(t, c, false)
			},
			expectOutput: []string{"Fortify", "Enablers", "Disband Unit"},
		},
		{
			name:         "list no effects",
			cmd:          command.Command{Verb: "LIST", Kind: "EFFECTS"},
			expectOutput: []string{"There are no effects."},
		},
		{
			name: "list effects cuts long sections",
			cmd:  command.Command{Verb: "LIST", Kind: "EFFECTS"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				require.NoError(t, c.AddEffect(&catalog.Effect{
					Type:   "Output_Add_Tile",
					Value:  1,
					Origin: "effect_grassland_food_bonus_for_despotism",
				}))
			},
			expectOutput: []string{"effect_grassland_food_bonus_f...", "Output_Add_Tile"},
			expectNot:    []string{"for_despotism"},
		},
		{
			name:         "show unit",
			cmd:          command.Command{Verb: "SHOW", Kind: "UNITS", Name: "warriors"},
			expectOutput: []string{"Unit type Warriors (#0)", "Land", "1/1", "build_reqs: (none)"},
		},
		{
			name:         "show unit class lists members",
			cmd:          command.Command{Verb: "SHOW", Kind: "UNITCLASSES", Name: "Land"},
			expectOutput: []string{"Unit class Land", "Unit types of this class: Warriors."},
		},
		{
			name:         "show terrain",
			cmd:          command.Command{Verb: "SHOW", Kind: "TERRAINS", Name: "Grassland"},
			expectOutput: []string{"Terrain Grassland", "2/0/0", "None"},
		},
		{
			name: "show effect",
			cmd:  command.Command{Verb: "SHOW", Kind: "EFFECTS", Name: "effect_grassland_food"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				require.NoError(t, c.AddEffect(&catalog.Effect{
					Type:   "Output_Add_Tile",
					Value:  1,
					Reqs:   req.Vector{mustReq(t, c, "Terrain", "Tile", true, "Grassland")},
					Origin: "effect_grassland_food",
				}))
			},
			expectOutput: []string{"Effect effect_grassland_food", "Output_Add_Tile", `Terrain "Grassland" at Tile range`},
		},
		{
			name:         "show action that no enabler can fulfill",
			cmd:          command.Command{Verb: "SHOW", Kind: "ACTIONS", Name: "Steal Tech Escape"},
			expectOutput: []string{"Action Steal Tech Escape", "Nothing in the ruleset can fulfill", "must be able to escape"},
			expectNot:    []string{"Every enabler must have"},
		},
		{
			name:      "show missing record",
			cmd:       command.Command{Verb: "SHOW", Kind: "TECHS", Name: "Writing"},
			expectErr: `There are no techs named "Writing"`,
		},
		{
			name: "enablers",
			cmd:  command.Command{Verb: "ENABLERS", Kind: "ACTIONS", Name: "fortify"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				addFortify(t, c, false)
				addFortify(t, c, true)
			},
			expectOutput: []string{"#0 enabler_fortify", "#1 enabler_fortify (disabled)", `UnitClass "Land" at Local range`, "target_reqs: (none)"},
		},
		{
			name:         "no enablers",
			cmd:          command.Command{Verb: "ENABLERS", Kind: "ACTIONS", Name: "Pillage"},
			expectOutput: []string{`Nothing enables "Pillage".`},
		},
		{
			name:      "enablers of unknown action",
			cmd:       command.Command{Verb: "ENABLERS", Kind: "ACTIONS", Name: "Dance"},
			expectErr: `There is no action named "Dance"; try LIST ACTIONS`,
		},
		{
			name:         "no problems",
			cmd:          command.Command{Verb: "PROBLEMS"},
			expectOutput: []string{"No problems found."},
		},
		{
			name: "contradiction is a problem",
			cmd:  command.Command{Verb: "PROBLEMS"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				b := &catalog.Building{Name: "Library", Reqs: req.Vector{
					mustReq(t, c, "Tech", "Player", true, "Alphabet"),
					mustReq(t, c, "Tech", "Player", false, "Alphabet"),
				}}
				var err error
				b.ID, err = c.Buildings.Add(b.Name, b)
				require.NoError(t, err)
			},
			expectOutput: []string{"[must-repair]", "contradict each other", "fix: remove", "from reqs", "1 problem(s)."},
		},
		{
			name:         "no warnings",
			cmd:          command.Command{Verb: "WARNINGS"},
			expectOutput: []string{"No warnings."},
		},
		{
			name: "warnings of one category",
			cmd:  command.Command{Verb: "WARNINGS", Kind: "repair"},
			setup: func(t *testing.T, c *catalog.Catalog, rep *report.Report) {
				rep.Add(report.Repair, "fixed an enabler")
				rep.Add(report.Purge, "removed an effect")
			},
			expectOutput: []string{"repair (1):", "fixed an enabler"},
			expectNot:    []string{"removed an effect"},
		},
		{
			name:      "warnings of unknown category",
			cmd:       command.Command{Verb: "WARNINGS", Kind: "spelling"},
			expectErr: `"spelling" is not a category of warning`,
		},
		{
			name: "quit",
			cmd:  command.Command{Verb: "QUIT"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			c := testCatalog(t)
			rep := testReport(c)
			if tc.setup != nil {
				tc.setup(t, c, rep)
			}
			in := New(c, rep, 100)

			out, err := in.Execute(tc.cmd)
			if tc.expectErr != "" {
				if assert.Error(err) {
					assert.Contains(command.UserMessage(err), tc.expectErr)
				}
				return
			}

			assert.NoError(err)
			for _, s := range tc.expectOutput {
				assert.Contains(out, s)
			}
			for _, s := range tc.expectNot {
				assert.NotContains(out, s)
			}
		})
	}
}

func Test_Inspector_Execute_UnknownVerb(t *testing.T) {
	c := testCatalog(t)
	in := New(c, testReport(c), 0)

	_, err := in.Execute(command.Command{Verb: "DANCE"})
	assert.Error(t, err)
}

func Test_Completions(t *testing.T) {
	assert := assert.New(t)

	comps := Completions()

	assert.Contains(comps, "QUIT")
	assert.Contains(comps["LIST"], "UNITS")
	assert.Contains(comps["HELP"], "ENABLERS")
	assert.Contains(comps["WARNINGS"], "UNUSED-KEY")
}
