package report

import (
	"strings"
	"testing"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *Report {
	r := New("/rulesets/classic")
	r.Ruleset = "Classic"
	r.Version = 3
	r.CompatMode = true
	r.Fingerprint = "0c4b3f2e-5d26-5a8e-9d71-2b8b2a9a9e10"
	r.Counts["techs"] = 87
	r.Counts["enablers"] = 41
	r.Add(Migration, `requirement type "Special" is now called "Extra"`)
	r.Addf(Repair, "enabler %q for %q needs %s", "enabler_steal_tech_escape", "Steal Tech Escape", `UnitFlag "Spy"`)
	r.Add(UnusedKey, `"units.toml": unused key "unit_warriors.obsolete_by"`)
	r.Add(Migration, `unit flag "Paratroopers" is now called "Paradropper"`)
	return r
}

func Test_ParseCategory(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Category
		expectErr bool
	}{
		{name: "migration", input: "migration", expect: Migration},
		{name: "unused key", input: "unused-key", expect: UnusedKey},
		{name: "unknown", input: "sabotage", expectErr: true},
		{name: "case matters", input: "Purge", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ParseCategory(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func Test_Report_Of(t *testing.T) {
	r := testReport()

	assert := assert.New(t)
	migs := r.Of(Migration)
	if assert.Len(migs, 2) {
		assert.Contains(migs[0].Message, "Special")
		assert.Contains(migs[1].Message, "Paratroopers")
	}
	assert.Empty(r.Of(Purge))
	assert.Equal(map[Category]int{Migration: 2, Repair: 1, UnusedKey: 1}, r.Tally())
}

func Test_Report_Logger(t *testing.T) {
	r := New("dir")
	log := r.Logger(Purge)
	log("effect removed")

	assert.Equal(t, []Warning{{Category: Purge, Message: "effect removed"}}, r.Warnings)
}

func Test_Report_Binary(t *testing.T) {
	r := testReport()

	var actual Report
	_, err := rezi.DecBinary(rezi.EncBinary(r), &actual)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(r.ID, actual.ID)
	assert.Equal(r.Dir, actual.Dir)
	assert.Equal(r.Ruleset, actual.Ruleset)
	assert.True(r.Created.Equal(actual.Created))
	assert.Equal(r.Version, actual.Version)
	assert.Equal(r.CompatMode, actual.CompatMode)
	assert.Equal(r.Fingerprint, actual.Fingerprint)
	assert.Equal(r.Counts, actual.Counts)
	assert.Equal(r.Warnings, actual.Warnings)
}

func Test_Report_UnmarshalBinary_Truncated(t *testing.T) {
	data, err := testReport().MarshalBinary()
	require.NoError(t, err)

	var r Report
	err = r.UnmarshalBinary(data[:len(data)/2])
	assert.Error(t, err)
}

func Test_Report_Render(t *testing.T) {
	r := testReport()
	r.Created = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	out := r.Render(60)

	assert := assert.New(t)
	assert.Contains(out, "Ruleset:     Classic")
	assert.Contains(out, "Format:      3 (compat mode)")
	assert.Contains(out, "techs")
	assert.Contains(out, "87")
	assert.Contains(out, "migration (2):")
	assert.Contains(out, "unused-key (1):")
	assert.NotContains(out, "purge (")
	assert.NotContains(out, "No warnings.")
}

func Test_Report_Render_NoWarnings(t *testing.T) {
	r := New("dir")
	assert.Contains(t, r.Render(0), "No warnings.")
}

func Test_Report_RenderWarnings_Wraps(t *testing.T) {
	r := New("dir")
	r.Add(Improvement, "enabler \"enabler_found_city\" for \"Found City\" has a requirement that can never matter: not UnitFlag \"IgZOC\" at Local range in target_reqs")

	out := r.RenderWarnings(40, Improvement)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 40, "line %q", line)
	}
	assert.Contains(t, out, "  - enabler")
}
