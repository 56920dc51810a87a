package secfile

import (
	"errors"
	"testing"

	"github.com/dekarrin/civrules/internal/rserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `
[datafile]
options = "+civrules-4.0-ruleset"
format_version = 4

[unit_warriors]
name = "Warriors"
move_rate = 1
flags = ["NonMil", "Cant_Fortify"]
obsolete_by = "Pikemen"

[unit_settlers]
name = "Settlers"
move_rate = 1
cost = "thirty"

[[unit_settlers.reqs]]
type = "Tech"
name = "Pottery"
range = "Player"

[[unit_settlers.reqs]]
type = "Gov"
name = "Despotism"
present = false

[control]
misspeled = true
`

func parseTest(t *testing.T) *File {
	f, err := Parse("units.toml", []byte(testData))
	require.NoError(t, err)
	return f
}

func Test_Parse_Error(t *testing.T) {
	_, err := Parse("bad.toml", []byte("[unclosed\nname = 1"))
	assert.ErrorIs(t, err, rserr.ErrMalformed)
}

func Test_File_Sections(t *testing.T) {
	f := parseTest(t)

	assert := assert.New(t)
	assert.Equal([]string{"datafile", "unit_warriors", "unit_settlers", "control"}, f.Sections())
	assert.Equal([]string{"unit_warriors", "unit_settlers"}, f.SectionsByPrefix("unit_"))
	assert.True(f.HasSection("control"))
	assert.False(f.HasSection("unit_"))
}

func Test_File_Lookups(t *testing.T) {
	testCases := []struct {
		name      string
		lookup    func(f *File) (interface{}, error)
		expect    interface{}
		expectErr error
	}{
		{
			name:   "string",
			lookup: func(f *File) (interface{}, error) { return f.LookupStr("%s.name", "unit_warriors") },
			expect: "Warriors",
		},
		{
			name:      "missing string",
			lookup:    func(f *File) (interface{}, error) { return f.LookupStr("unit_warriors.graphic") },
			expectErr: rserr.ErrNotFound,
		},
		{
			name:   "string default",
			lookup: func(f *File) (interface{}, error) { return f.LookupStrDefault("none", "unit_warriors.graphic") },
			expect: "none",
		},
		{
			name:   "int",
			lookup: func(f *File) (interface{}, error) { return f.LookupInt("unit_warriors.move_rate") },
			expect: 1,
		},
		{
			name:      "int of wrong type",
			lookup:    func(f *File) (interface{}, error) { return f.LookupIntDefault(10, "unit_settlers.cost") },
			expectErr: rserr.ErrMalformed,
		},
		{
			name:   "int within range",
			lookup: func(f *File) (interface{}, error) { return f.LookupIntRange(0, 2, 5, "datafile.format_version") },
			expect: 4,
		},
		{
			name:      "int below range",
			lookup:    func(f *File) (interface{}, error) { return f.LookupIntRange(0, 2, 5, "unit_warriors.move_rate") },
			expectErr: rserr.ErrMalformed,
		},
		{
			name:   "bool in array of tables",
			lookup: func(f *File) (interface{}, error) { return f.LookupBoolDefault(true, "unit_settlers.reqs.%d.present", 1) },
			expect: false,
		},
		{
			name:   "bool default",
			lookup: func(f *File) (interface{}, error) { return f.LookupBoolDefault(true, "unit_settlers.reqs.%d.present", 0) },
			expect: true,
		},
		{
			name:   "string list",
			lookup: func(f *File) (interface{}, error) { return f.LookupStrVec("unit_warriors.flags") },
			expect: []string{"NonMil", "Cant_Fortify"},
		},
		{
			name:   "single string as list",
			lookup: func(f *File) (interface{}, error) { return f.LookupStrVec("unit_warriors.obsolete_by") },
			expect: []string{"Pikemen"},
		},
		{
			name:   "absent list",
			lookup: func(f *File) (interface{}, error) { return f.LookupStrVec("unit_settlers.flags") },
			expect: []string(nil),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			f := parseTest(t)

			actual, err := tc.lookup(f)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				var secErr *Error
				if assert.True(errors.As(err, &secErr)) {
					assert.Equal("units.toml", secErr.File)
				}
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_File_Len(t *testing.T) {
	f := parseTest(t)

	assert.Equal(t, 2, f.Len("unit_settlers.reqs"))
	assert.Equal(t, 2, f.Len("unit_warriors.flags"))
	assert.Equal(t, 0, f.Len("unit_warriors.reqs"))
	assert.Equal(t, 0, f.Len("unit_warriors.name"))
}

func Test_File_Unused(t *testing.T) {
	f := parseTest(t)

	for _, sec := range f.SectionsByPrefix("unit_") {
		_, _ = f.LookupStr("%s.name", sec)
		_, _ = f.LookupIntDefault(1, "%s.move_rate", sec)
		_, _ = f.LookupStrVec("%s.flags", sec)
		for i := 0; i < f.Len("%s.reqs", sec); i++ {
			_, _ = f.LookupStr("%s.reqs.%d.type", sec, i)
			_, _ = f.LookupStr("%s.reqs.%d.name", sec, i)
			_, _ = f.LookupStrDefault("", "%s.reqs.%d.range", sec, i)
			_, _ = f.LookupBoolDefault(true, "%s.reqs.%d.present", sec, i)
		}
	}
	_, _ = f.LookupStr("datafile.options")
	_, _ = f.LookupInt("datafile.format_version")

	assert.Equal(t, []string{
		"control.misspeled",
		"unit_settlers.cost",
		"unit_warriors.obsolete_by",
	}, f.Unused())
}
