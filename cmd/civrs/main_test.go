package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/civrules/internal/rscompat"
	"github.com/dekarrin/civrules/internal/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuleset(t *testing.T, extraGame string) string {
	dir := t.TempDir()
	for _, name := range ruleset.Files() {
		body := ""
		if name == ruleset.FileGame {
			body = "[about]\nname = \"CLI Test\"\n" + extraGame
		}
		data := fmt.Sprintf("[datafile]\noptions = %q\nformat_version = %d\n\n%s", rscompat.CapabilityRequired, rscompat.FormatCurrent, body)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
	return dir
}

// run executes civrs with args and an empty environment.
func run(stdin string, args ...string) (stdout string, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmdFor(&app{getenv: func(string) string { return "" }})
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func Test_Check(t *testing.T) {
	dir := writeRuleset(t, "")
	out, _, err := run("", "check", dir)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(out, "Ruleset:     CLI Test")
	assert.Contains(out, "No warnings.")
}

func Test_Check_Summary(t *testing.T) {
	dir := writeRuleset(t, "")
	out, _, err := run("", "check", "--summary", dir)

	assert.NoError(t, err)
	assert.Contains(t, out, `"CLI Test"  v4  0 warning(s)`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func Test_Check_Strict(t *testing.T) {
	dir := writeRuleset(t, "colour = \"blue\"\n")
	out, _, err := run("", "check", "--strict", dir)

	assert.Contains(t, out, "unused key")
	assert.Equal(t, ExitWarnings, exitCode(err))
}

func Test_Check_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		expectCode int
	}{
		{name: "missing ruleset", args: []string{"check", filepath.Join(os.TempDir(), "civrs-no-such-dir")}, expectCode: ExitLoadError},
		{name: "no directory", args: []string{"check"}, expectCode: ExitInitError},
		{name: "bad db", args: []string{"check", "--db", "postgres:x", "."}, expectCode: ExitInitError},
		{name: "bad width", args: []string{"check", "--width", "5", "."}, expectCode: ExitInitError},
		{name: "bad log level", args: []string{"check", "--log-level", "loud", "."}, expectCode: ExitInitError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := run("", tc.args...)
			assert.Error(t, err)
			assert.Equal(t, tc.expectCode, exitCode(err))
		})
	}
}

func Test_Inspect(t *testing.T) {
	dir := writeRuleset(t, "")
	out, _, err := run("summary\nquit\n", "inspect", "--direct", dir)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(out, `Loaded "CLI Test" with 0 warning(s)`)
	assert.Contains(out, "Fingerprint:")
	assert.Contains(out, "Goodbye")
}

func Test_History(t *testing.T) {
	assert := assert.New(t)
	dir := writeRuleset(t, "")
	db := "sqlite:" + t.TempDir()

	_, _, err := run("", "check", "--db", db, dir)
	require.NoError(t, err)
	_, _, err = run("", "check", "--db", db, dir)
	require.NoError(t, err)

	out, _, err := run("", "history", "--db", db, dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(lines[0], `"CLI Test"`)

	id := strings.Fields(lines[0])[0]

	out, _, err = run("", "history", "show", "--db", db, id)
	require.NoError(t, err)
	assert.Contains(out, "Report:      "+id)

	out, _, err = run("", "history", "delete", "--db", db, id)
	require.NoError(t, err)
	assert.Contains(out, "Deleted "+id)

	_, _, err = run("", "history", "show", "--db", db, id)
	assert.Equal(ExitInitError, exitCode(err))

	out, _, err = run("", "history", "--all", "--db", db)
	require.NoError(t, err)
	assert.Equal(1, strings.Count(out, "\n"))
}

func Test_History_InMemoryNote(t *testing.T) {
	_, errOut, err := run("", "history", "--all")
	assert.NoError(t, err)
	assert.Contains(t, errOut, "only kept in memory")
}

func Test_Version(t *testing.T) {
	out, _, err := run("", "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "civrs ")
	assert.Contains(t, out, rscompat.CapabilityRequired)
}

func Test_LoadConfig_Precedence(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "civrules.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("width: 60\ncompat_mode: true\nlog_format: json\nruleset_dir: rules\n"), 0644))

	env := map[string]string{
		"CIVRULES_WIDTH":      "100",
		"CIVRULES_LOG_FORMAT": "text",
	}

	testCases := []struct {
		name         string
		flags        []string
		expectWidth  int
		expectCompat bool
		expectFormat string
	}{
		{
			name:         "file and environment",
			expectWidth:  100,
			expectCompat: true,
			expectFormat: "text",
		},
		{
			name:         "flags win",
			flags:        []string{"--width", "120", "--compat=false", "--log-format", "json"},
			expectWidth:  120,
			expectCompat: false,
			expectFormat: "json",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := &app{getenv: func(k string) string { return env[k] }}
			cmd := newRootCmdFor(a)
			cmd.SetErr(&bytes.Buffer{})
			require.NoError(t, cmd.ParseFlags(append([]string{"--config", cfgFile}, tc.flags...)))

			cfg, err := a.loadConfig(cmd)
			require.NoError(t, err)

			assert.Equal(tc.expectWidth, cfg.Width)
			assert.Equal(tc.expectCompat, cfg.CompatMode)
			assert.Equal(tc.expectFormat, cfg.LogFormat)
			assert.Equal("rules", cfg.RulesetDir)
			assert.Equal("warn", cfg.LogLevel)
		})
	}
}
