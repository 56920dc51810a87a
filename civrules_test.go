package civrules

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/dekarrin/civrules/internal/config"
	"github.com/dekarrin/civrules/internal/rscompat"
	"github.com/dekarrin/civrules/internal/ruleset"
	"github.com/dekarrin/civrules/internal/store/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRuleset writes a minimal ruleset named "Engine Test" with one tech to
// a new directory and returns it.
func writeRuleset(t *testing.T) string {
	dir := t.TempDir()
	for _, name := range ruleset.Files() {
		body := ""
		switch name {
		case ruleset.FileGame:
			body = "[about]\nname = \"Engine Test\"\n"
		case ruleset.FileTechs:
			body = "[advance_alphabet]\nname = \"Alphabet\"\ncost = 10\n"
		}
		data := fmt.Sprintf("[datafile]\noptions = %q\nformat_version = %d\n\n%s", rscompat.CapabilityRequired, rscompat.FormatCurrent, body)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
	return dir
}

func Test_Check(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dir := writeRuleset(t)
	st := inmem.NewDatastore()
	defer st.Close()

	res, err := Check(ctx, dir, config.Config{}.FillDefaults(), st, nil)
	require.NoError(t, err)

	assert.Equal("Engine Test", res.Report.Ruleset)
	assert.NotEqual(uuid.Nil, res.Report.ID)

	latest, err := st.Reports().Latest(ctx, dir)
	require.NoError(t, err)
	assert.Equal(res.Report.ID, latest.ID)
	assert.Equal(res.Report.Fingerprint, latest.Fingerprint)
}

func Test_Check_NoStore(t *testing.T) {
	res, err := Check(context.Background(), writeRuleset(t), config.Config{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, res.Report.ID)
}

func Test_Check_FailedLoadSavesNothing(t *testing.T) {
	ctx := context.Background()
	st := inmem.NewDatastore()
	defer st.Close()

	_, err := Check(ctx, filepath.Join(t.TempDir(), "missing"), config.Config{}, st, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	all, err := st.Reports().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectOutput []string
		expectNot    []string
	}{
		{
			name:         "quit right away",
			input:        "quit\n",
			expectOutput: []string{"civrules ruleset inspector", `Loaded "Engine Test" with 0 warning(s)`, "Goodbye"},
		},
		{
			name:         "commands then quit",
			input:        "list techs\nshow tech alphabet\nbye\nlist units\n",
			expectOutput: []string{"Alphabet", "Tech Alphabet (#0)", "Goodbye"},
			expectNot:    []string{"There are no units."},
		},
		{
			name:         "bad command",
			input:        "dance\nquit\n",
			expectOutput: []string{`I don't know what you mean by "dance"`, "Try HELP for valid commands", "Goodbye"},
		},
		{
			name:         "unknown record",
			input:        "show tech Writing\n",
			expectOutput: []string{`There are no techs named "Writing"`, "Goodbye"},
		},
		{
			name:         "end of input",
			input:        "summary",
			expectOutput: []string{"Engine Test", "No warnings.", "Goodbye"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			res, err := Check(context.Background(), writeRuleset(t), config.Config{}, nil, nil)
			require.NoError(t, err)

			var out bytes.Buffer
			eng, err := New(strings.NewReader(tc.input), &out, res, 80, true)
			require.NoError(t, err)

			err = eng.RunUntilQuit()
			assert.NoError(err)
			assert.NoError(eng.Close())

			for _, s := range tc.expectOutput {
				assert.Contains(out.String(), s)
			}
			for _, s := range tc.expectNot {
				assert.NotContains(out.String(), s)
			}
		})
	}
}

func Test_Watcher_Matches(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		patterns []string
		path     string
		expect   bool
	}{
		{name: "default matches toml", path: filepath.Join(dir, "units.toml"), expect: true},
		{name: "default skips backups", path: filepath.Join(dir, "units.toml~"), expect: false},
		{name: "relative name", path: "techs.toml", expect: true},
		{name: "custom pattern", patterns: []string{"{units,techs}.toml"}, path: filepath.Join(dir, "techs.toml"), expect: true},
		{name: "custom pattern miss", patterns: []string{"{units,techs}.toml"}, path: filepath.Join(dir, "effects.toml"), expect: false},
		{name: "nested", patterns: []string{"**/*.toml"}, path: filepath.Join(dir, "extra", "nations.toml"), expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := NewWatcher(WatchConfig{Dir: dir, Patterns: tc.patterns})
			require.NoError(t, err)
			defer w.Close()

			assert.Equal(t, tc.expect, w.Matches(tc.path))
		})
	}
}

func Test_NewWatcher_BadPattern(t *testing.T) {
	_, err := NewWatcher(WatchConfig{Dir: t.TempDir(), Patterns: []string{"[unclosed"}})
	assert.Error(t, err)
}

func Test_Watcher_Run(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(WatchConfig{Dir: dir, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { reloads <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.toml"), []byte("[datafile]\n"), 0644))

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after a ruleset file changed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop when its context was canceled")
	}
}

func Test_isEOF(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect bool
	}{
		{name: "end of input", err: io.EOF, expect: true},
		{name: "ctrl-c", err: readline.ErrInterrupt, expect: true},
		{name: "wrapped end of input", err: fmt.Errorf("read command: %w", io.EOF), expect: true},
		{name: "other error", err: errors.New("terminal went away"), expect: false},
		{name: "nil", err: nil, expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, isEOF(tc.err))
		})
	}
}
