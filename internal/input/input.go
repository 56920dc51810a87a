// Package input reads inspector command lines, either straight from a stream
// or through readline when a terminal is attached.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/civrules/internal/util"
)

// DefaultPrompt is shown before every line read by an InteractiveReader.
const DefaultPrompt = "civrules> "

// DirectReader reads command lines from any io.Reader. Input is not cleaned
// of control or escape sequences, so it is best suited to piped or scripted
// input.
//
// Create one with NewDirectReader.
type DirectReader struct {
	r          *bufio.Reader
	allowBlank bool
}

// NewDirectReader returns a DirectReader that buffers r.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// AllowBlank sets whether ReadCommand returns blank lines instead of skipping
// them. By default they are skipped.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.allowBlank = allow
}

// ReadCommand returns the next line with surrounding space removed. At the end
// of input it returns "" and io.EOF; a last line with no newline is still
// returned first.
func (dr *DirectReader) ReadCommand() (string, error) {
	return nextLine(func() (string, error) {
		return dr.r.ReadString('\n')
	}, dr.allowBlank)
}

// Close does nothing; it exists so DirectReader is a command.Reader.
func (dr *DirectReader) Close() error {
	return nil
}

// InteractiveReader reads command lines from the terminal through readline,
// which gives line editing, history and tab completion of inspector words.
//
// Create one with NewInteractiveReader and Close it when done.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader sets up readline on stdin and stdout.
//
// completions gives the words offered for tab completion: each key is a word
// that may start a command, and its value the words that may follow it. It
// may be nil.
func NewInteractiveReader(completions map[string][]string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		AutoComplete:    Completer(completions),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("set up readline: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// ReadCommand blocks until a non-blank line is entered and returns it with
// surrounding space removed. Ctrl-D gives io.EOF and Ctrl-C gives
// readline.ErrInterrupt.
func (ir *InteractiveReader) ReadCommand() (string, error) {
	return nextLine(ir.rl.Readline, false)
}

// Close restores the terminal.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// Completer builds a readline tab completer from the given completions. Words
// are offered in sorted order.
func Completer(completions map[string][]string) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, first := range util.OrderedKeys(completions) {
		var children []readline.PrefixCompleterInterface
		for _, next := range util.SortBy(completions[first], func(l, r string) bool { return l < r }) {
			children = append(children, readline.PcItem(next))
		}
		items = append(items, readline.PcItem(first, children...))
	}
	return readline.NewPrefixCompleter(items...)
}

// nextLine calls read until it gives a line that is not blank, or any line at
// all if allowBlank is set. Text that comes along with io.EOF counts as a
// line; the EOF is then reported on the following call.
func nextLine(read func() (string, error), allowBlank bool) (string, error) {
	for {
		line, err := read()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" || allowBlank {
			return line, nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
}
