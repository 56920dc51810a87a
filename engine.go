// Package civrules contains the CLI-driven engine for loading game rulesets,
// keeping the reports of those loads, and inspecting a loaded ruleset
// interactively until the user quits.
package civrules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/dekarrin/civrules/internal/command"
	"github.com/dekarrin/civrules/internal/input"
	"github.com/dekarrin/civrules/internal/inspect"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/ruleset"
	"github.com/dekarrin/rosed"
)

// Engine contains the things needed to inspect a loaded ruleset from an
// interactive shell attached to an input stream and an output stream.
type Engine struct {
	res         *ruleset.Result
	insp        *inspect.Inspector
	in          command.Reader
	out         *bufio.Writer
	width       int
	forceDirect bool
	running     bool
}

// New creates a new engine ready to inspect res on the given input and output
// streams. It will immediately open a buffered reader on the input stream and
// a buffered writer on the output stream. Output is laid out for the given
// width; if it is not positive, report.DefaultWidth is used.
//
// If nil is given for the input stream, stdin is used. If nil is given for
// the output stream, stdout is used. When both are the console and
// forceDirectInput is not set, input is read through readline.
func New(inputStream io.Reader, outputStream io.Writer, res *ruleset.Result, width int, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if width <= 0 {
		width = report.DefaultWidth
	}

	eng := &Engine{
		res:         res,
		insp:        inspect.New(res.Catalog, res.Report, width),
		out:         bufio.NewWriter(outputStream),
		width:       width,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(inspect.Completions())
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// RunUntilQuit begins reading commands from the input stream and answering
// them until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	name := eng.res.Catalog.About.Name
	if name == "" {
		name = eng.res.Report.Dir
	}

	introMsg := "civrules ruleset inspector\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "==========================\n"
	introMsg += "\n"
	introMsg += fmt.Sprintf("Loaded %q with %d warning(s). Type HELP for commands.\n", name, len(eng.res.Report.Warnings))

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if isEOF(err) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		out, err := eng.insp.Execute(cmd)
		if err != nil {
			out = rosed.Edit(command.UserMessage(err)).Wrap(eng.width).String() + "\n"
		}
		if err := eng.write(out); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// isEOF returns whether err means the user is done giving input.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}
