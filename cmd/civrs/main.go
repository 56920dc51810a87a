/*
Civrs loads game rulesets, checks and repairs their rules, and reports what it
found.

It reads the ruleset files in a ruleset directory, brings rule data of older
formats up to date, repairs action enablers that are missing requirements
their actions always have, removes rules that can never apply, and prints a
report of every change along with anything else that looks wrong. Reports are
kept in a database so earlier loads can be looked at again.

Usage:

	civrs [flags] check [DIR]
	civrs [flags] inspect [DIR]
	civrs [flags] watch [DIR]
	civrs [flags] history [DIR]
	civrs [flags] history show ID
	civrs [flags] history delete ID
	civrs version

If DIR is not given, the ruleset_dir of the config is used.

The flags are:

	-c, --config FILE
		Read configuration from the given YAML file. Defaults to
		"civrules.yaml" in the current working directory, if it exists.

	--compat
		Allow rulesets of older format versions to be loaded. Can also be set
		with CIVRULES_COMPAT.

	--db DRIVER[:PARAMS]
		Use the given DB connection string for keeping reports. DRIVER must be
		one of inmem or sqlite; sqlite needs the path to a data directory,
		such as sqlite:path/to/db_dir. Can also be set with CIVRULES_DB.
		Defaults to inmem, which forgets reports on exit.

	--log-level LEVEL
		Log messages of the given level and above: debug, info, warn, or
		error. Can also be set with CIVRULES_LOG_LEVEL. Defaults to warn.

	--log-format FORMAT
		Log as "text" or "json". Can also be set with CIVRULES_LOG_FORMAT.

	-w, --width COLUMNS
		Lay out text output for the given number of columns. Can also be set
		with CIVRULES_WIDTH. Defaults to 80.

	-d, --direct
		Force reading directly from the console as opposed to using readline
		based routines for reading inspector input even if launched in a tty
		with stdin and stdout.

Settings given as flags override environment variables, which override the
config file.

Once an inspect session has started, type "HELP" to see the commands and
"QUIT" to leave.
*/
package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitLoadError indicates that a ruleset could not be loaded.
	ExitLoadError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue with configuration or the report database.
	ExitInitError

	// ExitWarnings indicates that a ruleset loaded but gave warnings, and
	// --strict was set.
	ExitWarnings
)

// exitError is an error that ends the program with a particular exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitInitError
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	}
	os.Exit(exitCode(err))
}
