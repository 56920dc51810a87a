// Package report holds the outcome of loading a ruleset: every change made to
// the rule data while loading it and every problem that was found but not
// fixed, along with a summary of what was loaded.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Category is the kind of event a Warning records.
type Category string

const (
	// Migration is a change made to bring older rule data up to the current
	// format.
	Migration Category = "migration"

	// Repair is a change made to an enabler so it meets the requirements its
	// action always has, or the disabling of one that could not be repaired.
	Repair Category = "repair"

	// Purge is the removal of an effect or enabler that could never apply.
	Purge Category = "purge"

	// Improvement is a problem in a requirement vector that does not stop it
	// from working. It is recorded whether or not it was fixed.
	Improvement Category = "improvement"

	// Impossible is a requirement vector of a kept record that can never be
	// fulfilled.
	Impossible Category = "impossible"

	// UnusedKey is a key in a ruleset file that nothing read.
	UnusedKey Category = "unused-key"
)

// Categories returns every Category in the order reports list them.
func Categories() []Category {
	return []Category{Migration, Repair, Purge, Improvement, Impossible, UnusedKey}
}

// ParseCategory returns the Category with the given name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown warning category %q", s)
}

// Warning is a single event recorded during a load.
type Warning struct {
	Category Category
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Category, w.Message)
}

// Report is the record of one ruleset load.
type Report struct {
	// ID uniquely identifies the report.
	ID uuid.UUID

	// Dir is the directory the ruleset was loaded from.
	Dir string

	// Ruleset is the name the ruleset gives itself.
	Ruleset string

	// Created is when the load started.
	Created time.Time

	// Version is the format version the ruleset files declared.
	Version int

	// CompatMode is whether the load accepted older format versions.
	CompatMode bool

	// Fingerprint identifies the loaded catalog. Loads that produce
	// identical catalogs have identical fingerprints.
	Fingerprint string

	// Counts is the number of loaded records of each kind.
	Counts map[string]int

	// Warnings is every event of the load, in the order they happened.
	Warnings []Warning
}

// New returns an empty Report for a load of the ruleset in dir, with a fresh
// ID.
func New(dir string) *Report {
	return &Report{
		ID:      uuid.New(),
		Dir:     dir,
		Created: time.Now(),
		Counts:  map[string]int{},
	}
}

// Add records a Warning.
func (r *Report) Add(cat Category, msg string) {
	r.Warnings = append(r.Warnings, Warning{Category: cat, Message: msg})
}

// Addf records a Warning with a formatted message.
func (r *Report) Addf(cat Category, format string, a ...any) {
	r.Add(cat, fmt.Sprintf(format, a...))
}

// Logger returns a function that records every message it is given as a
// Warning of the given category.
func (r *Report) Logger(cat Category) func(msg string) {
	return func(msg string) {
		r.Add(cat, msg)
	}
}

// Of returns the warnings of the given category, in the order they were
// recorded.
func (r *Report) Of(cat Category) []Warning {
	var ws []Warning
	for _, w := range r.Warnings {
		if w.Category == cat {
			ws = append(ws, w)
		}
	}
	return ws
}

// Tally returns the number of warnings of each category. Categories with no
// warnings are not included.
func (r *Report) Tally() map[Category]int {
	tally := map[Category]int{}
	for _, w := range r.Warnings {
		tally[w.Category]++
	}
	return tally
}

// CountNames returns the keys of Counts, sorted.
func (r *Report) CountNames() []string {
	names := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
