// Package rscompat lets rulesets written for older format versions be loaded.
// It checks the capability string and format version of every ruleset file,
// and carries the renames and additions needed to bring older rule data up to
// what the current format expects.
//
// Migrations here only ever rename identifiers or add data. They never
// remove anything an author wrote.
package rscompat

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/rserr"
	"github.com/dekarrin/civrules/internal/secfile"
)

const (
	// FormatCurrent is the format version this loader is written for.
	FormatCurrent = 4

	// FormatMinCompat is the oldest format version that can be loaded in
	// compat mode.
	FormatMinCompat = 2

	// CapabilityRequired is the capability string every ruleset file must
	// declare.
	CapabilityRequired = "+civrules-4.0-ruleset"

	// CapabilityCompat is the capability string of the previous major format.
	// It is accepted only in compat mode.
	CapabilityCompat = "+civrules-3.0-ruleset"
)

// LogFunc receives a message about a change made to the ruleset while
// loading it.
type LogFunc func(msg string)

// Info is the state of compatibility handling for one load.
type Info struct {
	// Version is the format version of the ruleset being loaded. It is 0
	// until ReadVersions has run.
	Version int

	// CompatMode is whether rulesets of older format versions are accepted.
	CompatMode bool

	// Log receives every migration that is made. It may be nil.
	Log LogFunc

	renamed map[string]bool
}

func (info *Info) logf(format string, a ...any) {
	if info.Log == nil {
		return
	}
	info.Log(fmt.Sprintf(format, a...))
}

// Before returns whether the loaded ruleset is older than the given format
// version.
func (info *Info) Before(version int) bool {
	return info.Version < version
}

// capNames returns the capability names in s along with whether each is
// mandatory.
func capNames(s string) map[string]bool {
	caps := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		mandatory := strings.HasPrefix(tok, "+")
		caps[strings.TrimPrefix(tok, "+")] = mandatory
	}
	return caps
}

// HasCapabilities returns whether every mandatory capability in us is also in
// them.
func HasCapabilities(us, them string) bool {
	theirs := capNames(them)
	for name, mandatory := range capNames(us) {
		if !mandatory {
			continue
		}
		if _, ok := theirs[name]; !ok {
			return false
		}
	}
	return true
}

func capabilitiesMatch(ours, theirs string) bool {
	return HasCapabilities(ours, theirs) && HasCapabilities(theirs, ours)
}

// CheckCapabilities checks the datafile.options capability string of f. In
// compat mode the capability string of the previous format is tried before
// the current one.
func CheckCapabilities(f *secfile.File, info *Info) error {
	opts, err := f.LookupStr("datafile.options")
	if err != nil {
		return rserr.New(fmt.Sprintf("%q: missing datafile options", f.Name()), err, rserr.ErrCapability)
	}

	tried := []string{CapabilityRequired}
	if info.CompatMode {
		tried = []string{CapabilityCompat, CapabilityRequired}
	}

	for _, caps := range tried {
		if capabilitiesMatch(caps, opts) {
			return nil
		}
	}

	return rserr.New(
		fmt.Sprintf("%q: ruleset datafile appears incompatible: datafile options %q, supported options %q", f.Name(), opts, strings.Join(tried, `" or "`)),
		rserr.ErrCapability,
	)
}

// ReadVersion returns the format version declared by f. The version is
// required; a missing or zero version is an error, as is a version this
// loader cannot handle in the current mode.
func ReadVersion(f *secfile.File, info *Info) (int, error) {
	v, err := declaredVersion(f)
	if err != nil {
		return 0, err
	}
	if err := checkSupported(fmt.Sprintf("%q", f.Name()), v, info); err != nil {
		return 0, err
	}
	return v, nil
}

func declaredVersion(f *secfile.File) (int, error) {
	v, err := f.LookupInt("datafile.format_version")
	if err != nil {
		return 0, rserr.New(fmt.Sprintf("%q: cannot read format version", f.Name()), err, rserr.ErrVersion)
	}
	if v == 0 {
		return 0, rserr.New(fmt.Sprintf("%q: format version must not be 0", f.Name()), rserr.ErrVersion)
	}
	return v, nil
}

// checkSupported returns an error if version v cannot be loaded in the mode
// info gives. what names whatever declared v.
func checkSupported(what string, v int, info *Info) error {
	if info.CompatMode {
		if v < FormatMinCompat || v > FormatCurrent {
			return rserr.New(fmt.Sprintf("%s: format version %d is not supported; must be between %d and %d", what, v, FormatMinCompat, FormatCurrent), rserr.ErrVersion)
		}
		return nil
	}

	if v != FormatCurrent {
		msg := fmt.Sprintf("%s: format version %d is not supported; must be %d", what, v, FormatCurrent)
		if v >= FormatMinCompat && v < FormatCurrent {
			msg += " (older versions can be loaded in compat mode)"
		}
		return rserr.New(msg, rserr.ErrVersion)
	}
	return nil
}

// ReadVersions checks the capabilities and reads the format version of every
// file, and sets info.Version. Every file must declare the same version; the
// first file given is the one the others are compared against. Only once all
// of them agree is the version checked against what the current mode
// supports.
func ReadVersions(files []*secfile.File, info *Info) error {
	var first *secfile.File

	for _, f := range files {
		if err := CheckCapabilities(f, info); err != nil {
			return err
		}

		v, err := declaredVersion(f)
		if err != nil {
			return err
		}

		if first == nil {
			first = f
			info.Version = v
			continue
		}

		if v != info.Version {
			return rserr.New(
				fmt.Sprintf("version mismatch: %q declares format version %d but %q declares format version %d; all files must use the same version", first.Name(), info.Version, f.Name(), v),
				rserr.ErrVersion,
			)
		}
	}

	if first != nil {
		if err := checkSupported("ruleset", info.Version, info); err != nil {
			return err
		}
	}

	if info.CompatMode && info.Version < FormatCurrent {
		info.logf("loading ruleset of format version %d in compat mode; it will be upgraded to version %d", info.Version, FormatCurrent)
	}
	return nil
}
