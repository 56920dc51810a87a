// Package ruleset loads a complete ruleset from a directory of ruleset files
// into a catalog.
//
// Loading happens in two passes. The first registers the name of every record
// of every kind, so that the second, which reads the full bodies, can resolve
// a reference to any record no matter where it is defined. Before either pass
// every file's capabilities and format version are checked, and after the
// second pass rule data of older formats is brought up to date, every enabler
// is repaired, records that can never apply are purged and keys nothing read
// are reported.
//
// Load either returns a complete catalog or an error; a failed load never
// gives a partial catalog.
package ruleset

import (
	"fmt"
	"log/slog"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/rscompat"
)

// Options control how a ruleset is loaded.
type Options struct {
	// CompatMode allows rulesets of older format versions to be loaded.
	CompatMode bool

	// Limits are the capacities of the catalog. Unset capacities take their
	// defaults.
	Limits catalog.Limits

	// Logger receives a message for every change made to the rules while
	// loading. If nil, nothing is logged.
	Logger *slog.Logger
}

// Result is a loaded ruleset.
type Result struct {
	Catalog *catalog.Catalog
	Compat  rscompat.Info
	Report  *report.Report
}

type loader struct {
	c    *catalog.Catalog
	info *rscompat.Info
	fs   *fileSet
	log  *slog.Logger
	rep  *report.Report
}

// Load loads the ruleset in dir.
func Load(dir string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	limits := opts.Limits.FillDefaults()
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("limits: %w", err)
	}

	fs, err := openFiles(dir)
	if err != nil {
		return nil, err
	}

	ld := &loader{
		c:   catalog.New(limits),
		fs:  fs,
		log: log,
		rep: report.New(dir),
	}
	ld.info = &rscompat.Info{
		CompatMode: opts.CompatMode,
		Log:        rscompat.LogFunc(ld.warner(report.Migration)),
	}

	if err := rscompat.ReadVersions(fs.all(), ld.info); err != nil {
		return nil, err
	}
	log.Debug("format version", "version", ld.info.Version, "compat", ld.info.CompatMode)

	if err := ld.loadUserFlags(); err != nil {
		return nil, err
	}
	if err := ld.loadAllNames(); err != nil {
		return nil, err
	}
	if err := rscompat.Names(ld.c, ld.info); err != nil {
		return nil, err
	}

	if err := ld.loadBodies(); err != nil {
		return nil, err
	}

	if _, err := rscompat.PostLoad(ld.c, ld.info); err != nil {
		return nil, err
	}
	if err := ld.sanitize(); err != nil {
		return nil, err
	}
	ld.audit()

	rep := ld.rep
	rep.Ruleset = ld.c.About.Name
	rep.Version = ld.info.Version
	rep.CompatMode = ld.info.CompatMode
	rep.Fingerprint = ld.c.Fingerprint()
	rep.Counts = ld.c.Counts()

	log.Info("loaded ruleset", "name", ld.c.About.Name, "dir", dir, "warnings", len(rep.Warnings), "fingerprint", rep.Fingerprint)

	return &Result{
		Catalog: ld.c,
		Compat:  *ld.info,
		Report:  rep,
	}, nil
}

// loadBodies is the second pass of loading. The order matters only in that
// each step may check values loaded by earlier ones.
func (ld *loader) loadBodies() error {
	steps := []struct {
		what string
		load func() error
	}{
		{"about", ld.loadAbout},
		{"techs", ld.loadTechs},
		{"terrain", ld.loadTerrain},
		{"buildings", ld.loadBuildings},
		{"governments", ld.loadGovernments},
		{"units", ld.loadUnits},
		{"nations", ld.loadNations},
		{"cities", ld.loadCities},
		{"styles", ld.loadStyles},
		{"actions", ld.loadActions},
		{"enablers", ld.loadEnablers},
		{"disasters", ld.loadDisasters},
		{"achievements", ld.loadAchievements},
		{"counters", ld.loadCounters},
		{"multipliers", ld.loadMultipliers},
		{"clauses", ld.loadClauses},
		{"goods", ld.loadGoods},
		{"effects", ld.loadEffects},
	}

	for _, s := range steps {
		if err := s.load(); err != nil {
			return fmt.Errorf("loading %s: %w", s.what, err)
		}
	}
	return nil
}
