package civrules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dekarrin/civrules/internal/config"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/dekarrin/civrules/internal/ruleset"
	"github.com/dekarrin/civrules/internal/store"
)

// Check loads the ruleset in dir with the settings in cfg. If st is not nil,
// the report of the load is saved in it and the returned report carries the
// ID it was saved under. A load that fails saves nothing.
func Check(ctx context.Context, dir string, cfg config.Config, st store.Store, log *slog.Logger) (*ruleset.Result, error) {
	if log == nil {
		log = logging.Discard()
	}

	res, err := ruleset.Load(dir, ruleset.Options{
		CompatMode: cfg.CompatMode,
		Limits:     cfg.Limits,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	if st != nil {
		saved, err := st.Reports().Create(ctx, *res.Report)
		if err != nil {
			return res, fmt.Errorf("save report: %w", err)
		}
		*res.Report = saved
		log.Debug("saved report", "id", saved.ID)
	}

	return res, nil
}
