package main

import (
	"fmt"

	"github.com/dekarrin/civrules"
	"github.com/dekarrin/civrules/internal/config"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var summaryOnly, strict bool

	cmd := &cobra.Command{
		Use:   "check [DIR]",
		Short: "Load a ruleset and print the report of the load",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := rulesetDir(cfg, args)
			if err != nil {
				return err
			}

			st, err := cfg.DB.Connect()
			if err != nil {
				return withCode(ExitInitError, fmt.Errorf("connect to report DB: %w", err))
			}
			defer st.Close()

			return runCheck(cmd, cfg, dir, st, summaryOnly, strict)
		},
	}

	cmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "print only a one-line summary of the report")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error status if the load gave any warnings")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg config.Config, dir string, st store.Store, summaryOnly, strict bool) error {
	res, err := civrules.Check(cmd.Context(), dir, cfg, st, logging.New("ruleset"))
	if err != nil {
		return withCode(ExitLoadError, fmt.Errorf("load %s: %w", dir, err))
	}

	out := cmd.OutOrStdout()
	if summaryOnly {
		fmt.Fprintln(out, res.Report.Summary())
	} else {
		fmt.Fprint(out, res.Report.Render(cfg.Width))
	}

	if strict && len(res.Report.Warnings) > 0 {
		return withCode(ExitWarnings, fmt.Errorf("%d warning(s)", len(res.Report.Warnings)))
	}
	return nil
}
