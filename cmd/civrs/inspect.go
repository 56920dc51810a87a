package main

import (
	"fmt"

	"github.com/dekarrin/civrules"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [DIR]",
		Short: "Load a ruleset and explore it interactively",
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

			res, err := civrules.Check(cmd.Context(), dir, cfg, st, logging.New("ruleset"))
			if err != nil {
				return withCode(ExitLoadError, fmt.Errorf("load %s: %w", dir, err))
			}

			eng, err := civrules.New(cmd.InOrStdin(), cmd.OutOrStdout(), res, cfg.Width, a.direct)
			if err != nil {
				return withCode(ExitInitError, err)
			}
			defer eng.Close()

			return eng.RunUntilQuit()
		},
	}
}
