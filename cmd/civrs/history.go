package main

import (
	"errors"
	"fmt"

	"github.com/dekarrin/civrules/internal/config"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "history [DIR]",
		Short: "List the reports of earlier loads, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(cfg config.Config, st store.Store) error {
				var reps []report.Report
				var err error
				if all {
					reps, err = st.Reports().GetAll(cmd.Context())
				} else {
					dir, dirErr := rulesetDir(cfg, args)
					if dirErr != nil {
						return dirErr
					}
					reps, err = st.Reports().GetAllByDir(cmd.Context(), dir)
				}
				if err != nil {
					return withCode(ExitInitError, fmt.Errorf("get reports: %w", err))
				}

				out := cmd.OutOrStdout()
				if len(reps) == 0 {
					fmt.Fprintln(out, "No reports.")
					return nil
				}
				for i := range reps {
					fmt.Fprintln(out, reps[i].Summary())
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list the reports of every ruleset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show ID",
			Short: "Print a report of an earlier load",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd, func(cfg config.Config, st store.Store) error {
					id, err := parseReportID(args[0])
					if err != nil {
						return err
					}
					rep, err := st.Reports().GetByID(cmd.Context(), id)
					if err != nil {
						return reportErr(id, err)
					}
					fmt.Fprint(cmd.OutOrStdout(), rep.Render(cfg.Width))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a report of an earlier load",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd, func(cfg config.Config, st store.Store) error {
					id, err := parseReportID(args[0])
					if err != nil {
						return err
					}
					rep, err := st.Reports().Delete(cmd.Context(), id)
					if err != nil {
						return reportErr(id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", rep.Summary())
					return nil
				})
			},
		},
	)
	return cmd
}

// withStore loads the config for cmd, connects to its report DB and calls fn.
func (a *app) withStore(cmd *cobra.Command, fn func(cfg config.Config, st store.Store) error) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DB.Type == config.DatabaseInMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), "NOTE: reports are only kept in memory; use --db sqlite:DIR to keep them between runs")
	}

	st, err := cfg.DB.Connect()
	if err != nil {
		return withCode(ExitInitError, fmt.Errorf("connect to report DB: %w", err))
	}
	defer st.Close()

	return fn(cfg, st)
}

func parseReportID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, withCode(ExitInitError, fmt.Errorf("%q is not a report ID", s))
	}
	return id, nil
}

func reportErr(id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return withCode(ExitInitError, fmt.Errorf("no report with ID %s", id))
	}
	return withCode(ExitInitError, err)
}
