package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dekarrin/civrules"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var patterns []string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Load a ruleset and load it again every time its files change",
		Long: "Watch loads a ruleset and prints a summary of the load, then does the\n" +
			"same again whenever a file matching one of the patterns changes. A load\n" +
			"that fails is reported and watching goes on. Stop with Ctrl-C.",
		Args: cobra.MaximumNArgs(1),
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

			log := logging.New("watch")
			w, err := civrules.NewWatcher(civrules.WatchConfig{
				Dir:      dir,
				Patterns: patterns,
				Debounce: debounce,
				Logger:   log,
			})
			if err != nil {
				return withCode(ExitInitError, err)
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			reload := func() {
				res, err := civrules.Check(ctx, dir, cfg, st, logging.New("ruleset"))
				stamp := time.Now().Format("15:04:05")
				if err != nil {
					fmt.Fprintf(out, "%s  load failed: %s\n", stamp, err)
					return
				}
				fmt.Fprintf(out, "%s  %s\n", stamp, res.Report.Summary())
			}

			reload()
			log.Info("watching ruleset", "dir", dir)
			return w.Run(ctx, reload)
		},
	}

	cmd.Flags().StringSliceVarP(&patterns, "pattern", "p", civrules.DefaultWatchPatterns, "reload when a file matching this pattern changes")
	cmd.Flags().DurationVar(&debounce, "debounce", civrules.DefaultDebounce, "wait this long after the last change before reloading")
	return cmd
}
