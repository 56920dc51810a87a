package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/civrules/internal/config"
	"github.com/dekarrin/civrules/internal/logging"
	"github.com/dekarrin/civrules/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app holds the values of the flags every command shares.
type app struct {
	configFile string
	compat     bool
	db         string
	logLevel   string
	logFormat  string
	width      int
	direct     bool

	getenv func(string) string
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{getenv: os.Getenv})
}

func newRootCmdFor(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "civrs",
		Short:         "Load, check and repair game rulesets",
		Long:          "Civrs loads a game ruleset, brings old rule data up to date, repairs\naction enablers and reports everything it changed.",
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "read configuration from the given YAML file")
	pf.BoolVar(&a.compat, "compat", false, "allow rulesets of older format versions")
	pf.StringVar(&a.db, "db", "", "keep reports in the given DB (inmem or sqlite:DIR)")
	pf.StringVar(&a.logLevel, "log-level", "", "log messages of this level and above")
	pf.StringVar(&a.logFormat, "log-format", "", "log as text or json")
	pf.IntVarP(&a.width, "width", "w", 0, "lay out output for this many columns")
	pf.BoolVarP(&a.direct, "direct", "d", false, "read inspector input directly instead of through readline")

	root.AddCommand(
		newCheckCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadConfig builds the Config for cmd from, lowest to highest precedence,
// defaults, the config file, the environment and flags. It also sets up
// logging.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return cfg, withCode(ExitInitError, err)
	}
	cfg, err = cfg.ApplyEnv(a.getenv)
	if err != nil {
		return cfg, withCode(ExitInitError, err)
	}

	cfg, err = a.applyFlags(cfg, cmd.Flags())
	if err != nil {
		return cfg, withCode(ExitInitError, err)
	}

	// the report already lists every warning, so only worse is logged
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, withCode(ExitInitError, fmt.Errorf("config: %w", err))
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(level, cfg.LogFormat, cmd.ErrOrStderr())
	return cfg, nil
}

// applyFlags returns cfg with every setting given in flags replaced. Flags
// that were not given on the command line leave the setting alone.
func (a *app) applyFlags(cfg config.Config, flags *pflag.FlagSet) (config.Config, error) {
	if flags.Changed("compat") {
		cfg.CompatMode = a.compat
	}
	if flags.Changed("db") {
		db, err := config.ParseDBConnString(a.db)
		if err != nil {
			return cfg, fmt.Errorf("--db: %w", err)
		}
		cfg.DB = db
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("width") {
		cfg.Width = a.width
	}
	return cfg, nil
}

// rulesetDir gives the absolute path of the ruleset directory named in args,
// or of the configured one if args is empty. Reports are kept by absolute
// path so every command agrees on which ruleset is which.
func rulesetDir(cfg config.Config, args []string) (string, error) {
	dir := cfg.RulesetDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return "", withCode(ExitInitError, fmt.Errorf("no ruleset directory given and ruleset_dir is not set"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", withCode(ExitInitError, err)
	}
	return abs, nil
}
