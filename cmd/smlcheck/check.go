package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sml/analyzer-go/pkg/config"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/driver"
	"sml/analyzer-go/pkg/history"
)

type checkOptions struct {
	Config  string
	Workers int
	History string
}

// checkReport is the JSON form of a check run.
type checkReport struct {
	Units    []driver.UnitResult `json:"units"`
	Errors   int                 `json:"errors"`
	Warnings int                 `json:"warnings"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [unit.cm | unit.yml | file.sml]...",
		Short: "Type check compilation units",
		Long: `Type check compilation units and report diagnostics.

Unit descriptions are checked as separate units, concurrently. Loose source
files are grouped into one unit in the order given. Without arguments the
units listed in smlcheck.yml are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), rootOpts, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "configuration file (default: nearest smlcheck.yml)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "units checked at once (default: from config, then GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this SQLite database")

	return cmd
}

func runCheck(ctx context.Context, rootOpts *RootOptions, opts *checkOptions, args []string, w io.Writer) error {
	logger := rootOpts.Logger()

	cfg, err := loadConfig(opts.Config, len(args) == 0)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		if cfg == nil || len(cfg.Units) == 0 {
			return NewExitError(ExitCommandError, "nothing to check: pass units or files, or list units in "+config.FileName)
		}
		paths = cfg.Units
	}

	units, err := loadUnits(driver.NewLoader(), paths)
	if err != nil {
		return WrapExitError(ExitCommandError, "load", err)
	}

	sched := &driver.Scheduler{Workers: opts.Workers, Logger: logger}
	if cfg != nil {
		if sched.Workers == 0 {
			sched.Workers = cfg.Workers
		}
		sched.Overrides = cfg.Overrides
		logger.Debug("configuration loaded", "path", cfg.Path, "overrides", len(cfg.Overrides))
	}

	started := time.Now().UTC()
	results, err := sched.CheckUnits(ctx, units)
	if err != nil {
		return WrapExitError(ExitCommandError, "check", err)
	}

	if opts.History != "" {
		if err := recordRuns(ctx, opts.History, started, results); err != nil {
			return WrapExitError(ExitCommandError, "history", err)
		}
	}

	report := checkReport{Units: results}
	for _, res := range results {
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case diag.SeverityError:
				report.Errors++
			case diag.SeverityWarning:
				report.Warnings++
			}
		}
	}
	if err := writeCheckReport(w, rootOpts.Format, report); err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}
	if report.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d error(s) reported", report.Errors))
	}
	return nil
}

// loadConfig reads the explicit configuration file, or the nearest one.
// A missing configuration is only an error when explicitly named.
func loadConfig(path string, required bool) (*config.Config, error) {
	if path == "" {
		found, err := config.Find(".")
		if errors.Is(err, config.ErrNotFound) {
			if required {
				return nil, NewExitError(ExitCommandError, "nothing to check: no arguments and no "+config.FileName+" found")
			}
			return nil, nil
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "config", err)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "config", err)
	}
	return cfg, nil
}

// loadUnits loads each description as its own unit. Loose source files form
// a single unit placed where the first of them appeared.
func loadUnits(loader *driver.Loader, paths []string) ([]*driver.Unit, error) {
	var (
		units []*driver.Unit
		loose []string
		slot  = -1
	)
	for _, path := range paths {
		if driver.IsDescriptionPath(path) {
			u, err := loader.LoadUnit(path)
			if err != nil {
				return nil, err
			}
			units = append(units, u)
			continue
		}
		if slot < 0 {
			slot = len(units)
			units = append(units, nil)
		}
		loose = append(loose, path)
	}
	if slot >= 0 {
		u, err := loader.LoadFiles("files", loose...)
		if err != nil {
			return nil, err
		}
		units[slot] = u
	}
	return units, nil
}

func recordRuns(ctx context.Context, dbPath string, started time.Time, results []driver.UnitResult) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, res := range results {
		run := history.Run{
			Session:     res.Session,
			Unit:        res.Unit,
			Path:        res.Path,
			StartedAt:   started,
			Files:       res.Files,
			Duration:    res.Duration,
			Diagnostics: res.Diagnostics,
		}
		if err := store.Record(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

func writeCheckReport(w io.Writer, format string, report checkReport) error {
	if format == "json" {
		return writeJSON(w, report)
	}
	files := 0
	for _, res := range report.Units {
		if err := diag.WriteText(w, res.Diagnostics); err != nil {
			return err
		}
		files += res.Files
	}
	_, err := fmt.Fprintf(w, "checked %d unit(s), %d file(s): %d error(s), %d warning(s)\n",
		len(report.Units), files, report.Errors, report.Warnings)
	return err
}
