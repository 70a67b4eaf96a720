package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sml/analyzer-go/pkg/history"
)

type historyOptions struct {
	DB    string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [session]",
		Short: "Show recorded check runs",
		Long: `Show runs recorded with check --history.

Without arguments the most recent runs are listed. With a session ID the
diagnostics of that run are printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(opts.DB)
			if err != nil {
				return WrapExitError(ExitCommandError, "history", err)
			}
			defer store.Close()

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				diags, err := store.Diagnostics(cmd.Context(), args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "history", err)
				}
				return writeDiagnostics(w, rootOpts.Format, diags)
			}
			runs, err := store.Runs(cmd.Context(), opts.Limit)
			if err != nil {
				return WrapExitError(ExitCommandError, "history", err)
			}
			return writeRuns(w, rootOpts.Format, runs)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of runs to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

type runRow struct {
	Session    string    `json:"session"`
	Unit       string    `json:"unit"`
	Path       string    `json:"path,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	Files      int       `json:"files"`
	DurationMS int64     `json:"duration_ms"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
}

func writeRuns(w io.Writer, format string, runs []history.Run) error {
	if format == "json" {
		rows := make([]runRow, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, runRow{
				Session:    r.Session,
				Unit:       r.Unit,
				Path:       r.Path,
				StartedAt:  r.StartedAt,
				Files:      r.Files,
				DurationMS: r.Duration.Milliseconds(),
				Errors:     r.Errors,
				Warnings:   r.Warnings,
			})
		}
		return writeJSON(w, rows)
	}
	for _, r := range runs {
		_, err := fmt.Fprintf(w, "%s  %s  %-20s %3d file(s) %3d error(s) %3d warning(s)\n",
			r.StartedAt.Format(time.RFC3339), r.Session, r.Unit, r.Files, r.Errors, r.Warnings)
		if err != nil {
			return err
		}
	}
	return nil
}
