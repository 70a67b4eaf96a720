package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sml/analyzer-go/pkg/diag"
)

// NewCodesCommand creates the codes command.
func NewCodesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "codes [code]",
		Short: "List diagnostic codes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := diag.Registry()
			if len(args) == 1 {
				code, err := diag.ParseCode(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "codes", err)
				}
				info, _ := diag.Lookup(code)
				entries = []diag.CodeInfo{info}
			}
			return writeCodes(cmd.OutOrStdout(), rootOpts.Format, entries)
		},
	}
}

func writeCodes(w io.Writer, format string, entries []diag.CodeInfo) error {
	if format == "json" {
		return writeJSON(w, entries)
	}
	for _, info := range entries {
		if _, err := fmt.Fprintf(w, "%d  %-17s %s\n", int(info.Code), info.Name, info.Summary); err != nil {
			return err
		}
	}
	return nil
}
