package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/driver"
)

// NewParseCommand creates the parse command. It prints the syntax tree of one
// file as JSON, reading stdin when no file (or "-") is given.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file.sml]",
		Short: "Print the syntax tree of a source file as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			source, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return WrapExitError(ExitCommandError, "read source", err)
			}
			file, diags := driver.ParseSource(path, norm.NFC.Bytes(source))
			if len(diags) > 0 {
				if err := writeDiagnostics(cmd.OutOrStdout(), rootOpts.Format, diags); err != nil {
					return WrapExitError(ExitCommandError, "write output", err)
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d syntax error(s)", len(diags)))
			}
			if err := writeJSON(cmd.OutOrStdout(), file); err != nil {
				return WrapExitError(ExitCommandError, "encode syntax tree", err)
			}
			return nil
		},
	}
}

func readSource(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeDiagnostics(w io.Writer, format string, diags []diag.Diagnostic) error {
	if format == "json" {
		return diag.WriteJSON(w, diags)
	}
	return diag.WriteText(w, diags)
}
