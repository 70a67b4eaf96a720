package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteText renders diagnostics one per line, followed by indented
// expected/found lines and notes.
func WriteText(w io.Writer, diags []Diagnostic) error {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(Describe(d))
		b.WriteByte('\n')
		if d.Expected != "" || d.Found != "" {
			fmt.Fprintf(&b, "  expected: %s\n", d.Expected)
			fmt.Fprintf(&b, "     found: %s\n", d.Found)
		}
		for _, note := range d.Notes {
			location := formatLocation(d.Path, note.Span.Start)
			if location != "" {
				fmt.Fprintf(&b, "  note: %s: %s\n", location, note.Message)
			} else {
				fmt.Fprintf(&b, "  note: %s\n", note.Message)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders diagnostics as an indented JSON array.
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diags); err != nil {
		return fmt.Errorf("diag: encode json: %w", err)
	}
	return nil
}
