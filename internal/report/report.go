package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lox/aurorawatch/internal/aurorawatch"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write prints doc to w. Text output is the indented JSON dump followed by
// the one-line summary; JSON output is the dump alone.
func Write(w io.Writer, format string, doc aurorawatch.Document) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatText, "":
		if err := writeJSON(w, doc); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, doc.Summary())
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, doc aurorawatch.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", doc.Schema(), err)
	}
	return nil
}
