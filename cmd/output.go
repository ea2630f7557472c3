package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// Missing values print as a dash in tables.
const blank = "-"

func intText(v *int) string {
	if v == nil {
		return blank
	}
	return strconv.Itoa(*v)
}

func floatText(v *float64, prec int) string {
	if v == nil {
		return blank
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func strText(v *string) string {
	if v == nil || *v == "" {
		return blank
	}
	return *v
}
