// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reduces resolved form records to the user-facing year
// range summary and serializes it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/irs-forms/pkg/types"
)

// Status values for entries that carry no year range.
const (
	StatusNotFound       = "not found"
	StatusNoYearsInRange = "no years in range"
)

// Entry is one form's line in the report. Found forms carry a title and a
// year range; the rest carry a Status.
type Entry struct {
	FormNumber string `json:"form_number" yaml:"form_number"`
	FormTitle  string `json:"form_title,omitempty" yaml:"form_title,omitempty"`
	MinYear    *int   `json:"min_year,omitempty" yaml:"min_year,omitempty"`
	MaxYear    *int   `json:"max_year,omitempty" yaml:"max_year,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Build summarizes records in the order given. A found form whose years
// were all filtered away keeps its title and is marked StatusNoYearsInRange.
func Build(records []types.FormRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e := Entry{FormNumber: Capitalize(r.Form)}
		if !r.Found {
			e.Status = StatusNotFound
			entries = append(entries, e)
			continue
		}
		e.FormTitle = r.Title
		if lo, hi, ok := r.MinMax(); ok {
			e.MinYear, e.MaxYear = &lo, &hi
		} else {
			e.Status = StatusNoYearsInRange
		}
		entries = append(entries, e)
	}
	return entries
}

// Capitalize upper-cases the first rune of s and leaves the rest as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatJSON writes entries as a JSON array indented with four spaces.
func FormatJSON(entries []Entry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(entries)
}

// FormatYAML writes entries as a YAML list.
func FormatYAML(entries []Entry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(entries)
}

// Format writes entries in the requested format. An empty format means JSON.
func Format(entries []Entry, format types.ReportFormat, w io.Writer) error {
	switch format {
	case "", types.FormatJSON:
		return FormatJSON(entries, w)
	case types.FormatYAML:
		return FormatYAML(entries, w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes entries to path, replacing any existing file.
func WriteFile(path string, entries []Entry, format types.ReportFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Format(entries, format, f); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return f.Close()
}
