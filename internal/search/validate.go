// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/irs-forms/pkg/types"
)

const (
	// MinFormLength is the shortest form identifier accepted.
	MinFormLength = 4

	// MinYear is the earliest year accepted in a year range.
	MinYear = 1800
)

// ValidationError reports input rejected before any network activity.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}

// ValidateForms rejects an empty list and any form shorter than
// MinFormLength characters. Messages keep the caller's casing.
func ValidateForms(forms []string) error {
	if len(forms) == 0 {
		return &ValidationError{Field: "form", Msg: "at least one form is required"}
	}
	for _, f := range forms {
		if utf8.RuneCountInString(strings.TrimSpace(f)) < MinFormLength {
			return &ValidationError{Field: "form", Value: f, Msg: "form name is too short"}
		}
	}
	return nil
}

// ParseYearRange parses and validates an inclusive year range. Both years
// must be integers of at least MinYear with start <= end.
func ParseYearRange(start, end string) (types.YearRange, error) {
	s, err := parseYear("year_start", start)
	if err != nil {
		return types.YearRange{}, err
	}
	e, err := parseYear("year_end", end)
	if err != nil {
		return types.YearRange{}, err
	}
	yr := types.YearRange{Start: s, End: e}
	if err := ValidateYearRange(yr); err != nil {
		return types.YearRange{}, err
	}
	return yr, nil
}

// ValidateYearRange checks bounds on an already parsed range.
func ValidateYearRange(yr types.YearRange) error {
	if yr.Start < MinYear {
		return &ValidationError{Field: "year_start", Value: strconv.Itoa(yr.Start), Msg: fmt.Sprintf("years must be at least %d", MinYear)}
	}
	if yr.End < MinYear {
		return &ValidationError{Field: "year_end", Value: strconv.Itoa(yr.End), Msg: fmt.Sprintf("years must be at least %d", MinYear)}
	}
	if yr.Start > yr.End {
		return &ValidationError{Field: "year range", Value: fmt.Sprintf("%d-%d", yr.Start, yr.End), Msg: "start year is after end year"}
	}
	return nil
}

func parseYear(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: v, Msg: "years must be integers"}
	}
	return n, nil
}
