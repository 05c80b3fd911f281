// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the irs-forms pipeline:
// form and year records produced by resolution, the year range used to
// narrow them, download ledger entries, and per-stage configuration.
package types

// YearRecord is one (year, download link) pair extracted from a matching
// row of the prior-year form index.
type YearRecord struct {
	// Year is the revision year shown in the index row.
	Year int `json:"year" yaml:"year"`

	// DownloadLink is the absolute URL of the PDF for that year.
	DownloadLink string `json:"download_link" yaml:"download_link"`
}

// FormRecord accumulates everything found for one form across all pages of
// its pagination walk.
type FormRecord struct {
	// Form is the normalized (lowercase) form identifier.
	Form string `json:"form" yaml:"form"`

	// Title is the form title displayed by the index. Empty when not found.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Found reports whether any index row matched Form. A found form can
	// still have zero Years once a YearRange is applied.
	Found bool `json:"found" yaml:"found"`

	// Years lists the extracted records in page order.
	Years []YearRecord `json:"years" yaml:"years"`
}

// MinMax returns the smallest and largest year in the record. ok is false
// when the record has no years.
func (r FormRecord) MinMax() (lo, hi int, ok bool) {
	if len(r.Years) == 0 {
		return 0, 0, false
	}
	lo, hi = r.Years[0].Year, r.Years[0].Year
	for _, y := range r.Years[1:] {
		lo = min(lo, y.Year)
		hi = max(hi, y.Year)
	}
	return lo, hi, true
}

// YearRange is an inclusive [Start, End] year filter. The zero value
// disables filtering.
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// IsZero reports whether the range is unset. A range with only one bound
// set is treated as unset.
func (yr YearRange) IsZero() bool {
	return yr.Start == 0 || yr.End == 0
}

// Contains reports whether year falls inside the range.
func (yr YearRange) Contains(year int) bool {
	return yr.Start <= year && year <= yr.End
}

// Filter returns the records whose year falls inside the range. It always
// returns a new slice; the input is left untouched.
func (yr YearRange) Filter(years []YearRecord) []YearRecord {
	out := make([]YearRecord, 0, len(years))
	for _, y := range years {
		if yr.IsZero() || yr.Contains(y.Year) {
			out = append(out, y)
		}
	}
	return out
}
