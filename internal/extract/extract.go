// Package extract reads result rows and the result count out of one page
// of the prior-year form index. It performs no I/O.
package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/irs-forms/pkg/types"
)

// Selectors for the index markup.
const (
	rowSelector   = "tr.even, tr.odd"
	titleSelector = "td.MiddleCellSpacer"
	yearSelector  = "td.EndCellSpacer"
	countSelector = "th.ShowByColumn"
)

// SkippedRow describes a matching-looking row that could not be read.
type SkippedRow struct {
	Index  int
	Reason string
}

// Result is what one page yields for one form.
type Result struct {
	Title   string
	Found   bool
	Years   []types.YearRecord
	Skipped []SkippedRow
}

// Rows extracts the rows of page whose form-name link matches form
// (compared lowercase). Rows naming other forms are ignored. Rows with a
// missing link, title or year cell, or a non-numeric year, are reported in
// Skipped and do not affect the others. When several rows match, the last
// non-empty title wins.
func Rows(page []byte, form string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Result{}, fmt.Errorf("parsing page: %w", err)
	}

	form = strings.ToLower(strings.TrimSpace(form))
	var res Result
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		a := row.Find("a").First()
		if a.Length() == 0 {
			res.Skipped = append(res.Skipped, SkippedRow{i, "no form link"})
			return
		}
		if strings.ToLower(strings.TrimSpace(a.Text())) != form {
			return
		}

		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			res.Skipped = append(res.Skipped, SkippedRow{i, "no download link"})
			return
		}
		titleCell := row.Find(titleSelector).First()
		if titleCell.Length() == 0 {
			res.Skipped = append(res.Skipped, SkippedRow{i, "no title cell"})
			return
		}
		yearCell := row.Find(yearSelector).First()
		if yearCell.Length() == 0 {
			res.Skipped = append(res.Skipped, SkippedRow{i, "no year cell"})
			return
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearCell.Text()))
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{i, fmt.Sprintf("bad year %q", strings.TrimSpace(yearCell.Text()))})
			return
		}

		if title := strings.TrimSpace(titleCell.Text()); title != "" {
			res.Title = title
		}
		res.Found = true
		res.Years = append(res.Years, types.YearRecord{Year: year, DownloadLink: href})
	})
	return res, nil
}

// ResultCount reads the total number of results from the count header,
// e.g. "1 - 200 of 1,234 files". ok is false when the header is missing or
// does not end in "<number> <word>".
func ResultCount(page []byte) (n int, ok bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return 0, false
	}
	th := doc.Find(countSelector).First()
	if th.Length() == 0 {
		return 0, false
	}
	fields := strings.Fields(th.Text())
	if len(fields) < 2 {
		return 0, false
	}
	n, err = strconv.Atoi(strings.ReplaceAll(fields[len(fields)-2], ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
