// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultSearchURL is the prior-year form index endpoint.
const DefaultSearchURL = "https://apps.irs.gov/app/picklist/list/priorFormPublication.html"

// PageSize is the number of results the index returns per page.
const PageSize = 200

// PageURL builds the index URL for one page of results for form, starting
// at the zero-based row offset. Spaces in form encode as "+".
func PageURL(base, form string, offset int) string {
	// Built by hand so the parameter order matches what the site links to.
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?indexOfFirstRow=")
	b.WriteString(strconv.Itoa(offset))
	b.WriteString("&sortColumn=sortOrder&value=")
	b.WriteString(url.QueryEscape(form))
	b.WriteString("&criteria=formNumber&resultsPerPage=")
	b.WriteString(strconv.Itoa(PageSize))
	b.WriteString("&isDescending=false")
	return b.String()
}

// PageCount returns how many result pages hold n results. It mirrors the
// index's own arithmetic, so an exact multiple of PageSize yields one
// trailing (empty) page.
func PageCount(n int) int {
	return n/PageSize + 1
}

// NormalizeForms lowercases and trims each form, drops empties and
// duplicates, and returns the set in ascending order.
func NormalizeForms(forms []string) []string {
	seen := make(map[string]bool, len(forms))
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
