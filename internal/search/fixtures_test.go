// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/irs-forms/internal/httputil"
)

const testBase = "https://index.test/list"

func resultRow(form, link, title string, year int) string {
	return fmt.Sprintf(`<tr class="even"><td class="LeftCellSpacer"><a href="%s">%s</a></td>`+
		`<td class="MiddleCellSpacer">%s</td><td class="EndCellSpacer">%d</td></tr>`, link, form, title, year)
}

// resultsPage renders a page with a count header for total results.
func resultsPage(total int, rows ...string) []byte {
	return []byte(fmt.Sprintf(`<html><body><table>
<tr><th class="ShowByColumn">1 - 200 of %s files</th></tr>
%s
</table></body></html>`, thousands(total), strings.Join(rows, "\n")))
}

func thousands(n int) string {
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

var errBoom = errors.New("connection reset")

// fakeFetcher serves pages keyed by form and row offset.
type fakeFetcher struct {
	pages map[string]map[int][]byte
	delay map[string]time.Duration
	fail  map[string]bool

	mu    sync.Mutex
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: map[string]map[int][]byte{},
		delay: map[string]time.Duration{},
		fail:  map[string]bool{},
	}
}

func (f *fakeFetcher) add(form string, offset int, body []byte) {
	if f.pages[form] == nil {
		f.pages[form] = map[int][]byte{}
	}
	f.pages[form][offset] = body
}

func (f *fakeFetcher) Fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	form := u.Query().Get("value")
	offset, _ := strconv.Atoi(u.Query().Get("indexOfFirstRow"))

	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s@%d", form, offset))
	f.mu.Unlock()

	if d := f.delay[form]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, &httputil.FetchError{URL: raw, Err: ctx.Err()}
		}
	}
	if f.fail[form] {
		return nil, &httputil.FetchError{URL: raw, Err: errBoom}
	}
	body, ok := f.pages[form][offset]
	if !ok {
		return nil, &httputil.FetchError{URL: raw, StatusCode: 404, Err: errors.New("HTTP 404")}
	}
	return body, nil
}

func (f *fakeFetcher) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
