// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/irs-forms/internal/extract"
	"github.com/pdiddy/irs-forms/internal/httputil"
)

// Walker fetches every result page for one form.
type Walker struct {
	Fetcher   httputil.Fetcher
	SearchURL string
	Logger    *log.Logger
}

// Walk fetches the first page for form, reads the result count from it,
// and then fetches the remaining pages one at a time in ascending offset
// order. The returned pages are in that same order. A page without a
// readable count yields just the first page. Any fetch failure aborts the
// walk.
func (w *Walker) Walk(ctx context.Context, form string) ([][]byte, error) {
	logger := w.logger().With("form", form)

	first, err := w.Fetcher.Fetch(ctx, PageURL(w.searchURL(), form, 0))
	if err != nil {
		return nil, err
	}

	n, ok := extract.ResultCount(first)
	if !ok {
		logger.Debug("no result count on first page")
		return [][]byte{first}, nil
	}

	count := PageCount(n)
	logger.Debug("walking result pages", "results", n, "pages", count)

	pages := make([][]byte, 0, count)
	pages = append(pages, first)
	for offset := PageSize; offset < count*PageSize; offset += PageSize {
		body, err := w.Fetcher.Fetch(ctx, PageURL(w.searchURL(), form, offset))
		if err != nil {
			return nil, fmt.Errorf("page at offset %d: %w", offset, err)
		}
		pages = append(pages, body)
	}
	return pages, nil
}

func (w *Walker) searchURL() string {
	if w.SearchURL == "" {
		return DefaultSearchURL
	}
	return w.SearchURL
}

func (w *Walker) logger() *log.Logger {
	if w.Logger == nil {
		return log.Default()
	}
	return w.Logger
}
