// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search resolves form identifiers against the prior-year form
// index: one pagination walk per form, run concurrently, merged into one
// FormRecord per form in deterministic order.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/irs-forms/internal/extract"
	"github.com/pdiddy/irs-forms/internal/httputil"
	"github.com/pdiddy/irs-forms/pkg/types"
)

var tracer = otel.Tracer("irs-forms/search")

// Resolver turns a set of form identifiers into FormRecords.
type Resolver struct {
	Walker *Walker
	Logger *log.Logger
}

// NewResolver wires a Resolver and its Walker to the same fetcher.
func NewResolver(f httputil.Fetcher, cfg types.SearchConfig, logger *log.Logger) *Resolver {
	return &Resolver{
		Walker: &Walker{Fetcher: f, SearchURL: cfg.SearchURL, Logger: logger},
		Logger: logger,
	}
}

// Resolve walks and extracts every distinct form concurrently. Each form is
// extracted as soon as its own walk finishes. The result is sorted by
// lowercase form. When years is set, each record's years are narrowed to
// the range; titles and the found flag are never changed by filtering.
//
// If any walk fails, the shared context is cancelled, in-flight siblings
// are abandoned, and Resolve returns that error with no records.
func (r *Resolver) Resolve(ctx context.Context, forms []string, years types.YearRange) ([]types.FormRecord, error) {
	forms = NormalizeForms(forms)

	ctx, span := tracer.Start(ctx, "Resolve", trace.WithAttributes(attribute.Int("forms", len(forms))))
	defer span.End()

	records := make([]types.FormRecord, len(forms))
	g, gctx := errgroup.WithContext(ctx)
	for i, form := range forms {
		i, form := i, form
		g.Go(func() error {
			rec, err := r.resolveOne(gctx, form)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", form, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Form < records[j].Form })

	if !years.IsZero() {
		for i := range records {
			records[i].Years = years.Filter(records[i].Years)
		}
	}
	return records, nil
}

// resolveOne runs one form's pagination walk and merges every page.
func (r *Resolver) resolveOne(ctx context.Context, form string) (types.FormRecord, error) {
	ctx, span := tracer.Start(ctx, "ResolveForm", trace.WithAttributes(attribute.String("form", form)))
	defer span.End()

	pages, err := r.Walker.Walk(ctx, form)
	if err != nil {
		span.RecordError(err)
		return types.FormRecord{}, err
	}
	return r.merge(form, pages)
}

// merge folds the per-page extraction results into one record in page
// order.
func (r *Resolver) merge(form string, pages [][]byte) (types.FormRecord, error) {
	logger := r.logger().With("form", form)
	rec := types.FormRecord{Form: form, Years: []types.YearRecord{}}
	for i, p := range pages {
		res, err := extract.Rows(p, form)
		if err != nil {
			return types.FormRecord{}, fmt.Errorf("page %d: %w", i, err)
		}
		for _, s := range res.Skipped {
			logger.Debug("skipped malformed row", "page", i, "row", s.Index, "reason", s.Reason)
		}
		if !res.Found {
			continue
		}
		rec.Found = true
		if res.Title != "" {
			rec.Title = res.Title
		}
		rec.Years = append(rec.Years, res.Years...)
	}
	logger.Debug("resolved form", "found", rec.Found, "years", len(rec.Years))
	return rec, nil
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
