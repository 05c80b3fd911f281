// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches the PDFs of a resolved form and writes them
// under a target directory, one file per year.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/irs-forms/internal/httputil"
	"github.com/pdiddy/irs-forms/internal/report"
	"github.com/pdiddy/irs-forms/pkg/types"
)

// DefaultDir is where PDFs land when no directory is configured.
const DefaultDir = "forms"

// Recorder persists a history of written files.
type Recorder interface {
	Record(ctx context.Context, entries []types.DownloadEntry) error
}

// Downloader writes every year of a FormRecord to Dir.
type Downloader struct {
	Fetcher httputil.Fetcher
	Dir     string
	Logger  *log.Logger

	// Ledger, when set, receives an entry per written file after a
	// successful batch.
	Ledger Recorder
}

// FileName returns the file name used for one year of form.
func FileName(form string, year int) string {
	return report.Capitalize(form) + " - " + strconv.Itoa(year) + ".pdf"
}

// Path returns where one year of form is written.
func (d *Downloader) Path(form string, year int) string {
	return filepath.Join(d.dir(), FileName(form, year))
}

// Download fetches every year of rec concurrently and returns the number of
// files written. A record without years writes nothing. The first failed
// fetch or write cancels the others and fails the batch; files already
// written by then are left in place.
func (d *Downloader) Download(ctx context.Context, rec types.FormRecord) (int, error) {
	if len(rec.Years) == 0 {
		return 0, nil
	}

	dir := d.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	entries := make([]types.DownloadEntry, len(rec.Years))
	g, gctx := errgroup.WithContext(ctx)
	for i, y := range rec.Years {
		i, y := i, y
		g.Go(func() error {
			e, err := d.fetchOne(gctx, rec.Form, y)
			if err != nil {
				return fmt.Errorf("downloading %s: %w", FileName(rec.Form, y.Year), err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if d.Ledger != nil {
		if err := d.Ledger.Record(ctx, entries); err != nil {
			d.logger().Warn("could not record downloads", "form", rec.Form, "err", err)
		}
	}
	return len(entries), nil
}

func (d *Downloader) fetchOne(ctx context.Context, form string, y types.YearRecord) (types.DownloadEntry, error) {
	body, err := d.Fetcher.Fetch(ctx, y.DownloadLink)
	if err != nil {
		return types.DownloadEntry{}, err
	}

	path := d.Path(form, y.Year)
	if err := writeFile(path, body); err != nil {
		return types.DownloadEntry{}, err
	}
	d.logger().Debug("wrote form", "path", path, "bytes", len(body))

	return types.DownloadEntry{
		Form:      form,
		Year:      y.Year,
		Link:      y.DownloadLink,
		Path:      path,
		Bytes:     int64(len(body)),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// writeFile writes data to a temporary file next to destPath and renames it
// into place once complete.
func writeFile(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (d *Downloader) dir() string {
	if d.Dir == "" {
		return DefaultDir
	}
	return d.Dir
}

func (d *Downloader) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}
