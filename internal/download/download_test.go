// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/irs-forms/internal/httputil"
	"github.com/pdiddy/irs-forms/pkg/types"
)

const fakePDFPrefix = "%PDF-1.4 fake "

// newTestServer serves a fake PDF for /pdf/<name> and a 500 for /broken/.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/pdf/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFPrefix+strings.TrimPrefix(r.URL.Path, "/pdf/"))
		case strings.HasPrefix(r.URL.Path, "/broken/"):
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
}

func w2Record(base string) types.FormRecord {
	return types.FormRecord{
		Form:  "form w-2",
		Title: "Wage and Tax Statement",
		Found: true,
		Years: []types.YearRecord{
			{Year: 2018, DownloadLink: base + "/pdf/fw2--2018.pdf"},
			{Year: 2019, DownloadLink: base + "/pdf/fw2--2019.pdf"},
			{Year: 2020, DownloadLink: base + "/pdf/fw2--2020.pdf"},
		},
	}
}

type memLedger struct {
	mu      sync.Mutex
	entries []types.DownloadEntry
	err     error
}

func (m *memLedger) Record(_ context.Context, entries []types.DownloadEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Form w-2 - 2020.pdf", FileName("form w-2", 2020))
	assert.Equal(t, "Form 1095-C - 2015.pdf", FileName("Form 1095-C", 2015))
}

func TestDownload_WritesEveryYear(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := filepath.Join(t.TempDir(), "forms")
	d := &Downloader{Fetcher: httputil.NewClient(types.HTTPConfig{}), Dir: dir}

	n, err := d.Download(context.Background(), w2Record(ts.URL))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, year := range []int{2018, 2019, 2020} {
		path := filepath.Join(dir, fmt.Sprintf("Form w-2 - %d.pdf", year))
		assert.Equal(t, path, d.Path("form w-2", year))

		data, err := os.ReadFile(path)
		require.NoError(t, err, "year %d", year)
		assert.Equal(t, fmt.Sprintf("%sfw2--%d.pdf", fakePDFPrefix, year), string(data))
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3, "no temp files should remain")
}

func TestDownload_NoYearsWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "forms")
	d := &Downloader{Fetcher: httputil.NewClient(types.HTTPConfig{}), Dir: dir}

	n, err := d.Download(context.Background(), types.FormRecord{Form: "form 1040", Title: "x", Found: true})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory should not be created")
}

func TestDownload_OneFailureFailsBatch(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	rec := w2Record(ts.URL)
	rec.Years[1].DownloadLink = ts.URL + "/broken/fw2--2019.pdf"

	ledger := &memLedger{}
	d := &Downloader{Fetcher: httputil.NewClient(types.HTTPConfig{}), Dir: t.TempDir(), Ledger: ledger}

	n, err := d.Download(context.Background(), rec)
	assert.Zero(t, n)

	var fe *httputil.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.Contains(t, err.Error(), "Form w-2 - 2019.pdf")
	assert.Empty(t, ledger.entries)
}

func TestDownload_RecordsLedger(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	ledger := &memLedger{}
	d := &Downloader{Fetcher: httputil.NewClient(types.HTTPConfig{}), Dir: t.TempDir(), Ledger: ledger}

	_, err := d.Download(context.Background(), w2Record(ts.URL))
	require.NoError(t, err)

	require.Len(t, ledger.entries, 3)
	for i, e := range ledger.entries {
		assert.Equal(t, "form w-2", e.Form)
		assert.Equal(t, 2018+i, e.Year)
		assert.Equal(t, d.Path("form w-2", e.Year), e.Path)
		assert.Positive(t, e.Bytes)
		assert.False(t, e.FetchedAt.IsZero())
	}
}

func TestDownload_LedgerErrorIsNotFatal(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	d := &Downloader{
		Fetcher: httputil.NewClient(types.HTTPConfig{}),
		Dir:     t.TempDir(),
		Ledger:  &memLedger{err: errors.New("disk full")},
	}

	n, err := d.Download(context.Background(), w2Record(ts.URL))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
