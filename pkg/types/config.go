package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds every single HTTP request (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "irs-forms/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for resolving forms against the index.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// SearchURL is the prior-year form index endpoint, without query string.
	SearchURL string `json:"search_url" yaml:"search_url"`
}

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// Dir is the directory PDFs are written to (default "forms").
	Dir string `json:"dir" yaml:"dir"`

	// LedgerPath is the SQLite file recording downloads. Empty disables
	// the ledger.
	LedgerPath string `json:"ledger" yaml:"ledger"`
}

// ReportFormat selects the serialization of a search report.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
)

// ReportConfig holds settings for the search report.
type ReportConfig struct {
	// File is where "search -f" writes the report (default "forms.json").
	File string `json:"file" yaml:"file"`

	// Format selects json or yaml output.
	Format ReportFormat `json:"format" yaml:"format"`
}
