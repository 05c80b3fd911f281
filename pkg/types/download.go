// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DownloadEntry records one PDF written by the download stage.
type DownloadEntry struct {
	// Form is the normalized form identifier.
	Form string `json:"form" yaml:"form"`

	// Year is the revision year of the downloaded file.
	Year int `json:"year" yaml:"year"`

	// Link is the URL the file was fetched from.
	Link string `json:"link" yaml:"link"`

	// Path is the local filesystem path the file was written to.
	Path string `json:"path" yaml:"path"`

	// Bytes is the size of the written file.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// FetchedAt is when the file finished downloading.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
