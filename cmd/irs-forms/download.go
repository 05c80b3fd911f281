// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irs-forms/internal/download"
	"github.com/pdiddy/irs-forms/internal/httputil"
	"github.com/pdiddy/irs-forms/internal/ledger"
	"github.com/pdiddy/irs-forms/internal/search"
)

var downloadCmd = &cobra.Command{
	Use:   "download <form> <year_start> <year_end>",
	Short: "Download every PDF of a form within a year range",
	Long: `Download resolves one form in the prior-year form index, keeps the
years between year_start and year_end inclusive, and saves each PDF as
"<Form> - <year>.pdf" in the download directory. Years must be integers no
earlier than 1800.`,
	Args: cobra.ExactArgs(3),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("dir", "", "directory for downloaded PDFs (default forms)")
	downloadCmd.Flags().String("ledger", "", "SQLite download history file; \"\" in config disables it")

	viper.BindPFlag("download.dir", downloadCmd.Flags().Lookup("dir"))
	viper.BindPFlag("download.ledger", downloadCmd.Flags().Lookup("ledger"))

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	form := args[0]
	years, err := search.ParseYearRange(args[1], args[2])
	if err != nil {
		return err
	}

	cfg := downloadConfig()
	client := httputil.NewClient(cfg.HTTPConfig)

	resolver := search.NewResolver(client, searchConfig(), logger)
	records, err := resolver.Resolve(cmd.Context(), []string{form}, years)
	if err != nil {
		return err
	}
	if len(records) == 0 || !records[0].Found {
		logger.Warn("form not found", "form", form)
		return nil
	}
	rec := records[0]

	d := &download.Downloader{Fetcher: client, Dir: cfg.Dir, Logger: logger}
	if cfg.LedgerPath != "" {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			logger.Warn("download history disabled", "err", err)
		} else {
			defer store.Close()
			d.Ledger = store
		}
	}

	n, err := d.Download(cmd.Context(), rec)
	if err != nil {
		return err
	}
	logger.Info("forms downloaded", "form", rec.Form, "count", n, "dir", cfg.Dir)
	return nil
}
