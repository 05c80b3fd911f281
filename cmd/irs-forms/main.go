// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the irs-forms CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irs-forms/internal/download"
	"github.com/pdiddy/irs-forms/internal/search"
	"github.com/pdiddy/irs-forms/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "irs-forms/0.1"

// logger is configured in PersistentPreRunE; stdout stays reserved for
// reports.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
})

// rootCmd is the base command for the irs-forms CLI.
var rootCmd = &cobra.Command{
	Use:   "irs-forms",
	Short: "Find and download prior-year IRS forms",
	Long: `irs-forms searches the IRS prior-year form index. The search command
reports the title and available year range of each requested form; the
download command saves every PDF of one form within a year range.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("verbose") {
			logger.SetLevel(log.DebugLevel)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./irs-forms.yaml or ~/.config/irs-forms/irs-forms.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 10s)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	viper.SetDefault("http.timeout", 10*time.Second)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("http.max_retries", 0)
	viper.SetDefault("search.url", search.DefaultSearchURL)
	viper.SetDefault("download.dir", download.DefaultDir)
	viper.SetDefault("download.ledger", filepath.Join(".irs-forms", "ledger.db"))
	viper.SetDefault("report.file", "forms.json")
	viper.SetDefault("report.format", string(types.FormatJSON))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("irs-forms")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "irs-forms"))
		}
	}

	viper.SetEnvPrefix("IRS_FORMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return types.HTTPConfig{
		Timeout:    timeout,
		UserAgent:  viper.GetString("http.user_agent"),
		MaxRetries: viper.GetInt("http.max_retries"),
	}
}

func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: httpConfig(),
		SearchURL:  viper.GetString("search.url"),
	}
}

func downloadConfig() types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: httpConfig(),
		Dir:        viper.GetString("download.dir"),
		LedgerPath: viper.GetString("download.ledger"),
	}
}

func reportConfig() types.ReportConfig {
	return types.ReportConfig{
		File:   viper.GetString("report.file"),
		Format: types.ReportFormat(viper.GetString("report.format")),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
