// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irs-forms/internal/httputil"
	"github.com/pdiddy/irs-forms/internal/report"
	"github.com/pdiddy/irs-forms/internal/search"
	"github.com/pdiddy/irs-forms/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <form>...",
	Short: "Report the title and year range of each form",
	Long: `Search looks up every given form in the prior-year form index and
reports its title and the earliest and latest years available. Forms that
do not appear in the index are reported as "not found". The report is
printed to stdout, or written to the report file with -f.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolP("file", "f", false, "write the report to the report file instead of stdout")
	searchCmd.Flags().String("output", "", "report file path (default forms.json)")
	searchCmd.Flags().String("format", "", "report format: json or yaml (default json)")
	searchCmd.Flags().Int("year-start", 0, "only consider years from this year on")
	searchCmd.Flags().Int("year-end", 0, "only consider years up to this year")

	viper.BindPFlag("report.file", searchCmd.Flags().Lookup("output"))
	viper.BindPFlag("report.format", searchCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := search.ValidateForms(args); err != nil {
		return err
	}
	years, err := yearFlags(cmd)
	if err != nil {
		return err
	}
	rcfg := reportConfig()
	if rcfg.Format != types.FormatJSON && rcfg.Format != types.FormatYAML {
		return &search.ValidationError{Field: "format", Value: string(rcfg.Format), Msg: "must be json or yaml"}
	}

	cfg := searchConfig()
	resolver := search.NewResolver(httputil.NewClient(cfg.HTTPConfig), cfg, logger)
	records, err := resolver.Resolve(cmd.Context(), args, years)
	if err != nil {
		return err
	}
	entries := report.Build(records)

	toFile, _ := cmd.Flags().GetBool("file")
	if !toFile {
		return report.Format(entries, rcfg.Format, os.Stdout)
	}
	if err := report.WriteFile(rcfg.File, entries, rcfg.Format); err != nil {
		return err
	}
	logger.Info("saved report", "path", rcfg.File, "forms", len(entries))
	return nil
}

// yearFlags returns the optional year filter. Both bounds must be given
// together.
func yearFlags(cmd *cobra.Command) (types.YearRange, error) {
	start, _ := cmd.Flags().GetInt("year-start")
	end, _ := cmd.Flags().GetInt("year-end")
	if start == 0 && end == 0 {
		return types.YearRange{}, nil
	}
	if start == 0 || end == 0 {
		return types.YearRange{}, &search.ValidationError{
			Field: "year range",
			Value: fmt.Sprintf("%d-%d", start, end),
			Msg:   "--year-start and --year-end must be given together",
		}
	}
	yr := types.YearRange{Start: start, End: end}
	return yr, search.ValidateYearRange(yr)
}
