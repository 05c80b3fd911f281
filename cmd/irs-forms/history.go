// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irs-forms/internal/ledger"
	"github.com/pdiddy/irs-forms/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [form]",
	Short: "List previously downloaded forms",
	Long: `History lists the files recorded in the download ledger, newest
first. Give a form to list only its downloads.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("download.ledger")
	if path == "" {
		return fmt.Errorf("download ledger is disabled (download.ledger is empty)")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No downloads recorded.")
		return nil
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var form string
	if len(args) == 1 {
		form = args[0]
	}
	entries, err := store.List(cmd.Context(), form)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(entries, jsonOutput)
}

func formatHistory(entries []types.DownloadEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No downloads recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-4s  %-10s  %s\n", "Fetched", "Year", "Bytes", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-20s  %-4d  %-10d  %s\n",
			e.FetchedAt.Local().Format("2006-01-02 15:04:05"), e.Year, e.Bytes, e.Path)
	}
	fmt.Fprintf(os.Stdout, "\n%d files\n", len(entries))
	return nil
}
