package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/upl-merch/assistant/internal/api"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Print the storefront filter taxonomies as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(api.FilterSets())
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
