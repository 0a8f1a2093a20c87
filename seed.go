package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upl-merch/assistant/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load catalog products and demo orders into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := readSeedFile(seedFile)
		if err != nil {
			return err
		}

		st, err := store.NewSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := store.Seed(ctx, st, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products and %d orders into %s\n",
			len(data.Products), len(data.Orders), cfg.Store.Path)
		return nil
	},
}

func readSeedFile(path string) (*store.SeedData, error) {
	if path == "" {
		return store.DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return store.ReadSeed(f)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (defaults to the bundled demo catalog)")
	rootCmd.AddCommand(seedCmd)
}
