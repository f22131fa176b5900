package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/seed"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

func newImporter(st store.Store) *seed.Importer {
	return &seed.Importer{Store: st, Source: seed.NewDummyJSON(cfg.SeedURL), Log: logger}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import users and todos from DummyJSON",
	Long:  "Imports every DummyJSON user and todo into the configured store. An already populated store is left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.StoreOptions())
		if err != nil {
			return fmt.Errorf("%s store: %w", cfg.Backend, err)
		}
		defer st.Close()

		res, err := newImporter(st).Run(cmd.Context())
		if err != nil {
			return err
		}
		if res.Skipped {
			fmt.Println("Store already seeded, nothing to do")
			return nil
		}
		fmt.Printf("Seeded %d users and %d todos (%d todos without a user skipped)\n", res.Users, res.Todos, res.Orphans)
		return nil
	},
}

func init() {

	seedCmd.Flags().AddFlagSet(storeFlags())

	seedCmd.Flags().StringVar(&cfg.SeedURL,
		"source-url", cfg.SeedURL, "Base URL of the DummyJSON API")

	rootCmd.AddCommand(seedCmd)
}
