package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tranvantrung27/herbadmin/internal/config"
	"github.com/tranvantrung27/herbadmin/internal/content"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default herb categories",
	Long:  `Writes the built-in category set into the database. Existing categories are never duplicated; running twice is safe.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	n, err := content.SeedCategories(context.Background(), st)
	if err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	fmt.Printf("Seeded %d categories\n", n)
	return nil
}
