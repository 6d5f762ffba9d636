// README: seed subcommand; applies the schema and loads the CSV exports into Postgres.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freight/internal/infra"
	"freight/internal/reference"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference tables from CSV exports into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serviceConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if schema := viper.GetString("schema"); schema != "" {
			ddl, err := os.ReadFile(schema)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
			if err := reference.ApplySchema(ctx, pool, string(ddl)); err != nil {
				return err
			}
		}

		counts, err := reference.Seed(ctx, pool, reference.NewCSVSource(cfg.Data.Dir))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "prices=%d locations=%d vehicles=%d users=%d\n",
			counts.Prices, counts.Locations, counts.Vehicles, counts.Users)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("schema", "migrations/0001_init.sql", "DDL applied before seeding (empty to skip)")
	_ = viper.BindPFlags(seedCmd.Flags())
}
